package zwd

import (
	"context"
	"sort"
	"sync"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/zwd/ozw"
	"github.com/shimmeringbee/zwd/rules"
)

// entityValues collects the companion values belonging to one prospective
// entity, rooted at its primary value. It stays in a collecting state until
// every mandatory role is filled, then fires discovery exactly once, or
// parks permanently as ignored when configuration or a workaround says the
// device must not surface.
type entityValues struct {
	gateway *ZWaveGateway
	schema  *rules.Schema
	node    *internalNode
	primary *ozw.Value

	// roleOrder fixes iteration: primary first, remaining roles in sorted
	// declaration name order so consumers can rely on positions.
	roleOrder []string

	// roleMutex guards roles, the driver loop fills roles after the entity
	// is already visible to host goroutines.
	roleMutex sync.RWMutex
	roles     map[string]*ozw.Value

	component string
	entity    Entity

	ready   bool
	ignored bool
}

// newEntityValues builds an aggregator for a primary value and eagerly scans
// the node's already known values, so devices whose values were all reported
// before this process started become ready at construction. The scan visits
// values in ascending value id order, making role tie-breaks deterministic.
func newEntityValues(g *ZWaveGateway, schema *rules.Schema, node *internalNode, primary *ozw.Value) *entityValues {
	roleOrder := []string{rules.RolePrimary}

	var secondary []string
	for name := range schema.Values {
		if name != rules.RolePrimary {
			secondary = append(secondary, name)
		}
	}
	sort.Strings(secondary)
	roleOrder = append(roleOrder, secondary...)

	ev := &entityValues{
		gateway:   g,
		schema:    schema,
		node:      node,
		primary:   primary,
		roleOrder: roleOrder,
		roles:     map[string]*ozw.Value{rules.RolePrimary: primary},
	}

	for _, v := range safeValues(node.knownValues) {
		if v.ID == primary.ID {
			continue
		}

		ev.fillRoles(v)
	}

	return ev
}

// Primary returns the value that triggered this entity.
func (e *entityValues) Primary() *ozw.Value {
	return e.primary
}

// Get returns the value filling a role, or nil while the role is unfilled.
func (e *entityValues) Get(role string) *ozw.Value {
	e.roleMutex.RLock()
	defer e.roleMutex.RUnlock()

	return e.roles[role]
}

// Snapshot copies the value filling a role under the owning node's lock,
// reporting false while the role is unfilled. Entity bridges read through
// this rather than dereferencing the shared value.
func (e *entityValues) Snapshot(role string) (ozw.Value, bool) {
	v := e.Get(role)
	if v == nil {
		return ozw.Value{}, false
	}

	return e.node.copyValue(v), true
}

// PrimarySnapshot copies the primary value under the owning node's lock.
func (e *entityValues) PrimarySnapshot() ozw.Value {
	return e.node.copyValue(e.primary)
}

// Values returns every role's value in declared order, primary first.
// Unfilled roles yield nil rather than being omitted, positions are stable.
func (e *entityValues) Values() []*ozw.Value {
	e.roleMutex.RLock()
	defer e.roleMutex.RUnlock()

	vals := make([]*ozw.Value, len(e.roleOrder))

	for i, name := range e.roleOrder {
		vals[i] = e.roles[name]
	}

	return vals
}

// Node returns the owning node.
func (e *entityValues) Node() *internalNode {
	return e.node
}

// matches applies the role rule together with the schema's node level
// constraints, a value never fills a role on a node the schema excludes.
func (e *entityValues) matches(v *ozw.Value, rule rules.ValueRule) bool {
	snap := e.node.snapshot()

	if !e.schema.MatchesNode(snap) {
		return false
	}

	return rules.Matches(snap, *v, rule)
}

// fillRoles assigns v to every still unfilled role it satisfies. Filled
// roles are never replaced, first match wins. Reports whether any role was
// filled.
func (e *entityValues) fillRoles(v *ozw.Value) bool {
	e.roleMutex.Lock()
	defer e.roleMutex.Unlock()

	filled := false

	for _, name := range e.roleOrder {
		if e.roles[name] != nil {
			continue
		}

		if e.matches(v, e.schema.Values[name]) {
			e.roles[name] = v
			filled = true
		}
	}

	return filled
}

// checkValue feeds a newly reported or updated value into the aggregator.
// Filling a role re-evaluates readiness, a value for an already filled role
// only re-renders the entity and never re-fires discovery.
func (e *entityValues) checkValue(v *ozw.Value) {
	if e.fillRoles(v) {
		if e.entity != nil {
			e.entity.ValueAdded()
		}

		e.checkReady()
		return
	}

	for _, name := range e.roleOrder {
		current := e.Get(name)
		if current == nil {
			continue
		}

		if current.ID == v.ID || e.matches(v, e.schema.Values[name]) {
			if e.entity != nil {
				e.entity.ValueChanged()
			}

			return
		}
	}
}

// entityID resolves the synthetic entity id used for configuration lookups,
// after any workaround component override.
func (e *entityValues) entityID() (string, string, bool) {
	component := e.schema.Component

	if override, found := rules.WorkaroundComponent(e.node.snapshot(), *e.primary); found {
		if override == rules.WorkaroundIgnore {
			return "", "", false
		}

		component = override
	}

	return component, component + "." + objectID(e.node, e.primary), true
}

// checkReady fires discovery when every mandatory role is filled and nothing
// configures the device away. A platform declining the device leaves the
// aggregator collecting, a later qualifying value re-runs this check.
func (e *entityValues) checkReady() {
	if e.ready || e.ignored {
		return
	}

	for name, rule := range e.schema.Values {
		if !rule.Optional && e.Get(name) == nil {
			return
		}
	}

	component, entityID, surfaced := e.entityID()
	if !surfaced {
		e.ignored = true
		return
	}

	cfg := e.gateway.deviceConfig.Lookup(entityID)
	if cfg.Ignored {
		e.gateway.logger.LogInfo(e.gateway.ctx, "Ignoring entity by device configuration.", logwrap.Datum("EntityID", entityID))
		e.ignored = true
		return
	}

	entity := e.gateway.platforms.create(component, e, cfg)
	if entity == nil {
		// Platform declined the device, stay collecting.
		return
	}

	e.component = component
	e.entity = entity
	e.applyPollingPolicy(cfg)
	e.ready = true

	e.gateway.callbacks.Call(context.Background(), internalEntityReady{values: e})
}

// applyPollingPolicy configures primary value polling at discovery: an
// explicit intensity override enables polling, otherwise polling is disabled
// for nodes that pre-date this process and left at the library default for
// newly included ones.
func (e *entityValues) applyPollingPolicy(cfg EntityConfig) {
	ctx := e.gateway.ctx

	if cfg.PollingIntensity != nil {
		if err := e.gateway.driver.EnablePoll(ctx, e.primary.ID, *cfg.PollingIntensity); err != nil {
			e.gateway.logger.LogWarn(ctx, "Failed to enable polling for value.", logwrap.Datum("ValueID", e.primary.ID.String()), logwrap.Err(err))
		}

		return
	}

	if e.node.prePopulated {
		if err := e.gateway.driver.DisablePoll(ctx, e.primary.ID); err != nil {
			e.gateway.logger.LogWarn(ctx, "Failed to disable polling for value.", logwrap.Datum("ValueID", e.primary.ID.String()), logwrap.Err(err))
		}
	}
}
