package zwd

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/match"
)

// EntityConfig is the per entity configuration applied at discovery time.
type EntityConfig struct {
	Ignored          bool
	PollingIntensity *uint8
	InvertOpenClose  bool
	RefreshValue     bool
	RefreshDelay     int
}

// entityConfigPatch is a partially specified EntityConfig, so glob and exact
// entries can merge with per key precedence.
type entityConfigPatch struct {
	ignored          *bool
	pollingIntensity *uint8
	invertOpenClose  *bool
	refreshValue     *bool
	refreshDelay     *int
}

func (p entityConfigPatch) applyTo(c *EntityConfig) {
	if p.ignored != nil {
		c.Ignored = *p.ignored
	}

	if p.pollingIntensity != nil {
		c.PollingIntensity = p.pollingIntensity
	}

	if p.invertOpenClose != nil {
		c.InvertOpenClose = *p.invertOpenClose
	}

	if p.refreshValue != nil {
		c.RefreshValue = *p.refreshValue
	}

	if p.refreshDelay != nil {
		c.RefreshDelay = *p.refreshDelay
	}
}

type globEntry struct {
	pattern string
	patch   entityConfigPatch
}

// DeviceConfig holds the static per entity override table. Exact entries are
// keyed by entity id, glob entries are matched in declaration order with
// first match wins, and exact entries take precedence on conflicting keys.
type DeviceConfig struct {
	exact map[string]entityConfigPatch
	globs []globEntry
}

func NewDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		exact: make(map[string]entityConfigPatch),
	}
}

// Lookup resolves the effective configuration for an entity id.
func (d *DeviceConfig) Lookup(entityID string) EntityConfig {
	var cfg EntityConfig

	if d == nil {
		return cfg
	}

	for _, g := range d.globs {
		if match.Match(entityID, g.pattern) {
			g.patch.applyTo(&cfg)
			break
		}
	}

	if p, found := d.exact[entityID]; found {
		p.applyTo(&cfg)
	}

	return cfg
}

var recognisedConfigKeys = map[string]struct{}{
	"ignored":           {},
	"polling_intensity": {},
	"invert_openclosed": {},
	"refresh_value":     {},
	"delay":             {},
}

// ParseDeviceConfig reads a JSON configuration document of the shape:
//
//	{
//	  "device_config": {"binary_sensor.front_door_10": {"ignored": true}},
//	  "device_config_glob": [
//	    {"pattern": "sensor.*", "polling_intensity": 2}
//	  ]
//	}
//
// Glob entries keep their declaration order. Unknown keys are rejected so a
// typo cannot silently disable an override.
func ParseDeviceConfig(data []byte) (*DeviceConfig, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("device config: invalid json")
	}

	cfg := NewDeviceConfig()

	var parseErr error

	gjson.GetBytes(data, "device_config").ForEach(func(key, value gjson.Result) bool {
		patch, err := parseConfigPatch(value)
		if err != nil {
			parseErr = fmt.Errorf("device config %s: %w", key.String(), err)
			return false
		}

		cfg.exact[key.String()] = patch
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	gjson.GetBytes(data, "device_config_glob").ForEach(func(_, value gjson.Result) bool {
		pattern := value.Get("pattern").String()
		if pattern == "" {
			parseErr = fmt.Errorf("device config glob: entry missing pattern")
			return false
		}

		patch, err := parseConfigPatch(value)
		if err != nil {
			parseErr = fmt.Errorf("device config glob %s: %w", pattern, err)
			return false
		}

		cfg.globs = append(cfg.globs, globEntry{pattern: pattern, patch: patch})
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return cfg, nil
}

func parseConfigPatch(value gjson.Result) (entityConfigPatch, error) {
	var patch entityConfigPatch
	var err error

	value.ForEach(func(key, v gjson.Result) bool {
		name := key.String()

		if name == "pattern" {
			return true
		}

		if _, known := recognisedConfigKeys[name]; !known {
			err = fmt.Errorf("unrecognised key: %s", name)
			return false
		}

		switch name {
		case "ignored":
			b := v.Bool()
			patch.ignored = &b
		case "polling_intensity":
			i := uint8(v.Uint())
			patch.pollingIntensity = &i
		case "invert_openclosed":
			b := v.Bool()
			patch.invertOpenClose = &b
		case "refresh_value":
			b := v.Bool()
			patch.refreshValue = &b
		case "delay":
			i := int(v.Int())
			patch.refreshDelay = &i
		}

		return true
	})

	return patch, err
}
