package zwd

type internalNodeAdded struct {
	node *internalNode
}

type internalNodeRemoved struct {
	node *internalNode
}

type internalEntityReady struct {
	values *entityValues
}
