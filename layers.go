package compositor

import "sort"

// layerSet holds the mounted components, keyed by layer and ordered by
// insertion within each layer. Within one layer component ids are unique;
// the same id may be mounted on different layers simultaneously.
type layerSet[S, E any] struct {
	layers map[LayerId][]Component[S, E]

	// ordered contains the layer keys sorted ascending.
	ordered []LayerId

	// needsSort indicates ordered needs re-sorting.
	needsSort bool
}

func newLayerSet[S, E any]() *layerSet[S, E] {
	return &layerSet[S, E]{
		layers: make(map[LayerId][]Component[S, E]),
	}
}

// sorted returns the layer keys in ascending order.
func (ls *layerSet[S, E]) sorted() []LayerId {
	if ls.needsSort {
		sort.Slice(ls.ordered, func(i, j int) bool { return ls.ordered[i] < ls.ordered[j] })
		ls.needsSort = false
	}
	return ls.ordered
}

func (ls *layerSet[S, E]) layer(id LayerId) []Component[S, E] {
	return ls.layers[id]
}

func (ls *layerSet[S, E]) ensure(id LayerId) {
	if _, ok := ls.layers[id]; !ok {
		ls.layers[id] = nil
		ls.ordered = append(ls.ordered, id)
		ls.needsSort = true
	}
}

// insert mounts component at the end of the layer. Returns ErrDuplicateID if
// the id is already present on that layer; the component stays unmounted.
func (ls *layerSet[S, E]) insert(layerID LayerId, component Component[S, E]) error {
	id := component.ID()
	for _, c := range ls.layers[layerID] {
		if c.ID() == id {
			return ErrDuplicateID
		}
	}

	ls.ensure(layerID)
	ls.layers[layerID] = append(ls.layers[layerID], component)
	return nil
}

// replace evicts any same-id occupant of the layer and mounts component at
// the end, so a replaced component always becomes the topmost sibling.
func (ls *layerSet[S, E]) replace(layerID LayerId, component Component[S, E]) {
	ls.removeFrom(layerID, component.ID())
	ls.ensure(layerID)
	ls.layers[layerID] = append(ls.layers[layerID], component)
}

// removeFrom removes id from one layer, reporting whether anything was
// removed.
func (ls *layerSet[S, E]) removeFrom(layerID LayerId, id Id) bool {
	comps := ls.layers[layerID]
	for i, c := range comps {
		if c.ID() == id {
			ls.layers[layerID] = append(comps[:i], comps[i+1:]...)
			return true
		}
	}
	return false
}

// removeAll removes id from every layer.
func (ls *layerSet[S, E]) removeAll(id Id) {
	for layerID := range ls.layers {
		ls.removeFrom(layerID, id)
	}
}

// find returns the component with id on the layer and its position.
func (ls *layerSet[S, E]) find(layerID LayerId, id Id) (Component[S, E], int, bool) {
	for i, c := range ls.layers[layerID] {
		if c.ID() == id {
			return c, i, true
		}
	}
	return nil, 0, false
}

// removeAt unmounts the component at position i of the layer.
func (ls *layerSet[S, E]) removeAt(layerID LayerId, i int) {
	comps := ls.layers[layerID]
	ls.layers[layerID] = append(comps[:i], comps[i+1:]...)
}
