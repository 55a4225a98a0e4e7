package predict

import (
	"titan/utils"
)

// RevealCreatures records that the named creatures are in this legion.
// New certainty is pushed up to the ancestors and then back down as a
// revised split guess for the whole lineage. A reveal that fails anywhere
// in the lineage leaves the tree as it was.
func (n *Node) RevealCreatures(names []string) error {
	names = n.canonical(names)
	return n.atomically(func() error {
		return n.reveal(names)
	})
}

// RevealAllCreatures records the full contents of this legion.
func (n *Node) RevealAllCreatures(names []string) error {
	if len(names) != n.Height() {
		return n.violation("revealAllCreatures", "revealed %d creatures in a %d-high legion", len(names), n.Height())
	}
	return n.RevealCreatures(names)
}

// revealFromChildren re-derives what this node must have contained from
// the certain at-split contents of its children.
func (n *Node) revealFromChildren() error {
	if !n.HasSplit() {
		return n.violation("revealCreatures", "no children to derive contents from")
	}
	names := n.child1.CertainAtSplitOrRemovedCreatures().Names()
	names = append(names, n.child2.CertainAtSplitOrRemovedCreatures().Names()...)
	return n.reveal(names)
}

func (n *Node) reveal(names []string) error {
	gained := utils.Subtract(names, n.creatures.Certain().Names())
	if len(gained) == 0 {
		if n.HasSplit() {
			return n.reSplit()
		}
		return nil
	}

	if err := n.confirm(gained); err != nil {
		return err
	}
	if n.parent != nil {
		// The parent's split will overwrite this node's contents.
		return n.parent.revealFromChildren()
	}
	if n.HasSplit() {
		return n.reSplit()
	}
	return nil
}

// confirm makes one uncertain slot certain per gained name without
// changing the height. A slot already guessed as that type is preferred;
// otherwise the last uncertain slot is retyped.
func (n *Node) confirm(gained []string) error {
	uncertain := n.creatures.Uncertain()
	if len(gained) > len(uncertain) {
		return n.violation("revealCreatures", "revealed %v but only %d uncertain creatures in %v",
			gained, len(uncertain), n.creatures)
	}

	used := make(map[*CreatureInfo]bool, len(gained))
	var rest []string
	for _, name := range gained {
		found := false
		for _, ci := range uncertain {
			if !used[ci] && ci.name == name {
				ci.confirm()
				used[ci] = true
				found = true
				break
			}
		}
		if !found {
			rest = append(rest, name)
		}
	}

	for _, name := range rest {
		for i := len(n.creatures) - 1; i >= 0; i-- {
			ci := n.creatures[i]
			if !ci.certain && !used[ci] {
				retyped := NewCreatureInfo(name, true, ci.atSplit)
				n.creatures[i] = retyped
				used[retyped] = true
				break
			}
		}
	}
	n.creatures.Sort()
	return nil
}

// AddCreature records a recruit or an acquired creature.
func (n *Node) AddCreature(name string) error {
	if limit := n.cfg.rules.MaxHeight(); n.Height() >= limit && !n.HasSplit() {
		return n.violation("addCreature", "tried adding %s to %d-high legion", name, n.Height())
	}
	n.creatures = append(n.creatures, NewCreatureInfo(n.cfg.values.Canonical(name), true, false))
	n.creatures.Sort()
	return nil
}

// RemoveCreature records that a creature left the legion. Its identity
// becomes certain first.
func (n *Node) RemoveCreature(name string) error {
	name = n.cfg.values.Canonical(name)
	return n.atomically(func() error {
		return n.removeCreature(name)
	})
}

func (n *Node) removeCreature(name string) error {
	const op = "removeCreature"
	if n.Height() == 0 {
		return n.violation(op, "tried removing %s from empty legion", name)
	}
	if err := n.reveal([]string{name}); err != nil {
		return err
	}
	creatures, ci := n.creatures.RemoveCertain(name)
	if ci == nil {
		return n.violation(op, "tried removing nonexistent %s from %v", name, n.creatures)
	}
	// Ancestors need creatures that were here at the split.
	if ci.atSplit {
		n.removed = append(n.removed, ci)
	}
	n.creatures = creatures
	return nil
}

// RemoveCreatures reveals all names together before removing them one by
// one. Either all of them are removed or none.
func (n *Node) RemoveCreatures(names []string) error {
	names = n.canonical(names)
	return n.atomically(func() error {
		if err := n.reveal(names); err != nil {
			return err
		}
		for _, name := range names {
			if err := n.removeCreature(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (n *Node) canonical(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = n.cfg.values.Canonical(name)
	}
	return out
}

// savedTree holds copies of every creature list of a tree.
type savedTree struct {
	nodes     []*Node
	creatures []CreatureList
	removed   []CreatureList
}

func (st *savedTree) save(n *Node) {
	st.nodes = append(st.nodes, n)
	st.creatures = append(st.creatures, n.creatures.Clone())
	st.removed = append(st.removed, n.removed.Clone())
	if n.HasSplit() {
		st.save(n.child1)
		st.save(n.child2)
	}
}

func (st *savedTree) restore() {
	for i, n := range st.nodes {
		n.creatures = st.creatures[i]
		n.removed = st.removed[i]
	}
}

// atomically runs edit and puts back the creatures of the whole tree if it
// fails. Edits run through here must not change the shape of the tree.
func (n *Node) atomically(edit func() error) error {
	top := n
	for top.parent != nil {
		top = top.parent
	}
	saved := &savedTree{}
	saved.save(top)
	if err := edit(); err != nil {
		saved.restore()
		return err
	}
	return nil
}
