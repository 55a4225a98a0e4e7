package predict

import (
	"titan/utils"

	"github.com/rs/zerolog/log"
)

// Merge recombines this legion with other, undoing the split that
// separated them. The usual case is two siblings. After a legion split
// twice, other may instead be a child of this legion's sibling (or the
// reverse). The node now standing for the recombined legion is returned.
func (n *Node) Merge(other *Node) (*Node, error) {
	const op = "merge"
	switch {
	case n == other:
		return nil, n.violation(op, "cannot merge a legion with itself")
	case n.parent != nil && n.parent == other.parent:
		if marker := n.parent.markerID; n.markerID != marker && other.markerID != marker {
			return nil, n.violation(op, "neither %s nor %s carries the marker of %s",
				n.FullName(), other.FullName(), n.parent.FullName())
		}
		return n.parent.undoSplit(), nil
	case other.parent == n:
		return n.undoSplit(), nil
	case n.parent == other:
		return other.undoSplit(), nil
	case n.parent != nil && other.parent != nil && n.parent == other.parent.parent:
		return mergeThreeWay(n, other)
	case n.parent != nil && other.parent != nil && n.parent.parent == other.parent:
		return mergeThreeWay(other, n)
	}
	return nil, n.violation(op, "cannot merge unrelated legion %s", other.FullName())
}

// undoSplit folds what happened to the children since the split back into
// this node and drops them.
func (n *Node) undoSplit() *Node {
	if !n.HasSplit() {
		return n
	}
	child1, child2 := n.child1, n.child2
	for _, child := range []*Node{child1, child2} {
		n.creatures = append(n.creatures, child.AfterSplitCreatures()...)
		for _, gone := range child.removed {
			var ci *CreatureInfo
			if n.creatures, ci = n.creatures.removeName(gone.name); ci != nil && ci.atSplit {
				n.removed = append(n.removed, ci)
			}
		}
	}
	n.creatures.Sort()
	n.clearChildren()
	log.Debug().Msgf("merged %s and %s back into %s", child1.FullName(), child2.FullName(), n)
	return n
}

// mergeThreeWay handles nephew, a child of uncle's sibling, merging into
// uncle. The grandparent ends up split directly into the combined legion
// and nephew's sibling, bypassing the intermediate node.
func mergeThreeWay(uncle, nephew *Node) (*Node, error) {
	intermediate := nephew.parent
	grandparent := uncle.parent
	third := intermediate.child1
	if third == nephew {
		third = intermediate.child2
	}

	// At-split flags of nephew and third count from the intermediate split.
	// What the intermediate legion recruited before that split was not part
	// of the grandparent's split.
	recruits := intermediate.AfterSplitCreatures().Names()
	for _, name := range utils.Distinct(recruits) {
		held := 0
		for _, legion := range []*Node{nephew, third} {
			held += legion.AtSplitOrRemovedCreatures().Count(name)
		}
		if need := utils.Count(recruits, name); held < need {
			return nil, intermediate.violation("merge", "%d %s recruited before the split, %d left in %s and %s",
				need, name, held, nephew.FullName(), third.FullName())
		}
	}
	for _, name := range recruits {
		unanchor(name, nephew, third)
	}
	third.removed = append(third.removed, intermediate.removed...)

	// The combined contents live on whichever merging legion carries the
	// grandparent's marker, or on uncle if neither does.
	survivor, absorbed := uncle, nephew
	if nephew.markerID == grandparent.markerID {
		survivor, absorbed = nephew, uncle
	}
	survivor.creatures = append(survivor.creatures, absorbed.creatures...)
	survivor.creatures.Sort()
	survivor.removed = append(survivor.removed, absorbed.removed...)
	survivor.parent = grandparent
	third.parent = grandparent

	if third.markerID == grandparent.markerID {
		grandparent.child1, grandparent.child2 = third, survivor
	} else {
		grandparent.child1, grandparent.child2 = survivor, third
	}
	grandparent.childSize2 = len(grandparent.child2.AtSplitOrRemovedCreatures())
	grandparent.swapped = false
	grandparent.regrouped = true

	log.Debug().Msgf("merged %s into %s, %s now split into %s and %s",
		absorbed.FullName(), survivor.FullName(), grandparent.FullName(), grandparent.child1, grandparent.child2)
	return survivor, nil
}

// unanchor turns one at-split creature of the given type into an after-split
// one, preferring a certain entry. A removed entry is dropped instead.
func unanchor(name string, legions ...*Node) {
	for _, certain := range []bool{true, false} {
		for _, legion := range legions {
			for _, ci := range legion.creatures {
				if ci.name == name && ci.atSplit && ci.certain == certain {
					ci.atSplit = false
					return
				}
			}
		}
	}
	for _, legion := range legions {
		if removed, ci := legion.removed.removeName(name); ci != nil {
			legion.removed = removed
			return
		}
	}
}
