package predict

import (
	"fmt"
	"strings"
)

// Node is one legion at one point of its split history. A node has either
// no children or exactly two: child1 keeps the marker, child2 carries the
// marker of the split-off legion.
type Node struct {
	markerID    string // Not unique, markers are reused
	turnCreated int
	creatures   CreatureList
	removed     CreatureList // Only creatures that were here at creation
	parent      *Node
	child1      *Node
	child2      *Node
	childSize2  int  // Height of child2 when the split happened
	swapped     bool // Even split where the marker went to the guessed split-off half
	regrouped   bool // Children were rearranged by a merge across two splits
	eliminated  bool
	cfg         *settings
}

func newNode(markerID string, turnCreated int, creatures CreatureList, parent *Node, cfg *settings) *Node {
	n := &Node{
		markerID:    markerID,
		turnCreated: turnCreated,
		creatures:   creatures,
		removed:     CreatureList{},
		parent:      parent,
		cfg:         cfg,
	}
	n.creatures.Sort()
	n.clearChildren()
	return n
}

// NewRoot returns a parentless node whose creatures are all certain.
func NewRoot(markerID string, turn int, names []string, options ...Option) *Node {
	return newRoot(markerID, turn, names, newSettings(options...))
}

func newRoot(markerID string, turn int, names []string, cfg *settings) *Node {
	creatures := make(CreatureList, 0, len(names))
	for _, name := range names {
		creatures = append(creatures, NewCreatureInfo(cfg.values.Canonical(name), true, true))
	}
	return newNode(markerID, turn, creatures, nil, cfg)
}

func (n *Node) clearChildren() {
	n.child1 = nil
	n.child2 = nil
	n.childSize2 = 0
	n.swapped = false
	n.regrouped = false
}

func (n *Node) MarkerID() string {
	return n.markerID
}

func (n *Node) TurnCreated() int {
	return n.turnCreated
}

func (n *Node) FullName() string {
	return fmt.Sprintf("%s(%d)", n.markerID, n.turnCreated)
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Child1() *Node {
	return n.child1
}

func (n *Node) Child2() *Node {
	return n.child2
}

func (n *Node) sibling() *Node {
	if n.parent.child1 == n {
		return n.parent.child2
	}
	return n.parent.child1
}

func (n *Node) HasSplit() bool {
	return n.child1 != nil
}

func (n *Node) Height() int {
	return len(n.creatures)
}

// Eliminated is set once the tracker has retired this legion.
func (n *Node) Eliminated() bool {
	return n.eliminated
}

// Creatures returns a sorted copy of the current best guess.
func (n *Node) Creatures() CreatureList {
	return n.creatures.Clone()
}

func (n *Node) RemovedCreatures() CreatureList {
	return n.removed.Clone()
}

func (n *Node) CertainCreatures() CreatureList {
	return n.creatures.Certain().Clone()
}

// AtSplitOrRemovedCreatures is everything that was in the legion when this
// node was created, whether it is still here or not.
func (n *Node) AtSplitOrRemovedCreatures() CreatureList {
	list := n.creatures.filter(func(ci *CreatureInfo) bool { return ci.atSplit }).Clone()
	return append(list, n.removed.Clone()...)
}

// CertainAtSplitOrRemovedCreatures treats removed creatures as certain.
func (n *Node) CertainAtSplitOrRemovedCreatures() CreatureList {
	list := n.creatures.filter(func(ci *CreatureInfo) bool { return ci.atSplit && ci.certain }).Clone()
	return append(list, n.removed.Clone()...)
}

func (n *Node) AfterSplitCreatures() CreatureList {
	return n.creatures.filter(func(ci *CreatureInfo) bool { return !ci.atSplit }).Clone()
}

func (n *Node) AllCertain() bool {
	for _, ci := range n.creatures {
		if !ci.certain {
			return false
		}
	}
	return true
}

// AllDescendantsCertain is true if this node and its whole subtree have no
// uncertain creatures.
func (n *Node) AllDescendantsCertain() bool {
	if !n.AllCertain() {
		return false
	}
	if !n.HasSplit() {
		return true
	}
	return n.child1.AllDescendantsCertain() && n.child2.AllDescendantsCertain()
}

// OtherChildMarkerID is the marker of whichever child does not carry this
// node's marker.
func (n *Node) OtherChildMarkerID() string {
	if n.child1.markerID != n.markerID {
		return n.child1.markerID
	}
	return n.child2.markerID
}

func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteString(n.FullName())
	sb.WriteString(":")
	for _, ci := range n.creatures {
		sb.WriteString(" ")
		sb.WriteString(ci.String())
	}
	for _, ci := range n.removed {
		sb.WriteString(" ")
		sb.WriteString(ci.name)
		sb.WriteString("-")
	}
	return sb.String()
}

// CheckInvariants verifies the structural invariants of this subtree.
func (n *Node) CheckInvariants() error {
	if (n.child1 == nil) != (n.child2 == nil) {
		return n.violation("check", "one child legion")
	}
	if limit := n.cfg.rules.InitialHeight(); n.Height() > limit {
		return n.violation("check", "height %d above %d", n.Height(), limit)
	}
	if !n.HasSplit() {
		return nil
	}
	keep := len(n.child1.AtSplitOrRemovedCreatures())
	split := len(n.child2.AtSplitOrRemovedCreatures())
	if split != n.childSize2 {
		return n.violation("check", "split-off child %s started with %d creatures, expected %d",
			n.child2.FullName(), split, n.childSize2)
	}
	if keep+split != n.Height() {
		return n.violation("check", "children started with %d+%d creatures, parent has %d",
			keep, split, n.Height())
	}
	if err := n.child1.CheckInvariants(); err != nil {
		return err
	}
	return n.child2.CheckInvariants()
}
