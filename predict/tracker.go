package predict

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// Tracker predicts the legions of one opponent. It owns the split tree
// grown from the player's starting legion plus any trees restarted from an
// authoritative snapshot.
type Tracker struct {
	player string
	roots  []*Node
	cfg    *settings
}

// NewTracker starts tracking a player whose starting legion is fully known.
func NewTracker(player, rootMarker string, creatures []string, options ...Option) (*Tracker, error) {
	cfg := newSettings(options...)
	if len(creatures) == 0 {
		return nil, fmt.Errorf("starting legion %s of %s is empty", rootMarker, player)
	}
	return &Tracker{
		player: player,
		roots:  []*Node{newRoot(rootMarker, 0, creatures, cfg)},
		cfg:    cfg,
	}, nil
}

func (t *Tracker) Player() string {
	return t.player
}

// Root returns the starting legion's node.
func (t *Tracker) Root() *Node {
	return t.roots[0]
}

// Leaves returns the current legions: every non-empty childless node not
// retired by Eliminate. Markers are reused, so when two leaves share one the
// older is dropped.
func (t *Tracker) Leaves() ([]*Node, error) {
	var leaves []*Node
	for _, root := range t.roots {
		leaves = collectLeaves(root, leaves)
	}

	latest := make(map[string]*Node, len(leaves))
	for _, leaf := range leaves {
		prev, ok := latest[leaf.markerID]
		if !ok {
			latest[leaf.markerID] = leaf
			continue
		}
		if prev.turnCreated == leaf.turnCreated {
			return nil, leaf.violation("leaves", "two legions %s created on the same turn", leaf.FullName())
		}
		if leaf.turnCreated > prev.turnCreated {
			latest[leaf.markerID] = leaf
		}
	}

	out := make([]*Node, 0, len(latest))
	for _, leaf := range leaves {
		if latest[leaf.markerID] == leaf {
			out = append(out, leaf)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].markerID < out[j].markerID
	})
	return out, nil
}

func collectLeaves(n *Node, leaves []*Node) []*Node {
	if n.HasSplit() {
		leaves = collectLeaves(n.child1, leaves)
		return collectLeaves(n.child2, leaves)
	}
	if n.Height() > 0 && !n.eliminated {
		leaves = append(leaves, n)
	}
	return leaves
}

// Leaf returns the current legion with the given marker.
func (t *Tracker) Leaf(marker string) (*Node, error) {
	leaves, err := t.Leaves()
	if err != nil {
		return nil, err
	}
	for _, leaf := range leaves {
		if leaf.markerID == marker {
			return leaf, nil
		}
	}
	return nil, fmt.Errorf("%w %s of %s", ErrUnknownLegion, marker, t.player)
}

// Nodes returns every non-empty node, ordered by turn created, then parent,
// then larger legions first.
func (t *Tracker) Nodes() []*Node {
	var nodes []*Node
	for _, root := range t.roots {
		nodes = collectNodes(root, nodes)
	}
	parentName := func(n *Node) string {
		if n.parent == nil {
			return ""
		}
		return n.parent.String()
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.turnCreated != b.turnCreated {
			return a.turnCreated < b.turnCreated
		}
		if pa, pb := parentName(a), parentName(b); pa != pb {
			return pa < pb
		}
		if a.Height() != b.Height() {
			return a.Height() > b.Height()
		}
		return a.String() < b.String()
	})
	return nodes
}

func collectNodes(n *Node, nodes []*Node) []*Node {
	if n.Height() > 0 {
		nodes = append(nodes, n)
	}
	if n.HasSplit() {
		nodes = collectNodes(n.child1, nodes)
		nodes = collectNodes(n.child2, nodes)
	}
	return nodes
}

// Eliminate retires a legion that was destroyed.
func (t *Tracker) Eliminate(marker string) error {
	leaf, err := t.Leaf(marker)
	if err != nil {
		return err
	}
	leaf.eliminated = true
	log.Debug().Msgf("%s eliminated %s", t.player, leaf)
	return nil
}

// Resync replaces the legion with the given marker, if any, by a fresh
// root holding exactly the given creatures. It is the way out after a
// ResyncError.
func (t *Tracker) Resync(marker string, turn int, creatures []string) (*Node, error) {
	if len(creatures) == 0 {
		return nil, fmt.Errorf("cannot resync %s of %s to an empty legion", marker, t.player)
	}
	for _, root := range t.roots {
		for _, leaf := range collectLeaves(root, nil) {
			if leaf.markerID == marker {
				leaf.eliminated = true
			}
		}
	}
	root := newRoot(marker, turn, creatures, t.cfg)
	t.roots = append(t.roots, root)
	log.Info().Msgf("resynced %s to %s", t.player, root)
	return root, nil
}

// Dump logs every current legion at debug level.
func (t *Tracker) Dump() {
	leaves, err := t.Leaves()
	if err != nil {
		log.Warn().Err(err).Msgf("cannot list legions of %s", t.player)
		return
	}
	for _, leaf := range leaves {
		log.Debug().Msgf("%s %s", t.player, leaf)
	}
}
