package predict

import (
	"sort"

	"titan/game"
	"titan/utils"

	"github.com/rs/zerolog/log"
)

// splitPlan is the outcome of pinning creatures to one side of a split
// before enumerating the rest.
type splitPlan struct {
	keep      []string // Placed on the keep side
	split     []string // Placed on the split-off side
	sureKeep  []string // Subset of keep that is certain
	sureSplit []string // Subset of split that is certain
	// Both lords of an initial split were unplaced, one slot per side is
	// held back for them.
	lordSlots  bool
	unknowns   []string
	candidates [][]string
}

// FindAllPossibleSplits returns every legal split-off list of childSize
// creatures, given creatures already known to be on each side.
func (n *Node) FindAllPossibleSplits(childSize int, knownKeep, knownSplit []string) ([][]string, error) {
	plan, err := n.planSplit(childSize, knownKeep, knownSplit)
	if err != nil {
		return nil, err
	}
	return plan.candidates, nil
}

func (n *Node) planSplit(childSize int, knownKeep, knownSplit []string) (*splitPlan, error) {
	const op = "findAllPossibleSplits"
	rules := n.cfg.rules
	height := n.Height()
	keepSize := height - childSize

	if childSize < 0 || keepSize < 0 {
		return nil, n.violation(op, "cannot split %d from %d creatures", childSize, height)
	}
	if len(knownSplit) > childSize {
		return nil, n.violation(op, "more known splitoffs (%d) than splitoffs (%d)", len(knownSplit), childSize)
	}
	if len(knownKeep) > keepSize {
		return nil, n.violation(op, "more known keepers (%d) than keepers (%d)", len(knownKeep), keepSize)
	}

	all := n.creatures.Names()
	// After a merge across two splits the halves no longer hold one lord each.
	initial := height == rules.InitialHeight() && !n.regrouped
	lords := rules.Lords()
	if height > rules.InitialHeight() {
		return nil, n.violation(op, "%d creatures in legion", height)
	}
	if initial {
		if childSize != height/2 {
			return nil, n.violation(op, "illegal initial split of %d", childSize)
		}
		for _, lord := range lords {
			if utils.Count(all, lord) != 1 {
				return nil, n.violation(op, "%d-high legion needs exactly one %s", height, lord)
			}
		}
	}

	certain := n.creatures.Certain().Names()
	known := append(append([]string{}, knownKeep...), knownSplit...)
	if !utils.Superset(certain, known) {
		return nil, n.violation(op, "known creatures %v are not all certain in %v", known, n.creatures)
	}

	p := &splitPlan{
		keep:      append([]string{}, knownKeep...),
		split:     append([]string{}, knownSplit...),
		sureKeep:  append([]string{}, knownKeep...),
		sureSplit: append([]string{}, knownSplit...),
		unknowns:  utils.Subtract(all, known),
	}
	spare := func(name string) int {
		return utils.Count(certain, name) - utils.Count(p.sureKeep, name) - utils.Count(p.sureSplit, name)
	}
	pin := func(toSplit bool, name string) {
		sure := spare(name) > 0
		p.unknowns, _ = utils.Remove(p.unknowns, name)
		if toSplit {
			p.split = append(p.split, name)
			if sure {
				p.sureSplit = append(p.sureSplit, name)
			}
		} else {
			p.keep = append(p.keep, name)
			if sure {
				p.sureKeep = append(p.sureKeep, name)
			}
		}
	}

	// The initial split always puts one lord in each half.
	if initial {
		free0 := utils.Count(p.unknowns, lords[0]) > 0
		free1 := utils.Count(p.unknowns, lords[1]) > 0
		switch {
		case free0 && free1:
			p.unknowns = utils.Subtract(p.unknowns, lords[:])
			p.lordSlots = true
		case free0 || free1:
			free, placed := lords[0], lords[1]
			if free1 {
				free, placed = lords[1], lords[0]
			}
			pin(utils.Count(p.keep, placed) > 0, free)
		}
	}

	keepSlots := keepSize - len(p.keep)
	splitSlots := childSize - len(p.split)
	if p.lordSlots {
		keepSlots--
		splitSlots--
	}
	if keepSlots < 0 || splitSlots < 0 {
		return nil, n.violation(op, "no room left: keep %v split %v", p.keep, p.split)
	}

	// Certain creatures that cannot all fit on one side spill over to the
	// other side.
	for _, name := range utils.Distinct(p.unknowns) {
		if spare(name) > keepSlots+splitSlots {
			return nil, n.violation(op, "%d certain %s do not fit in %d open slots",
				spare(name), name, keepSlots+splitSlots)
		}
		for extra := spare(name) - keepSlots; extra > 0 && utils.Count(p.unknowns, name) > 0; extra-- {
			pin(true, name)
			splitSlots--
		}
		for extra := spare(name) - splitSlots; extra > 0 && utils.Count(p.unknowns, name) > 0; extra-- {
			pin(false, name)
			keepSlots--
		}
	}

	seen := map[string]bool{}
	for _, combo := range utils.Combinations(p.unknowns, splitSlots) {
		heads := [][]string{p.split}
		if p.lordSlots {
			heads = [][]string{
				append(append([]string{}, p.split...), lords[0]),
				append(append([]string{}, p.split...), lords[1]),
			}
		}
		for _, head := range heads {
			candidate := append(append([]string{}, head...), combo...)
			sort.Strings(candidate)
			if initial && countLords(rules, candidate) != 1 {
				continue
			}
			key := utils.Key(candidate)
			if seen[key] {
				continue
			}
			seen[key] = true
			p.candidates = append(p.candidates, candidate)
		}
	}
	if len(p.candidates) == 0 {
		return nil, n.violation(op, "no legal split of %d from %v", childSize, n.creatures)
	}
	sort.Slice(p.candidates, func(i, j int) bool {
		return utils.Key(p.candidates[i]) < utils.Key(p.candidates[j])
	})
	return p, nil
}

func countLords(rules game.Rules, names []string) int {
	n := 0
	for _, name := range names {
		if game.IsStartingLord(rules, name) {
			n++
		}
	}
	return n
}

// ChooseCreaturesToSplitOut picks the candidate an opponent most plausibly
// split off: the strongest one if the split-off half is the larger half,
// otherwise the weakest.
func (n *Node) ChooseCreaturesToSplitOut(candidates [][]string) []string {
	if len(candidates) == 0 {
		return nil
	}
	maximize := 2*len(candidates[0]) > n.Height()
	best := -1
	var chosen []string
	for _, candidate := range candidates {
		total := 0
		for _, name := range candidate {
			total += n.cfg.values.KillValue(name)
		}
		if best < 0 || (maximize && total > best) || (!maximize && total < best) {
			best = total
			chosen = candidate
		}
	}
	return append([]string{}, chosen...)
}

// computeSplit divides the current creatures into a keep list and a
// split-off list of childSize, both made of fresh at-split records.
func (n *Node) computeSplit(childSize int, knownKeep, knownSplit []string) (keepList, splitList CreatureList, err error) {
	plan, err := n.planSplit(childSize, knownKeep, knownSplit)
	if err != nil {
		return nil, nil, err
	}
	splitoff := n.ChooseCreaturesToSplitOut(plan.candidates)

	sureKeep := append([]string{}, plan.sureKeep...)
	sureSplit := append([]string{}, plan.sureSplit...)
	keepList = CreatureList{}
	splitList = CreatureList{}
	for _, ci := range n.creatures {
		info := NewCreatureInfo(ci.name, false, true)
		var ok bool
		if splitoff, ok = utils.Remove(splitoff, ci.name); ok {
			if sureSplit, ok = utils.Remove(sureSplit, ci.name); ok {
				info.confirm()
			}
			splitList = append(splitList, info)
		} else {
			if sureKeep, ok = utils.Remove(sureKeep, ci.name); ok {
				info.confirm()
			}
			keepList = append(keepList, info)
		}
	}
	return keepList, splitList, nil
}

// Split records that childSize creatures left this legion as a new legion
// marked otherMarker.
func (n *Node) Split(childSize int, otherMarker string, turn int) error {
	const op = "split"
	if n.HasSplit() {
		return n.violation(op, "already split into %s and %s", n.child1.FullName(), n.child2.FullName())
	}
	if childSize <= 0 || childSize >= n.Height() {
		return n.violation(op, "cannot split %d from %d creatures", childSize, n.Height())
	}

	keepList, splitList, err := n.computeSplit(childSize, nil, nil)
	if err != nil {
		return err
	}
	// Nothing tells which half of an even split kept the marker.
	swapped := len(keepList) == len(splitList) && n.cfg.swapHalves()
	if swapped {
		keepList, splitList = splitList, keepList
	}

	n.child1 = newNode(n.markerID, turn, keepList, n, n.cfg)
	n.child2 = newNode(otherMarker, turn, splitList, n, n.cfg)
	n.childSize2 = n.child2.Height()
	n.swapped = swapped

	log.Debug().Msgf("split %s into %s and %s", n, n.child1, n.child2)
	return nil
}

// reSplit redoes this node's split using what its children now know.
func (n *Node) reSplit() error {
	first, second := n.child1, n.child2
	if n.swapped {
		first, second = second, first
	}
	knownKeep := first.CertainAtSplitOrRemovedCreatures().Names()
	knownSplit := second.CertainAtSplitOrRemovedCreatures().Names()
	// Halves are only swapped when they are the same size.
	keepList, splitList, err := n.computeSplit(n.childSize2, knownKeep, knownSplit)
	if err != nil {
		return err
	}
	if err := first.updateInitialSplitInfo(keepList); err != nil {
		return err
	}
	return second.updateInitialSplitInfo(splitList)
}

// updateInitialSplitInfo replaces the at-split part of this legion with a
// revised guess and carries the revision on to the children.
func (n *Node) updateInitialSplitInfo(atSplit CreatureList) error {
	list := append(CreatureList{}, atSplit...)
	list = append(list, n.AfterSplitCreatures()...)
	for _, gone := range n.removed {
		var ci *CreatureInfo
		if list, ci = list.removeName(gone.name); ci == nil {
			return n.violation("updateInitialSplitInfo", "removed %s missing from revised guess %v", gone.name, atSplit)
		}
	}
	list.Sort()
	n.creatures = list

	if n.HasSplit() {
		return n.reSplit()
	}
	return nil
}
