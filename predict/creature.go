package predict

import (
	"sort"
	"strings"
)

// CreatureInfo is one creature slot of a legion. Its type never changes and
// once it is certain it stays certain.
type CreatureInfo struct {
	name    string
	certain bool
	atSplit bool
}

func NewCreatureInfo(name string, certain, atSplit bool) *CreatureInfo {
	return &CreatureInfo{name: name, certain: certain, atSplit: atSplit}
}

func (ci *CreatureInfo) Name() string {
	return ci.name
}

// Certain is true when the server has confirmed this creature's type.
func (ci *CreatureInfo) Certain() bool {
	return ci.certain
}

// AtSplit is true when the creature was in the legion when its node was
// created.
func (ci *CreatureInfo) AtSplit() bool {
	return ci.atSplit
}

func (ci *CreatureInfo) confirm() {
	ci.certain = true
}

func (ci *CreatureInfo) Clone() *CreatureInfo {
	c := *ci
	return &c
}

func (ci *CreatureInfo) String() string {
	if ci.certain {
		return ci.name
	}
	return ci.name + "?"
}

// compareInfo orders by type, then certain before uncertain, then at-split
// before after-split.
func compareInfo(a, b *CreatureInfo) int {
	if c := strings.Compare(a.name, b.name); c != 0 {
		return c
	}
	if a.certain != b.certain {
		if a.certain {
			return -1
		}
		return 1
	}
	if a.atSplit != b.atSplit {
		if a.atSplit {
			return -1
		}
		return 1
	}
	return 0
}

// CreatureList is a multiset of creature slots. Two creatures of the same
// type are distinct entries.
type CreatureList []*CreatureInfo

func (l CreatureList) Clone() CreatureList {
	out := make(CreatureList, len(l))
	for i, ci := range l {
		out[i] = ci.Clone()
	}
	return out
}

func (l CreatureList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return compareInfo(l[i], l[j]) < 0
	})
}

// Names projects the list onto creature types, keeping duplicates.
func (l CreatureList) Names() []string {
	names := make([]string, len(l))
	for i, ci := range l {
		names[i] = ci.name
	}
	return names
}

func (l CreatureList) Count(name string) int {
	n := 0
	for _, ci := range l {
		if ci.name == name {
			n++
		}
	}
	return n
}

func (l CreatureList) filter(keep func(*CreatureInfo) bool) CreatureList {
	out := CreatureList{}
	for _, ci := range l {
		if keep(ci) {
			out = append(out, ci)
		}
	}
	return out
}

func (l CreatureList) Certain() CreatureList {
	return l.filter(func(ci *CreatureInfo) bool { return ci.certain })
}

func (l CreatureList) Uncertain() CreatureList {
	return l.filter(func(ci *CreatureInfo) bool { return !ci.certain })
}

// Contains reports whether a certain creature of this type is present.
func (l CreatureList) Contains(name string) bool {
	return l.indexOf(name, true) >= 0
}

// indexOf returns the first entry of the given type, restricted to certain
// entries when certainOnly is set.
func (l CreatureList) indexOf(name string, certainOnly bool) int {
	for i, ci := range l {
		if ci.name == name && (ci.certain || !certainOnly) {
			return i
		}
	}
	return -1
}

// RemoveCertain drops the first certain entry of the given type and returns
// it, or nil if there is none.
func (l CreatureList) RemoveCertain(name string) (CreatureList, *CreatureInfo) {
	i := l.indexOf(name, true)
	if i < 0 {
		return l, nil
	}
	ci := l[i]
	return append(l[:i:i], l[i+1:]...), ci
}

// removeName drops one entry of the given type, preferring a certain one.
func (l CreatureList) removeName(name string) (CreatureList, *CreatureInfo) {
	if out, ci := l.RemoveCertain(name); ci != nil {
		return out, ci
	}
	i := l.indexOf(name, false)
	if i < 0 {
		return l, nil
	}
	ci := l[i]
	return append(l[:i:i], l[i+1:]...), ci
}

// Subtract removes one entry of l per entry of other with the same type.
func (l CreatureList) Subtract(other CreatureList) CreatureList {
	out := append(CreatureList(nil), l...)
	for _, ci := range other {
		out, _ = out.removeName(ci.name)
	}
	return out
}

func (l CreatureList) String() string {
	parts := make([]string, len(l))
	for i, ci := range l {
		parts[i] = ci.String()
	}
	return strings.Join(parts, " ")
}
