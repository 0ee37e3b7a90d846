package composed

import "github.com/jask/stitchlist/internal/adapter"

// ChildTag identifies one membership of a child in a ComposedAdapter. The same
// adapter added twice gets two tags.
type ChildTag struct {
	serial uint64
}

// childSet keeps children in segment order. Each distinct adapter is observed
// through a single bridge however many times it appears.
type childSet struct {
	adapters []adapter.Adapter
	tags     []*ChildTag
	bridges  map[adapter.Adapter]*adapter.Bridge
	serial   uint64
}

func newChildSet() *childSet {
	return &childSet{bridges: make(map[adapter.Adapter]*adapter.Bridge)}
}

func (s *childSet) SegmentCount() int { return len(s.adapters) }

func (s *childSet) SegmentItemCount(segment int) int { return s.adapters[segment].ItemCount() }

func (s *childSet) insert(a adapter.Adapter, at int) *ChildTag {
	s.serial++
	tag := &ChildTag{serial: s.serial}
	s.adapters = append(s.adapters, nil)
	copy(s.adapters[at+1:], s.adapters[at:])
	s.adapters[at] = a
	s.tags = append(s.tags, nil)
	copy(s.tags[at+1:], s.tags[at:])
	s.tags[at] = tag
	return tag
}

// remove drops the membership at segment and reports whether the adapter has
// no memberships left.
func (s *childSet) remove(segment int) (adapter.Adapter, bool) {
	a := s.adapters[segment]
	s.adapters = append(s.adapters[:segment], s.adapters[segment+1:]...)
	s.tags = append(s.tags[:segment], s.tags[segment+1:]...)
	for _, other := range s.adapters {
		if other == a {
			return a, false
		}
	}
	return a, true
}

func (s *childSet) segment(tag *ChildTag) int {
	for i, t := range s.tags {
		if t == tag {
			return i
		}
	}
	return -1
}

func (s *childSet) segmentsOf(a adapter.Adapter) []int {
	var segs []int
	for i, other := range s.adapters {
		if other == a {
			segs = append(segs, i)
		}
	}
	return segs
}

func (s *childSet) unique() []adapter.Adapter {
	var out []adapter.Adapter
	seen := make(map[adapter.Adapter]struct{}, len(s.adapters))
	for _, a := range s.adapters {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func (s *childSet) release() {
	for _, b := range s.bridges {
		b.Detach()
	}
	s.bridges = make(map[adapter.Adapter]*adapter.Bridge)
	s.adapters = nil
	s.tags = nil
}
