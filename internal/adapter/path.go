package adapter

// UnwrapResult names the child that owns a wrapper position.
type UnwrapResult struct {
	Adapter  Adapter
	Tag      any
	Position int
}

// Valid reports whether the result names a child and a position inside it.
func (r UnwrapResult) Valid() bool {
	return r.Adapter != nil && r.Position != NoPosition
}

// PathSegment is one hop of an AdapterPath: an adapter and the tag its parent
// uses for it. The root segment has a nil tag.
type PathSegment struct {
	Adapter Adapter
	Tag     any
}

// Path is the route from a root adapter down to a nested one, root first.
type Path struct {
	segments []PathSegment
}

// Append adds a hop at the leaf end and returns p.
func (p *Path) Append(seg PathSegment) *Path {
	p.segments = append(p.segments, seg)
	return p
}

// Clear empties p, keeping its storage.
func (p *Path) Clear() *Path {
	p.segments = p.segments[:0]
	return p
}

func (p *Path) Empty() bool { return len(p.segments) == 0 }

func (p *Path) Len() int { return len(p.segments) }

// Segments returns the hops, root first. The slice is owned by p.
func (p *Path) Segments() []PathSegment { return p.segments }

// First returns the root hop.
func (p *Path) First() (PathSegment, bool) {
	if p.Empty() {
		return PathSegment{}, false
	}
	return p.segments[0], true
}

// Last returns the leaf hop.
func (p *Path) Last() (PathSegment, bool) {
	if p.Empty() {
		return PathSegment{}, false
	}
	return p.segments[len(p.segments)-1], true
}

// UnwrapPosition follows origin's wrappers down from position until it
// reaches target, or a leaf when target is nil. The route is written into
// path when path is not nil. It returns NoPosition when the position is
// outside origin, target is not on the route, or targetTag does not match the
// tag of the final hop.
func UnwrapPosition(origin, target Adapter, targetTag any, position int, path *Path) int {
	if path != nil {
		path.Clear()
	}
	if origin == nil || position < 0 || position >= origin.ItemCount() {
		return NoPosition
	}

	cur := origin
	var tag any
	pos := position
	if path != nil {
		path.Append(PathSegment{Adapter: origin})
	}

	for cur != target {
		r := cur.UnwrapPosition(pos)
		if !r.Valid() {
			if target == nil {
				break
			}
			pos = NoPosition
			break
		}
		cur, tag, pos = r.Adapter, r.Tag, r.Position
		if path != nil {
			path.Append(PathSegment{Adapter: cur, Tag: tag})
		}
	}

	if pos == NoPosition {
		if path != nil {
			path.Clear()
		}
		return NoPosition
	}
	if target != nil && targetTag != nil && tag != targetTag {
		if path != nil {
			path.Clear()
		}
		return NoPosition
	}
	return pos
}

// WrapPosition maps position in the adapter at path index originIndex up to
// the adapter at targetIndex, where targetIndex <= originIndex.
func WrapPosition(path *Path, originIndex, targetIndex, position int) int {
	if path == nil || originIndex >= path.Len() || targetIndex < 0 || targetIndex > originIndex {
		return NoPosition
	}
	segs := path.Segments()
	pos := position
	for i := originIndex; i > targetIndex && pos != NoPosition; i-- {
		pos = segs[i-1].Adapter.WrapPosition(segs[i], pos)
	}
	return pos
}

// WrapPositionBetween is WrapPosition addressed by adapter instead of index.
func WrapPositionBetween(path *Path, origin, target Adapter, position int) int {
	if path == nil {
		return NoPosition
	}
	originIndex, targetIndex := -1, -1
	for i, seg := range path.Segments() {
		if seg.Adapter == origin {
			originIndex = i
		}
		if seg.Adapter == target {
			targetIndex = i
		}
	}
	if originIndex < 0 || targetIndex < 0 {
		return NoPosition
	}
	return WrapPosition(path, originIndex, targetIndex, position)
}

// ReleaseAll releases a and then every adapter below it, each once.
func ReleaseAll(a Adapter) {
	releaseAll(a, map[Adapter]struct{}{})
}

func releaseAll(a Adapter, seen map[Adapter]struct{}) {
	if a == nil {
		return
	}
	if _, ok := seen[a]; ok {
		return
	}
	seen[a] = struct{}{}
	children := a.WrappedAdapters()
	a.Release()
	for i := len(children) - 1; i >= 0; i-- {
		releaseAll(children[i], seen)
	}
}
