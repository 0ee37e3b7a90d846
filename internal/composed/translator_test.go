package composed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sizes []int

func (s *sizes) SegmentCount() int { return len(*s) }

func (s *sizes) SegmentItemCount(segment int) int { return (*s)[segment] }

func naive(s sizes, flat int) SegmentedPosition {
	for i, n := range s {
		if flat < n {
			return SegmentedPosition{Segment: i, Offset: flat}
		}
		flat -= n
	}
	return NoSegmentedPosition
}

func TestTranslatorSegments(t *testing.T) {
	t.Parallel()

	s := &sizes{3, 0, 5, 2}
	tr := NewTranslator(s)

	assert.Equal(t, 10, tr.TotalItemCount())
	assert.Equal(t, SegmentedPosition{Segment: 2, Offset: 4}, tr.SegmentedPosition(7))
	assert.Equal(t, 7, tr.FlatPosition(2, 4))
	assert.Equal(t, SegmentedPosition{Segment: 0, Offset: 0}, tr.SegmentedPosition(0))
	assert.Equal(t, SegmentedPosition{Segment: 2, Offset: 0}, tr.SegmentedPosition(3))
	assert.Equal(t, SegmentedPosition{Segment: 3, Offset: 1}, tr.SegmentedPosition(9))
	assert.Equal(t, NoSegmentedPosition, tr.SegmentedPosition(10))
	assert.Equal(t, NoSegmentedPosition, tr.SegmentedPosition(-1))
	assert.Equal(t, 3, tr.SegmentOffset(1))
	assert.Equal(t, 3, tr.SegmentOffset(2))

	(*s)[1] = 4
	tr.InvalidateSegment(1)

	assert.Equal(t, 14, tr.TotalItemCount())
	assert.Equal(t, SegmentedPosition{Segment: 1, Offset: 0}, tr.SegmentedPosition(3))
	assert.Equal(t, SegmentedPosition{Segment: 2, Offset: 0}, tr.SegmentedPosition(7))
	assert.Equal(t, SegmentedPosition{Segment: 2, Offset: 3}, tr.SegmentedPosition(10))
	assert.Equal(t, 12, tr.FlatPosition(3, 0))
}

func TestTranslatorStaleWithoutInvalidation(t *testing.T) {
	t.Parallel()

	s := &sizes{2, 2}
	tr := NewTranslator(s)
	require.Equal(t, 4, tr.TotalItemCount())

	(*s)[0] = 5
	assert.Equal(t, 4, tr.TotalItemCount(), "counts are cached until invalidated")

	tr.InvalidateAll()
	assert.Equal(t, 7, tr.TotalItemCount())
}

func TestTranslatorGrowsWithSegments(t *testing.T) {
	t.Parallel()

	s := &sizes{1}
	tr := NewTranslator(s)
	require.Equal(t, 1, tr.TotalItemCount())

	*s = append(*s, 3, 2)
	tr.InvalidateAll()
	assert.Equal(t, 6, tr.TotalItemCount())
	assert.Equal(t, SegmentedPosition{Segment: 2, Offset: 1}, tr.SegmentedPosition(5))
}

func TestTranslatorMatchesNaive(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		s := make(sizes, 1+rng.Intn(12))
		for i := range s {
			s[i] = rng.Intn(4)
		}
		tr := NewTranslator(&s)

		for step := 0; step < 40; step++ {
			if rng.Intn(4) == 0 {
				seg := rng.Intn(len(s))
				s[seg] = rng.Intn(4)
				tr.InvalidateSegment(seg)
			}
			total := 0
			for _, n := range s {
				total += n
			}
			require.Equal(t, total, tr.TotalItemCount())

			flat := rng.Intn(total + 2)
			want := naive(s, flat)
			got := tr.SegmentedPosition(flat)
			require.Equal(t, want, got, "trial %d step %d sizes %v flat %d", trial, step, s, flat)
			if got != NoSegmentedPosition {
				require.Equal(t, flat, tr.FlatPosition(got.Segment, got.Offset))
			}
		}
	}
}
