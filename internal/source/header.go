package source

import (
	"fmt"
	"hash/fnv"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/codec"
	"github.com/jask/stitchlist/internal/database/repository"
)

// ViewTypeHeader is the view type of the Header row.
const ViewTypeHeader int32 = 100

// Header is a one-row adapter showing a source's name. Its row cannot be
// dragged.
type Header struct {
	adapter.Base

	src repository.Source
	id  int64
	// Count, when set, supplies the item count shown next to the name.
	Count func() int
}

func NewHeader(src repository.Source) *Header {
	h := fnv.New32a()
	_, _ = h.Write([]byte(src.ID))
	hd := &Header{src: src, id: int64(h.Sum32() & 0x3fffffff)}
	hd.SetHasStableIDs(true)
	return hd
}

func (h *Header) Source() repository.Source { return h.src }

// Title is the text rendered for the header.
func (h *Header) Title() string {
	if h.Count == nil {
		return h.src.Name
	}
	return fmt.Sprintf("%s (%d)", h.src.Name, h.Count())
}

// Refresh tells observers the title changed.
func (h *Header) Refresh() { h.NotifyItemChanged(0) }

func (h *Header) ItemCount() int { return 1 }

func (h *Header) ItemID(position int) (int64, error) {
	if position != 0 {
		return adapter.NoID, fmt.Errorf("header row %d: %w", position, codec.ErrOutOfRange)
	}
	return h.id, nil
}

func (h *Header) ItemViewType(position int) (int32, error) {
	if position != 0 {
		return 0, fmt.Errorf("header row %d: %w", position, codec.ErrOutOfRange)
	}
	return ViewTypeHeader, nil
}

func (h *Header) BindView(holder *adapter.Holder, position int, _ []any) error {
	if position != 0 {
		return fmt.Errorf("header row %d: %w", position, codec.ErrOutOfRange)
	}
	holder.Content = h.Title()
	holder.Data = h.src
	return nil
}
