package source

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/codec"
	"github.com/jask/stitchlist/internal/database/repository"
)

// View types of Items rows.
const (
	ViewTypeOpen int32 = 0
	ViewTypeDone int32 = 1
)

const storeTimeout = 5 * time.Second

// Option configures an Items adapter.
type Option func(*Items)

func WithLogger(l *zap.Logger) Option {
	return func(i *Items) {
		if l != nil {
			i.logger = l
		}
	}
}

// Items lists the items of one source in their stored order. Ids are row
// ids, so they survive reloads and moves.
type Items struct {
	adapter.Base

	repo   *repository.ItemRepo
	src    repository.Source
	rows   []repository.Item
	logger *zap.Logger
}

// NewItems loads the items of src.
func NewItems(ctx context.Context, repo *repository.ItemRepo, src repository.Source, opts ...Option) (*Items, error) {
	i := &Items{repo: repo, src: src, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(i)
	}
	i.SetHasStableIDs(true)
	rows, err := repo.List(ctx, src.ID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name, err)
	}
	i.rows = rows
	return i, nil
}

func (i *Items) Source() repository.Source { return i.src }

// Item returns the row at position.
func (i *Items) Item(position int) (repository.Item, bool) {
	if position < 0 || position >= len(i.rows) {
		return repository.Item{}, false
	}
	return i.rows[position], true
}

// Label is the searchable text of the row at position.
func (i *Items) Label(position int) string {
	it, _ := i.Item(position)
	return it.Title
}

// Reload rereads the source and resets observers.
func (i *Items) Reload(ctx context.Context) error {
	rows, err := i.repo.List(ctx, i.src.ID)
	if err != nil {
		return fmt.Errorf("reload %s: %w", i.src.Name, err)
	}
	i.rows = rows
	i.NotifyDataSetChanged()
	return nil
}

// Add appends a new item.
func (i *Items) Add(ctx context.Context, title string) error {
	it, err := i.repo.Insert(ctx, i.src.ID, title)
	if err != nil {
		return fmt.Errorf("add to %s: %w", i.src.Name, err)
	}
	i.rows = append(i.rows, it)
	i.NotifyItemInserted(len(i.rows) - 1)
	return nil
}

// Remove deletes the item at position.
func (i *Items) Remove(ctx context.Context, position int) error {
	it, ok := i.Item(position)
	if !ok {
		return fmt.Errorf("remove %d of %d: %w", position, len(i.rows), codec.ErrOutOfRange)
	}
	if err := i.repo.Delete(ctx, it.ID); err != nil {
		return fmt.Errorf("remove from %s: %w", i.src.Name, err)
	}
	i.rows = append(i.rows[:position], i.rows[position+1:]...)
	i.NotifyItemRemoved(position)
	return nil
}

// Toggle flips the done state of the item at position.
func (i *Items) Toggle(ctx context.Context, position int) error {
	it, ok := i.Item(position)
	if !ok {
		return fmt.Errorf("toggle %d of %d: %w", position, len(i.rows), codec.ErrOutOfRange)
	}
	if err := i.repo.SetDone(ctx, it.ID, !it.Done); err != nil {
		return fmt.Errorf("toggle in %s: %w", i.src.Name, err)
	}
	i.rows[position].Done = !it.Done
	i.NotifyItemChanged(position)
	return nil
}

func (i *Items) ItemCount() int { return len(i.rows) }

func (i *Items) ItemID(position int) (int64, error) {
	it, ok := i.Item(position)
	if !ok {
		return adapter.NoID, fmt.Errorf("item %d of %d: %w", position, len(i.rows), codec.ErrOutOfRange)
	}
	return it.ID, nil
}

func (i *Items) ItemViewType(position int) (int32, error) {
	it, ok := i.Item(position)
	if !ok {
		return 0, fmt.Errorf("item %d of %d: %w", position, len(i.rows), codec.ErrOutOfRange)
	}
	if it.Done {
		return ViewTypeDone, nil
	}
	return ViewTypeOpen, nil
}

func (i *Items) BindView(h *adapter.Holder, position int, _ []any) error {
	it, ok := i.Item(position)
	if !ok {
		return fmt.Errorf("bind %d of %d: %w", position, len(i.rows), codec.ErrOutOfRange)
	}
	h.Content = it.Title
	h.Data = it
	return nil
}

func (i *Items) DragHandler() adapter.DragHandler { return itemsDrag{i} }

type itemsDrag struct {
	i *Items
}

func (d itemsDrag) CanStartDrag(position, _, _ int) bool {
	_, ok := d.i.Item(position)
	return ok
}

func (d itemsDrag) CanDrop(_, dropPosition int) bool {
	_, ok := d.i.Item(dropPosition)
	return ok
}

func (itemsDrag) DraggableRange(int) (int, int, bool) { return 0, 0, false }

// MoveItem persists the move, then reports it as a single moved event.
func (d itemsDrag) MoveItem(from, to int) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := d.i.repo.Move(ctx, d.i.src.ID, from, to); err != nil {
		return fmt.Errorf("move in %s: %w", d.i.src.Name, err)
	}
	moveRow(d.i.rows, from, to)
	d.i.logger.Debug("item moved", zap.String("source", d.i.src.Name), zap.Int("from", from), zap.Int("to", to))
	d.i.NotifyMoved(from, to)
	return nil
}

// SwapItems persists the exchange, then reports it as the moves producing it.
func (d itemsDrag) SwapItems(a, b int) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := d.i.repo.Swap(ctx, d.i.src.ID, a, b); err != nil {
		return fmt.Errorf("swap in %s: %w", d.i.src.Name, err)
	}
	d.i.rows[a], d.i.rows[b] = d.i.rows[b], d.i.rows[a]
	d.i.logger.Debug("items swapped", zap.String("source", d.i.src.Name), zap.Int("a", a), zap.Int("b", b))
	d.i.NotifySwapped(a, b)
	return nil
}

func moveRow(rows []repository.Item, from, to int) {
	if from == to {
		return
	}
	r := rows[from]
	if from < to {
		copy(rows[from:to], rows[from+1:to+1])
	} else {
		copy(rows[to+1:from+1], rows[to:from])
	}
	rows[to] = r
}
