package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/stitchlist/internal/adapter"
	"github.com/jask/stitchlist/internal/composed"
	"github.com/jask/stitchlist/internal/config"
	"github.com/jask/stitchlist/internal/database/repository"
	"github.com/jask/stitchlist/internal/draggable"
	"github.com/jask/stitchlist/internal/filter"
	"github.com/jask/stitchlist/internal/prefs"
	"github.com/jask/stitchlist/internal/source"
)

// Store is the persistence the list reads and writes.
type Store struct {
	Sources *repository.SourceRepo
	Items   *repository.ItemRepo

	// Prefs is where the move mode is remembered; empty disables it.
	Prefs string
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeFilter
	modeAdd
)

const (
	// title above the rows; status and help below
	listTop    = 1
	chromeRows = 3

	defaultHeight = 24
)

type scheduledMsg struct{ fn func() }

type errMsg struct{ error }

type scheduled struct {
	d  time.Duration
	fn func()
}

// List is the bubbletea model hosting the composed, filterable, draggable
// list of every source. It is the host of the adapter tree: it observes the
// root, binds holders for the visible rows and serves as the drag engine's
// layout and scheduler.
type List struct {
	ctx    context.Context
	cfg    config.Config
	logger *zap.Logger
	prefs  string

	composed *composed.ComposedAdapter
	filter   *filter.Wrapper
	drag     *draggable.Wrapper
	engine   *draggable.Engine
	root     adapter.Adapter

	items    map[adapter.Adapter]*source.Items
	headers  map[adapter.Adapter]*source.Header
	bySource map[string]*source.Items

	attached map[int64]*adapter.Holder
	pool     map[int32][]*adapter.Holder
	visible  []*adapter.Holder

	cursor int
	scroll int
	width  int
	height int

	mode      inputMode
	input     string
	addTarget *source.Items
	status    string
	pending   []scheduled

	keys keyMap
	help help.Model
}

// New builds the adapter tree over every stored source.
func New(ctx context.Context, cfg config.Config, store Store, logger *zap.Logger) (*List, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &List{
		ctx:      ctx,
		cfg:      cfg,
		logger:   logger,
		prefs:    store.Prefs,
		items:    make(map[adapter.Adapter]*source.Items),
		headers:  make(map[adapter.Adapter]*source.Header),
		bySource: make(map[string]*source.Items),
		attached: make(map[int64]*adapter.Holder),
		pool:     make(map[int32][]*adapter.Holder),
		height:   defaultHeight,
		keys:     defaultKeys(),
		help:     help.New(),
	}

	sources, err := store.Sources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, errors.New("no sources to show")
	}

	l.composed = composed.New(composed.WithLogger(logger.Named("composed")))
	for _, s := range sources {
		it, err := source.NewItems(ctx, store.Items, s, source.WithLogger(logger.Named("source")))
		if err != nil {
			return nil, err
		}
		if cfg.UI.ShowHeaders {
			h := source.NewHeader(s)
			h.Count = it.ItemCount
			it.RegisterObserver(headerSync{h})
			if _, err := l.composed.AppendChild(h); err != nil {
				return nil, err
			}
			l.headers[h] = h
		}
		if _, err := l.composed.AppendChild(it); err != nil {
			return nil, err
		}
		l.items[it] = it
		l.bySource[s.ID] = it
	}

	l.filter = filter.New(l.composed, l.label,
		filter.WithMaxDistance(cfg.UI.FilterMaxDistance), filter.WithLogger(logger.Named("filter")))
	l.drag, err = draggable.NewWrapper(l.filter, draggable.WithWrapperLogger(logger.Named("drag")))
	if err != nil {
		return nil, err
	}
	l.root = l.drag

	mode, err := draggable.ParseMoveMode(cfg.Drag.MoveMode)
	if err != nil {
		return nil, err
	}
	if l.prefs != "" {
		p, err := prefs.Load(l.prefs)
		if err != nil {
			logger.Warn("prefs unreadable", zap.String("path", l.prefs), zap.Error(err))
		} else if m, err := draggable.ParseMoveMode(p.MoveMode); err == nil && p.MoveMode != "" {
			mode = m
		}
	}
	l.engine = draggable.NewEngine(l.root, l.drag, l, l,
		draggable.WithMoveMode(mode),
		draggable.WithTouchSlop(cfg.Drag.TouchSlop),
		draggable.WithCheckCanDrop(cfg.Drag.CheckCanDrop),
		draggable.WithInitiateOnMove(cfg.Drag.InitiateOnMove),
		draggable.WithAutoScroll(cfg.Drag.AutoScrollInterval, cfg.Drag.EdgeScrollRows, 1),
		draggable.WithListener(l),
		draggable.WithLogger(logger.Named("engine")),
	)

	l.root.RegisterObserver(hostObserver{l})
	l.root.AttachedToHost()
	l.bind()
	return l, nil
}

// Close detaches the tree from the host and releases every adapter in it.
func (l *List) Close() {
	l.root.DetachedFromHost()
	adapter.ReleaseAll(l.root)
}

func (l *List) Init() tea.Cmd { return nil }

func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		l.width, l.height = m.Width, m.Height
		l.help.Width = m.Width
	case tea.KeyMsg:
		cmd = l.handleKey(m)
	case tea.MouseMsg:
		l.handleMouse(m)
	case scheduledMsg:
		m.fn()
	case errMsg:
		l.fail(m.error)
	}
	l.bind()
	return l, batch(cmd, l.flushScheduled())
}

// batch is tea.Batch that returns a lone command as is.
func batch(cmds ...tea.Cmd) tea.Cmd {
	var live []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			live = append(live, c)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return tea.Batch(live...)
}

func (l *List) savePrefs() {
	if l.prefs == "" {
		return
	}
	if err := prefs.Save(l.prefs, prefs.Prefs{MoveMode: l.engine.MoveMode().String()}); err != nil {
		l.fail(err)
	}
}

func (l *List) fail(err error) {
	l.logger.Debug("list error", zap.Error(err))
	l.status = "error: " + err.Error()
}

func (l *List) dragging() bool { return l.engine.State() == draggable.Dragging }

func (l *List) handleMouse(m tea.MouseMsg) {
	y := m.Y - listTop
	ev := draggable.PointerEvent{X: m.X, Y: y, Time: time.Now()}
	switch {
	case m.Button == tea.MouseButtonWheelUp:
		if !l.dragging() {
			l.ScrollBy(-1)
		}
		return
	case m.Button == tea.MouseButtonWheelDown:
		if !l.dragging() {
			l.ScrollBy(1)
		}
		return
	case m.Action == tea.MouseActionPress && m.Button == tea.MouseButtonLeft:
		ev.Kind = draggable.PointerDown
		if p := l.PositionAt(m.X, y); p != adapter.NoPosition && !l.dragging() {
			l.cursor = p
		}
	case m.Action == tea.MouseActionMotion:
		ev.Kind = draggable.PointerMove
	case m.Action == tea.MouseActionRelease:
		ev.Kind = draggable.PointerUp
	default:
		return
	}
	if _, err := l.engine.HandlePointer(ev); err != nil {
		l.fail(err)
	}
}

func (l *List) handleKey(m tea.KeyMsg) tea.Cmd {
	if l.mode != modeNormal {
		l.handleInput(m)
		return nil
	}
	switch {
	case key.Matches(m, l.keys.Quit):
		return tea.Quit
	case key.Matches(m, l.keys.Cancel):
		if l.dragging() {
			if err := l.engine.Cancel(); err != nil {
				l.fail(err)
			}
		} else if l.filter.Active() {
			l.filter.SetQuery("")
			l.status = ""
		}
	case l.dragging():
		// the pointer owns the list until the drop
	case key.Matches(m, l.keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(m, l.keys.Down):
		if l.cursor < l.root.ItemCount()-1 {
			l.cursor++
		}
	case key.Matches(m, l.keys.MoveUp):
		l.reorder(-1)
	case key.Matches(m, l.keys.MoveDown):
		l.reorder(1)
	case key.Matches(m, l.keys.Filter):
		l.mode = modeFilter
		l.input = l.filter.Query()
	case key.Matches(m, l.keys.Mode):
		next := draggable.Swap
		if l.engine.MoveMode() == draggable.Swap {
			next = draggable.Shift
		}
		l.engine.SetMoveMode(next)
		l.status = "move mode: " + next.String()
		l.savePrefs()
	case key.Matches(m, l.keys.Done):
		it, pos, ok := l.itemAt(l.cursor)
		if !ok {
			l.status = "not an item"
			return nil
		}
		if err := it.Toggle(l.ctx, pos); err != nil {
			l.fail(err)
		}
	case key.Matches(m, l.keys.Delete):
		it, pos, ok := l.itemAt(l.cursor)
		if !ok {
			l.status = "not an item"
			return nil
		}
		if err := it.Remove(l.ctx, pos); err != nil {
			l.fail(err)
		}
	case key.Matches(m, l.keys.Add):
		l.addTarget = l.sourceAt(l.cursor)
		if l.addTarget != nil {
			l.mode = modeAdd
			l.input = ""
		}
	case key.Matches(m, l.keys.Help):
		l.help.ShowAll = !l.help.ShowAll
	}
	return nil
}

func (l *List) handleInput(m tea.KeyMsg) {
	switch m.Type {
	case tea.KeyEsc:
		if l.mode == modeFilter {
			l.filter.SetQuery("")
		}
		l.mode, l.input = modeNormal, ""
		return
	case tea.KeyEnter:
		if l.mode == modeAdd && l.addTarget != nil && l.input != "" {
			if err := l.addTarget.Add(l.ctx, l.input); err != nil {
				l.fail(err)
			}
		}
		l.mode, l.input = modeNormal, ""
		return
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if r := []rune(l.input); len(r) > 0 {
			l.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		l.input += " "
	case tea.KeyRunes:
		l.input += string(m.Runes)
	default:
		return
	}
	if l.mode == modeFilter {
		l.filter.SetQuery(l.input)
		l.cursor = 0
	}
}

// reorder moves the item under the cursor one row with a keyboard session
// on the drag engine.
func (l *List) reorder(delta int) {
	if err := l.engine.Begin(l.cursor); err != nil {
		l.fail(err)
		return
	}
	if !l.dragging() {
		if l.filter.Active() {
			l.status = "clear the filter to reorder"
		} else {
			l.status = "this row cannot be moved"
		}
		return
	}
	moved := l.engine.Nudge(delta)
	target := l.drag.CurrentPosition()
	if err := l.engine.Drop(); err != nil {
		l.fail(err)
		return
	}
	if moved {
		l.cursor = target
	}
}

// leaf resolves a root position to the leaf adapter showing it.
func (l *List) leaf(position int) (adapter.Adapter, int, bool) {
	var path adapter.Path
	pos := adapter.UnwrapPosition(l.root, nil, nil, position, &path)
	last, ok := path.Last()
	if pos == adapter.NoPosition || !ok {
		return nil, adapter.NoPosition, false
	}
	return last.Adapter, pos, true
}

func (l *List) itemAt(position int) (*source.Items, int, bool) {
	a, pos, ok := l.leaf(position)
	if !ok {
		return nil, adapter.NoPosition, false
	}
	it, ok := l.items[a]
	return it, pos, ok
}

// sourceAt is the Items adapter of the section containing position.
func (l *List) sourceAt(position int) *source.Items {
	a, _, ok := l.leaf(position)
	if !ok {
		return nil
	}
	if it, ok := l.items[a]; ok {
		return it
	}
	if h, ok := l.headers[a]; ok {
		return l.bySource[h.Source().ID]
	}
	return nil
}

// label is the filter text of a position in the composition.
func (l *List) label(position int) string {
	var path adapter.Path
	pos := adapter.UnwrapPosition(l.composed, nil, nil, position, &path)
	last, ok := path.Last()
	if pos == adapter.NoPosition || !ok {
		return ""
	}
	if it, ok := l.items[last.Adapter]; ok {
		return it.Label(pos)
	}
	if h, ok := l.headers[last.Adapter]; ok {
		return h.Title()
	}
	return ""
}

func (l *List) flushScheduled() tea.Cmd {
	if len(l.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(l.pending))
	for _, s := range l.pending {
		fn := s.fn
		cmds = append(cmds, tea.Tick(s.d, func(time.Time) tea.Msg { return scheduledMsg{fn} }))
	}
	l.pending = nil
	return batch(cmds...)
}

// DragStarted and the other Listener methods keep the status line current.
func (l *List) DragStarted(position int) {
	l.status = fmt.Sprintf("moving row %d", position)
}

func (l *List) DragPositionChanged(int, int) {}

func (l *List) DragFinished(from, to int, success bool) {
	switch {
	case !success:
		l.status = "move cancelled"
	case from != to:
		l.status = fmt.Sprintf("moved %d → %d", from, to)
	default:
		l.status = ""
	}
}

func (l *List) MoveDistanceUpdated(int) {}

// hostObserver keeps the cursor on a valid row as the root changes.
type hostObserver struct{ l *List }

func (o hostObserver) DataSetChanged()                { o.clamp() }
func (o hostObserver) RangeChanged(int, int, any)     {}
func (o hostObserver) RangeInserted(start, count int) { o.clamp() }
func (o hostObserver) RangeRemoved(start, count int) {
	if o.l.cursor >= start+count {
		o.l.cursor -= count
	}
	o.clamp()
}
func (o hostObserver) Moved(from, to int) {}

func (o hostObserver) clamp() {
	n := o.l.root.ItemCount()
	o.l.cursor = min(max(o.l.cursor, 0), max(n-1, 0))
}

// headerSync refreshes a header's count when its items are added or removed.
type headerSync struct{ h *source.Header }

func (s headerSync) DataSetChanged()            { s.h.Refresh() }
func (s headerSync) RangeChanged(int, int, any) {}
func (s headerSync) RangeInserted(int, int)     { s.h.Refresh() }
func (s headerSync) RangeRemoved(int, int)      { s.h.Refresh() }
func (s headerSync) Moved(int, int)             {}
