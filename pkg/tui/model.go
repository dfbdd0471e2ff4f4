// Package tui is the interactive list and board built on bubbletea.
//
// The model never blocks the event loop: fetches and status moves run as
// tea.Cmds and report back through messages. Moves go through the optimistic
// coordinator, so a card changes column on the key press and is reconciled
// when the server answers.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/internal/logger"
	"github.com/dkoosis/apptrack/pkg/optimistic"
	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/store"
	"github.com/dkoosis/apptrack/pkg/view"
)

// Backend is what the UI needs from the API client.
type Backend interface {
	store.Source
	optimistic.StatusUpdater
}

// Options configures a Model.
type Options struct {
	Store        *store.Store
	Backend      Backend
	Theme        *Theme
	PageSize     int
	BoardWindow  int
	ShowArchived bool
	// Board starts on the board instead of the list.
	Board bool
}

type screen int

const (
	screenList screen = iota
	screenBoard
)

// Model is the bubbletea model.
type Model struct {
	ctx     context.Context
	store   *store.Store
	source  store.Source
	coord   *optimistic.Coordinator
	theme   *CompiledTheme
	keys    keyMap
	help    help.Model
	search  textinput.Model
	spinner spinner.Model
	log     *zap.SugaredLogger

	screen       screen
	list         view.List
	board        view.Board
	showArchived bool

	row       int // list cursor within the current page
	col, card int // board cursor
	searching bool
	loading   bool
	flash     string
	flashErr  bool
	width     int
	height    int
}

// fetchedMsg carries a list fetch. moves is the coordinator's Started count
// when the fetch was sent.
type fetchedMsg struct {
	records []record.Record
	moves   uint64
	err     error
}

type moveDoneMsg struct {
	ticket optimistic.Ticket
	err    error
}

// New builds a Model. The store may already be loaded.
func New(ctx context.Context, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	ti := textinput.New()
	ti.Placeholder = "company, role or location"
	ti.Prompt = "/ "
	ti.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:          ctx,
		store:        opts.Store,
		source:       opts.Backend,
		coord:        optimistic.New(opts.Store, opts.Backend),
		theme:        theme.Compile(),
		keys:         defaultKeys(),
		help:         help.New(),
		search:       ti,
		spinner:      sp,
		log:          logger.Named("tui"),
		list:         view.NewList(opts.PageSize),
		board:        view.NewBoard(opts.BoardWindow),
		showArchived: opts.ShowArchived,
	}
	if opts.Board {
		m.screen = screenBoard
	}
	return m
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	program := tea.NewProgram(New(ctx, opts), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "run interactive UI")
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	if m.store.NeedsLoad() {
		return tea.Batch(m.spinner.Tick, m.fetch())
	}
	return nil
}

func (m Model) fetch() tea.Cmd {
	ctx, src, moves := m.ctx, m.source, m.coord.Started()
	return func() tea.Msg {
		records, err := src.ListAll(ctx)
		return fetchedMsg{records: records, moves: moves, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKey(msg)

	case fetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if inFlight := m.coord.InFlight(); inFlight > 0 || msg.moves != m.coord.Started() {
			// The snapshot predates a move, so replacing would undo it. With
			// moves still pending the last resolved one refetches.
			m.log.Debugw("discarding fetch older than a move",
				"fetched_after", msg.moves, "started", m.coord.Started(), "in_flight", inFlight)
			m.store.Invalidate()
			if inFlight > 0 {
				return m, nil
			}
			m.loading = true
			return m, m.fetch()
		}
		m.store.Replace(msg.records)
		m.clampCursors()
		return m, nil

	case moveDoneMsg:
		return m.resolveMove(msg)

	case spinner.TickMsg:
		if !m.loading && !m.store.NeedsLoad() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applyQuery("")
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyQuery(m.search.Value())
	return m, cmd
}

func (m *Model) applyQuery(q string) {
	m.list = m.list.WithQuery(q)
	m.board = m.board.WithQuery(q)
	m.clampCursors()
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Switch):
		if m.screen == screenList {
			m.screen = screenBoard
		} else {
			m.screen = screenList
		}
		m.clampCursors()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Archived):
		m.showArchived = !m.showArchived
		m.clampCursors()
		return m, nil
	}

	if m.screen == screenBoard {
		return m.updateBoardKey(msg)
	}
	return m.updateListKey(msg)
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.flash = ""
	return m, tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) updateListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, page := m.list.Derive(m.store.Snapshot(), m.showArchived)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.row = max(m.row-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.row = min(m.row+1, max(len(page.Items)-1, 0))
	case key.Matches(msg, m.keys.Right):
		if page.HasNext() {
			m.list = m.list.GoTo(page.Number + 1)
			m.row = 0
		}
	case key.Matches(msg, m.keys.Left):
		if page.HasPrev() {
			m.list = m.list.GoTo(page.Number - 1)
			m.row = 0
		}
	case key.Matches(msg, m.keys.Status):
		m.list = m.list.WithStatus(cycleStatus(m.list.Criteria().Status))
		m.row = 0
	case key.Matches(msg, m.keys.Priority):
		m.list = m.list.WithPriority(cyclePriority(m.list.Criteria().Priority))
		m.row = 0
	case key.Matches(msg, m.keys.Clear):
		m.list = m.list.Cleared()
		m.board = m.board.WithQuery("")
		m.search.SetValue("")
		m.row = 0
	case key.Matches(msg, m.keys.MoveRight), key.Matches(msg, m.keys.MoveLeft):
		if m.row < len(page.Items) {
			r := page.Items[m.row]
			return m.move(r.ID, step(r.Status, key.Matches(msg, m.keys.MoveRight)))
		}
	}
	return m, nil
}

func (m Model) updateBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.columns()
	switch {
	case key.Matches(msg, m.keys.Left):
		m.col = max(m.col-1, 0)
		m.card = 0
	case key.Matches(msg, m.keys.Right):
		m.col = min(m.col+1, len(cols)-1)
		m.card = 0
	case key.Matches(msg, m.keys.Up):
		m.card = max(m.card-1, 0)
	case key.Matches(msg, m.keys.Down):
		if m.col < len(cols) {
			m.card = min(m.card+1, max(len(cols[m.col].Cards)-1, 0))
		}
	case key.Matches(msg, m.keys.More):
		if m.col < len(cols) && cols[m.col].Remaining > 0 {
			m.board = m.board.More(cols[m.col].Status)
		}
	case key.Matches(msg, m.keys.Clear):
		m.board = m.board.WithQuery("")
		m.list = m.list.Cleared()
		m.search.SetValue("")
	case key.Matches(msg, m.keys.MoveRight), key.Matches(msg, m.keys.MoveLeft):
		if m.col < len(cols) && m.card < len(cols[m.col].Cards) {
			r := cols[m.col].Cards[m.card]
			return m.move(r.ID, step(r.Status, key.Matches(msg, m.keys.MoveRight)))
		}
	}
	m.clampCursors()
	return m, nil
}

// move applies the status change locally and returns the command that sends
// it. The board cursor follows the card.
func (m Model) move(id string, to record.Status) (tea.Model, tea.Cmd) {
	t, err := m.coord.Begin(id, to)
	if errors.Is(err, optimistic.ErrNoChange) {
		return m, nil
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.flash, m.flashErr = "", false
	if m.screen == screenBoard {
		m.follow(id, to)
	}

	ctx, coord := m.ctx, m.coord
	return m, func() tea.Msg {
		return moveDoneMsg{ticket: t, err: coord.Send(ctx, t)}
	}
}

func (m *Model) follow(id string, to record.Status) {
	cols := m.columns()
	for ci, c := range cols {
		if c.Status != to {
			continue
		}
		m.col, m.card = ci, 0
		for i, r := range c.Cards {
			if r.ID == id {
				m.card = i
			}
		}
		return
	}
}

func (m Model) resolveMove(msg moveDoneMsg) (tea.Model, tea.Cmd) {
	res := m.coord.Resolve(msg.ticket, msg.err)
	name := msg.ticket.ID
	if r, ok := m.store.Get(msg.ticket.ID); ok {
		name = r.Company
	}
	switch res.Outcome {
	case optimistic.Committed:
		m.flash, m.flashErr = fmt.Sprintf("%s %s moved to %s", m.theme.Icons.Success, name, msg.ticket.To.Label()), false
	case optimistic.Reverted:
		m.flash, m.flashErr = fmt.Sprintf("Could not move %s to %s; reverted to %s: %v",
			name, msg.ticket.To.Label(), msg.ticket.From.Label(), errors.UnwrapAll(res.Err)), true
	case optimistic.Gone:
		m.flash, m.flashErr = fmt.Sprintf("%s no longer exists and was removed", name), true
	case optimistic.Superseded:
		return m, nil
	}
	m.clampCursors()

	if m.store.Stale() && m.coord.InFlight() == 0 && !m.loading {
		m.loading = true
		return m, m.fetch()
	}
	return m, nil
}

func (m *Model) setError(err error) {
	m.flash, m.flashErr = err.Error(), true
	m.log.Warnw("ui error", "error", err, "kind", errors.Kind(err))
}

func (m Model) columns() []view.Column {
	return m.board.Derive(m.store.Snapshot(), m.showArchived)
}

func (m *Model) clampCursors() {
	switch m.screen {
	case screenList:
		l, page := m.list.Derive(m.store.Snapshot(), m.showArchived)
		m.list = l
		m.row = min(m.row, max(len(page.Items)-1, 0))
	case screenBoard:
		cols := m.columns()
		m.col = min(max(m.col, 0), len(cols)-1)
		if m.col >= 0 && m.col < len(cols) {
			m.card = min(m.card, max(len(cols[m.col].Cards)-1, 0))
		}
	}
}

func step(s record.Status, forward bool) record.Status {
	if forward {
		return s.Next()
	}
	return s.Prev()
}

// cycleStatus walks "" then every stage, then back to "".
func cycleStatus(cur record.Status) record.Status {
	if cur == "" || cur == view.All {
		return record.Statuses[0]
	}
	i := cur.Index()
	if i < 0 || i == len(record.Statuses)-1 {
		return ""
	}
	return record.Statuses[i+1]
}

func cyclePriority(cur record.Priority) record.Priority {
	if cur == "" || cur == view.All {
		return record.Priorities[0]
	}
	for i, p := range record.Priorities {
		if p == cur && i < len(record.Priorities)-1 {
			return record.Priorities[i+1]
		}
	}
	return ""
}
