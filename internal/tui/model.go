// Package tui is the interactive terminal front end.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/ui"
)

// Options tune the presentation timing.
type Options struct {
	// RemovalDelay is how long a row shows as "removing" before a complete
	// or delete is applied. Zero applies immediately.
	RemovalDelay time.Duration
	// NotifyTimeout is how long the notification banner stays up.
	NotifyTimeout time.Duration
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

type op int

const (
	opComplete op = iota
	opDelete
)

// applyMsg fires when a removal delay has elapsed.
type applyMsg struct {
	op op
	id int64
}

// hideNoticeMsg clears the banner unless a newer notice replaced it.
type hideNoticeMsg struct{ seq int }

var (
	addBind      = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind     = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	completeBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "complete"))
	deleteBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	quitBind     = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

// Model implements tea.Model over a Store.
type Model struct {
	ctx   context.Context
	store *store.Store
	board *board
	opt   Options

	list          list.Model
	width, height int

	// Inline add/edit share one input, like a single text field whose
	// submit button doubles as "confirm edit".
	mode   mode
	ti     textinput.Model
	editID int64

	notice    string
	noticeSeq int
}

// New builds the model and subscribes it to st. st must be initialized.
func New(ctx context.Context, st *store.Store, opt Options) Model {
	b := newBoard(st.Tasks())
	st.AddListener(b)
	st.SetNotifier(b)

	l := list.New(b.items(), itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.KeyMap.Quit.SetEnabled(false)
	extra := func() []key.Binding { return []key.Binding{addBind, editBind, completeBind, deleteBind, quitBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0 // SetValue truncates to CharLimit

	m := Model{
		ctx:    ctx,
		store:  st,
		board:  b,
		opt:    opt,
		list:   l,
		ti:     ti,
		width:  80,
		height: 24,
	}
	m.refresh()
	m.resize()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, st *store.Store, opt Options) error {
	_, err := tea.NewProgram(New(ctx, st, opt), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case hideNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.resize()
		}
		return m, nil
	case applyMsg:
		return m.apply(msg)
	}

	if m.mode != modeList {
		return m.updateInput(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(k, quitBind):
			return m, tea.Quit
		case key.Matches(k, addBind):
			m.mode = modeAdd
			m.ti.SetValue("")
			m.ti.Placeholder = "New task..."
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		case key.Matches(k, editBind):
			it, ok := m.selected()
			if !ok || it.task.Completed || it.removing {
				return m, nil
			}
			m.mode = modeEdit
			m.editID = it.task.ID
			m.ti.SetValue(it.task.Text)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Edit task..."
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		case key.Matches(k, completeBind):
			it, ok := m.selected()
			if !ok || it.task.Completed || it.removing {
				return m, nil
			}
			return m.schedule(opComplete, it.task.ID)
		case key.Matches(k, deleteBind):
			it, ok := m.selected()
			if !ok || it.removing {
				return m, nil
			}
			return m.schedule(opDelete, it.task.ID)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			return m.submit()
		case "esc":
			return m.closeInput(), nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// submit adds or edits depending on the mode. On a validation error the
// input stays open with its text so it can be corrected.
func (m Model) submit() (tea.Model, tea.Cmd) {
	var (
		t   model.Task
		err error
	)
	if m.mode == modeEdit {
		t, err = m.store.Edit(m.ctx, m.editID, m.ti.Value())
	} else {
		t, err = m.store.Add(m.ctx, m.ti.Value())
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		m = m.closeInput()
		m.board.Notify("Task no longer exists.")
	case err != nil:
		// validation or save failure: keep the input and its text
	default:
		m = m.closeInput()
		m.refresh()
		m.selectID(t.ID)
	}
	cmd := m.flash()
	return m, cmd
}

func (m Model) closeInput() Model {
	m.mode = modeList
	m.editID = 0
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
	return m
}

// schedule marks the row as removing and applies op after RemovalDelay.
func (m Model) schedule(o op, id int64) (tea.Model, tea.Cmd) {
	if m.opt.RemovalDelay <= 0 {
		return m.apply(applyMsg{op: o, id: id})
	}
	m.board.removing[id] = true
	m.refresh()
	return m, tea.Tick(m.opt.RemovalDelay, func(time.Time) tea.Msg {
		return applyMsg{op: o, id: id}
	})
}

func (m Model) apply(msg applyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch msg.op {
	case opComplete:
		_, err = m.store.Complete(m.ctx, msg.id)
	case opDelete:
		err = m.store.Delete(m.ctx, msg.id)
	}
	if errors.Is(err, store.ErrNotFound) {
		m.board.Notify("Task no longer exists.")
	}
	delete(m.board.removing, msg.id)
	m.refresh()
	cmd := m.flash()
	return m, cmd
}

// flash moves the latest notification into the banner and schedules its removal.
func (m *Model) flash() tea.Cmd {
	msg, ok := m.board.takeNotice()
	if !ok {
		return nil
	}
	m.notice = msg
	m.noticeSeq++
	m.resize()
	if m.opt.NotifyTimeout <= 0 {
		return nil
	}
	seq := m.noticeSeq
	return tea.Tick(m.opt.NotifyTimeout, func(time.Time) tea.Msg {
		return hideNoticeMsg{seq: seq}
	})
}

// refresh rebuilds the list rows and the header counts from the board.
func (m *Model) refresh() {
	idx := m.list.Index()
	m.list.SetItems(m.board.items())
	if n := len(m.list.Items()); idx >= n && n > 0 {
		idx = n - 1
	}
	m.list.Select(idx)
	m.list.Title = listTitle(m.board.tasks)
}

func (m *Model) selectID(id int64) {
	for i, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.task.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m *Model) resize() {
	h := m.height - 4
	if m.mode != modeList {
		h -= 4
	}
	if m.notice != "" {
		h--
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func listTitle(tasks []model.Task) string {
	t := ui.Current()
	d, p := model.Stats(tasks)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Tasks",
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(tasks),
	)
}

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder
	if m.notice != "" {
		b.WriteString(t.Banner.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())
	if m.mode != modeList {
		title := "Add task"
		if m.mode == modeEdit {
			title = "Edit task"
		}
		b.WriteString("\n")
		b.WriteString(ui.PanelString(t.Title.Render(title) + "\n" + m.ti.View()))
	}
	return ui.PanelString(b.String())
}
