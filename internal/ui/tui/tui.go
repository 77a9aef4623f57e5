package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/echomind/internal/ui"
	"github.com/felixgeelhaar/echomind/internal/workflow"
)

type Tab int

const (
	TabAdd Tab = iota
	TabSearch
	TabManage
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabAdd:
		return "Add Memory"
	case TabSearch:
		return "Search Memories"
	default:
		return "Manage Memories"
	}
}

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Padding(0, 1)
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F77B4")).Bold(true)
)

// chromeHeight is the number of lines used by the title, tabs and help.
const chromeHeight = 6

type statusMsg workflow.Connection
type addDoneMsg workflow.AddView
type searchDoneMsg workflow.SearchView
type manageDoneMsg workflow.ManageView

// Model is the interactive client. Each tab keeps its own workflow view state;
// the widgets only hold what the user is typing.
type Model struct {
	wf *workflow.Workflows

	Tab    Tab
	Conn   workflow.Connection
	Add    workflow.AddView
	Search workflow.SearchView
	Manage workflow.ManageView

	Expanded map[string]bool
	Cursor   int
	Busy     [tabCount]bool

	textarea textarea.Model
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	Quitting bool
	Ready    bool
	Width    int
	Height   int
}

func NewModel(wf *workflow.Workflows) Model {
	ta := textarea.New()
	ta.Placeholder = "Write something meaningful to remember..."
	ta.SetHeight(6)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "What are you looking for?"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		wf:       wf,
		Tab:      TabAdd,
		Expanded: make(map[string]bool),
		textarea: ta,
		input:    ti,
		spinner:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.statusCmd(), textarea.Blink, m.spinner.Tick)
}

func (m Model) statusCmd() tea.Cmd {
	wf := m.wf
	return func() tea.Msg {
		return statusMsg(wf.Status(context.Background()))
	}
}

func (m Model) addCmd(v workflow.AddView) tea.Cmd {
	wf := m.wf
	return func() tea.Msg {
		return addDoneMsg(wf.Add(context.Background(), v))
	}
}

func (m Model) searchCmd(v workflow.SearchView) tea.Cmd {
	wf := m.wf
	return func() tea.Msg {
		return searchDoneMsg(wf.Search(context.Background(), v))
	}
}

func (m Model) refreshCmd() tea.Cmd {
	wf := m.wf
	return func() tea.Msg {
		return manageDoneMsg(wf.Refresh(context.Background()))
	}
}

func (m Model) deleteCmd(v workflow.ManageView, id string) tea.Cmd {
	wf := m.wf
	return func() tea.Msg {
		return manageDoneMsg(wf.Delete(context.Background(), v, id))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		case "tab":
			return m.switchTab((m.Tab + 1) % tabCount)
		case "shift+tab":
			return m.switchTab((m.Tab + tabCount - 1) % tabCount)
		}
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.textarea.SetWidth(msg.Width - 4)
		if !m.Ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.Ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		m.followCursor()

	case statusMsg:
		m.Conn = workflow.Connection(msg)

	case addDoneMsg:
		m.Busy[TabAdd] = false
		m.Add = workflow.AddView(msg)
		m.textarea.SetValue(m.Add.Input)

	case searchDoneMsg:
		m.Busy[TabSearch] = false
		m.Search = workflow.SearchView(msg)

	case manageDoneMsg:
		m.Busy[TabManage] = false
		m.Manage = workflow.ManageView(msg)
		m.pruneSelection()
		m.followCursor()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.syncViewport()
	return m, tea.Batch(cmds...)
}

func (m Model) switchTab(t Tab) (Model, tea.Cmd) {
	m.Tab = t
	m.textarea.Blur()
	m.input.Blur()

	var cmd tea.Cmd
	switch t {
	case TabAdd:
		cmd = m.textarea.Focus()
	case TabSearch:
		cmd = m.input.Focus()
	case TabManage:
		if !m.Busy[TabManage] {
			m.Busy[TabManage] = true
			cmd = tea.Batch(m.spinner.Tick, m.refreshCmd())
		}
	}
	m.syncViewport()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Busy[m.Tab] {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.Tab {
	case TabAdd:
		switch msg.String() {
		case "ctrl+s":
			m.Add.Input = m.textarea.Value()
			m.Busy[TabAdd] = true
			return m, tea.Batch(m.spinner.Tick, m.addCmd(m.Add))
		case "ctrl+l":
			m.Add = m.Add.Clear()
			m.textarea.Reset()
			return m, nil
		}
		m.textarea, cmd = m.textarea.Update(msg)
		m.Add.Input = m.textarea.Value()

	case TabSearch:
		if msg.String() == "enter" {
			m.Search.Input = m.input.Value()
			m.Busy[TabSearch] = true
			return m, tea.Batch(m.spinner.Tick, m.searchCmd(m.Search))
		}
		m.input, cmd = m.input.Update(msg)
		m.Search.Input = m.input.Value()

	case TabManage:
		switch msg.String() {
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
			m.followCursor()
		case "down", "j":
			if m.Cursor < len(m.Manage.Memories)-1 {
				m.Cursor++
			}
			m.followCursor()
		case "enter", " ":
			if sel, ok := m.selected(); ok {
				m.Expanded[sel] = !m.Expanded[sel]
			}
			m.followCursor()
		case "d":
			if sel, ok := m.selected(); ok {
				m.Busy[TabManage] = true
				return m, tea.Batch(m.spinner.Tick, m.deleteCmd(m.Manage, sel))
			}
		case "r":
			m.Busy[TabManage] = true
			return m, tea.Batch(m.spinner.Tick, m.refreshCmd())
		default:
			m.viewport, cmd = m.viewport.Update(msg)
		}
	}
	return m, cmd
}

func (m Model) selected() (string, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Manage.Memories) {
		return "", false
	}
	return m.Manage.Memories[m.Cursor].ID, true
}

// pruneSelection keeps the cursor in range and forgets expansion state for
// memories that are no longer listed.
func (m *Model) pruneSelection() {
	live := make(map[string]bool, len(m.Manage.Memories))
	for _, mem := range m.Manage.Memories {
		live[mem.ID] = true
	}
	for id := range m.Expanded {
		if !live[id] {
			delete(m.Expanded, id)
		}
	}
	if m.Cursor >= len(m.Manage.Memories) {
		m.Cursor = len(m.Manage.Memories) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) syncViewport() {
	if m.Ready {
		content, _, _ := m.render()
		m.viewport.SetContent(content)
	}
}

// followCursor scrolls the manage listing just enough to keep the selected
// memory on screen.
func (m *Model) followCursor() {
	if !m.Ready || m.Tab != TabManage {
		return
	}
	content, top, bottom := m.render()
	m.viewport.SetContent(content)
	if top < 0 {
		return
	}
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height + 1)
	}
}

// render builds the active tab's content. top and bottom are the first and
// last line of the selected memory, or -1 when nothing is selected.
func (m Model) render() (content string, top, bottom int) {
	var sections []string
	top, bottom = -1, -1
	line := 0
	add := func(s string) {
		sections = append(sections, s)
		line += lipgloss.Height(s) + 1
	}
	busy := func(label string) {
		if m.Busy[m.Tab] {
			add(m.spinner.View() + " " + label)
		}
	}

	switch m.Tab {
	case TabAdd:
		add(ui.HeaderStyle.Render("Add a New Memory"))
		add(m.textarea.View())
		busy("Storing memory...")
		if n := ui.RenderNotice(m.Add.Notice); n != "" {
			add(n)
		}

	case TabSearch:
		add(ui.HeaderStyle.Render("Search Your Memories"))
		add(m.input.View())
		busy("Searching memories...")
		if n := ui.RenderNotice(m.Search.Notice); n != "" {
			add(n)
		}
		if r := ui.RenderResults(m.Search.Results); r != "" {
			add(r)
		}

	case TabManage:
		add(ui.HeaderStyle.Render("Manage Your Memories"))
		busy("Loading...")
		for _, n := range m.Manage.Notices {
			add(ui.RenderNotice(n))
		}
		if m.Manage.Empty() {
			add(ui.RenderNotice(workflow.Notice{Level: workflow.LevelInfo, Text: workflow.NothingStored}))
		} else if m.Manage.Loaded {
			add(ui.RenderListingHeader(m.Manage.Total))
			for i, mem := range m.Manage.Memories {
				entry := ui.RenderMemory(i, mem, m.Expanded[mem.ID])
				if i == m.Cursor {
					entry = selectedStyle.Render("> ") + entry
					top = line
					bottom = line + lipgloss.Height(entry) - 1
				} else {
					entry = "  " + entry
				}
				add(entry)
			}
		}
	}
	return strings.Join(sections, "\n\n"), top, bottom
}

func (m Model) help() string {
	switch m.Tab {
	case TabAdd:
		return "ctrl+s add • ctrl+l clear • tab switch • esc quit"
	case TabSearch:
		return "enter search • tab switch • esc quit"
	default:
		return "↑/↓ select • enter expand • d delete • r refresh • tab switch • esc quit"
	}
}

func (m Model) View() string {
	if !m.Ready {
		return "\n  Initializing..."
	}

	header := ui.TitleStyle.Render(" EchoMind - Personal Memory Assistant ")
	status := fmt.Sprintf(" API Status: %s ", ui.RenderConnection(m.Conn))

	tabs := make([]string, 0, tabCount)
	for t := TabAdd; t < tabCount; t++ {
		style := inactiveTabStyle
		if t == m.Tab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	view := fmt.Sprintf("%s%s\n%s\n\n%s\n%s",
		header, status,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		m.viewport.View(),
		ui.MutedStyle.Render(m.help()))

	if m.Quitting {
		return view + "\n  Quitting...\n"
	}
	return view
}
