// Package tui is the terminal chat client: a list of chat threads on the
// left, the selected thread on the right and a query box at the bottom.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cherry-ai/application"
	"cherry-ai/domain"
)

const sidebarWidth = 18

// Querier sends a query to the server.
type Querier interface {
	Query(ctx context.Context, query string) (*domain.ChatMessage, error)
}

// answerMsg carries the result of a query back into Update.
type answerMsg struct {
	msg *domain.ChatMessage
	err error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	client   Querier
	store    *application.ThreadStore
	input    textinput.Model
	viewport viewport.Model
	loading  bool
	target   int // thread the in-flight query was asked in; -1 once deleted
	status   string
	ready    bool
}

// New creates a new chat model over the given thread store.
func New(client Querier, store *application.ThreadStore) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter your query"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		client:   client,
		store:    store,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "enter: search  ctrl+n: new chat  ctrl+x: delete chat  tab/shift+tab: switch  ctrl+c: quit",
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query box content, spacer
		m.viewport.Width = max(20, msg.Width-sidebarWidth-1)
		m.viewport.Height = max(3, msg.Height-reserved-qh)
		m.refresh()
		return m, nil

	case answerMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		if m.target < 0 {
			m.status = "Chat was deleted, answer discarded"
			return m, nil
		}
		if err := m.store.AppendTo(m.target, *msg.msg); err != nil {
			m.status = "Error saving chats: " + err.Error()
		} else {
			m.status = fmt.Sprintf("Answered %q", msg.msg.Query)
		}
		m.input.SetValue("")
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.loading {
				return m, nil
			}
			m.loading = true
			m.target = m.store.Current()
			m.status = "Searching..."
			return m, m.ask(q)
		case "ctrl+n":
			m.report(m.store.NewThread())
			m.refresh()
			return m, nil
		case "ctrl+x":
			deleted := m.store.Current()
			if err := m.store.Delete(deleted); err != nil {
				m.report(err)
				return m, nil
			}
			if m.loading {
				switch {
				case deleted == m.target:
					m.target = -1
				case deleted < m.target:
					m.target--
				}
			}
			m.refresh()
			return m, nil
		case "tab":
			m.report(m.store.Switch((m.store.Current() + 1) % len(m.store.Threads())))
			m.refresh()
			return m, nil
		case "shift+tab":
			n := len(m.store.Threads())
			m.report(m.store.Switch((m.store.Current() - 1 + n) % n))
			m.refresh()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the sidebar, the selected thread, the query box and status.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("CherryAi")
	main := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), " ", main)
	status := statusStyle.Render(m.status)
	return body + "\n" + queryBoxStyle.Render(m.input.View()) + "\n" + status
}

func (m Model) ask(query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		msg, err := client.Query(context.Background(), query)
		return answerMsg{msg: msg, err: err}
	}
}

func (m *Model) report(err error) {
	if err != nil {
		m.status = "Error: " + err.Error()
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(RenderThread(m.store.CurrentThread(), m.viewport.Width))
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	current := m.store.Current()
	for i := range m.store.Threads() {
		label := fmt.Sprintf("Chat %d", i+1)
		if i == current {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}
	return sidebarStyle.Render(b.String())
}

// RenderThread renders every exchange of a thread: the query, the answer,
// the relevant links and any URL mentioned in the answer itself.
func RenderThread(thread domain.ChatThread, width int) string {
	if len(thread) == 0 {
		return "No messages yet. Type a query and press enter."
	}
	wrap := lipgloss.NewStyle()
	if width > 0 {
		wrap = wrap.Width(width)
	}

	var b strings.Builder
	for i, msg := range thread {
		if i > 0 {
			b.WriteString(ruleStyle.Render(strings.Repeat("─", max(10, min(width, 60)))) + "\n")
		}
		b.WriteString(labelStyle.Render("Query:") + "\n")
		b.WriteString(wrap.Render(msg.Query) + "\n\n")
		b.WriteString(labelStyle.Render("Answer:") + "\n")
		b.WriteString(wrap.Render(msg.Answer) + "\n\n")
		b.WriteString(labelStyle.Render("Relevant Links:") + "\n")
		for _, l := range msg.RelevantLinks {
			b.WriteString(fmt.Sprintf("  • %s %s\n", l.Title, linkStyle.Render(l.Link)))
		}
		for _, l := range domain.ExtractLinks(msg.Answer) {
			b.WriteString(fmt.Sprintf("  • %s\n", linkStyle.Render(l)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	linkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
	ruleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sidebarStyle  = lipgloss.NewStyle().Width(sidebarWidth).Border(lipgloss.NormalBorder(), false, true, false, false)
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
