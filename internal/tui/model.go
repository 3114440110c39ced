package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"showfinder/internal/domain"
)

// RecommenderPort is the TUI-facing subset of the recommender service.
type RecommenderPort interface {
	Submit(ctx context.Context, raw string) (domain.Result, error)
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   RecommenderPort
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.Recommendation
	summary   string
	status    string
	cursor    int
	ready     bool
	submitted bool
}

// New creates a new TUI model instance. summary is shown under the header.
func New(service RecommenderPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe what you want to watch, naming an actor or director, and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, summary: summary, status: "Loaded. Type a query."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResults())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			m = m.submit(m.input.Value())
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(q string) Model {
	res, err := m.service.Submit(context.Background(), q)
	m.submitted = true
	m.cursor = 0
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else {
		m.results = res.Recommendations
		m.status = statusLine(res)
	}
	m.viewport.SetContent(m.renderResults())
	return m
}

func statusLine(res domain.Result) string {
	if len(res.Entities) == 0 {
		return "No person recognized in the query."
	}
	return fmt.Sprintf("%d match(es) for %s", len(res.Recommendations), strings.Join(res.Entities, ", "))
}

// View renders the TUI layout and current results.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Show Finder")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderResults() string {
	if !m.submitted {
		return "No results yet."
	}
	if len(m.results) == 0 {
		return NoResults
	}
	blocks := make([]string, len(m.results))
	for i, r := range m.results {
		block := formatRecommendation(r)
		if i == m.cursor {
			block = highlightStyle.Render(block)
		}
		blocks[i] = block
	}
	return "Recommended TV Shows or Movies:\n\n" + strings.Join(blocks, "\n")
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
