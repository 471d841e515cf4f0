package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paperwhisper/internal/answer"
	"paperwhisper/internal/domain"
)

// QueryPort is the TUI-facing subset of the retriever.
type QueryPort interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}

// Model is the Bubble Tea model for the question-answering session.
type Model struct {
	retriever QueryPort
	answerer  answer.Answerer
	topK      int

	input    textinput.Model
	viewport viewport.Model
	results  []domain.SearchResult
	answer   string
	summary  string
	status   string
	cursor   int
	ready    bool
	thinking bool
}

// answerMsg carries the async LLM answer back into Update.
type answerMsg struct {
	text string
	err  error
}

// New creates a TUI session over an already-ingested document.
func New(r QueryPort, a answer.Answerer, topK int, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask a question about the document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		retriever: r,
		answerer:  a,
		topK:      topK,
		input:     ti,
		viewport:  vp,
		summary:   summary,
		status:    "Document indexed. Ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // header + summary
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			m.status = "Answer error: " + msg.err.Error()
		} else {
			m.answer = msg.text
			m.status = "Done. Up/down to browse passages."
		}
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				return m.ask(q)
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask retrieves passages synchronously (in-memory search is fast) and
// kicks off answer generation as a command.
func (m Model) ask(q string) (tea.Model, tea.Cmd) {
	res, err := m.retriever.Retrieve(context.Background(), q, m.topK)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
		m.answer = ""
		m.viewport.SetContent(m.renderBody())
		return m, nil
	}
	m.results = res
	m.cursor = 0
	m.answer = ""
	m.thinking = true
	m.status = fmt.Sprintf("Retrieved %d passages, generating answer...", len(res))
	m.viewport.SetContent(m.renderBody())

	passages := make([]string, len(res))
	for i, r := range res {
		passages[i] = r.Passage.Text
	}
	answerer := m.answerer
	return m, func() tea.Msg {
		text, err := answerer.Answer(context.Background(), q, passages)
		return answerMsg{text: text, err: err}
	}
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("PaperWhisper")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderBody() string {
	if len(m.results) == 0 {
		return "No passages yet."
	}
	var b strings.Builder
	switch {
	case m.thinking:
		b.WriteString(answerStyle.Render("Thinking..."))
	case m.answer == answer.InsufficientContext:
		b.WriteString(answerStyle.Render("The document does not seem to answer that."))
	case m.answer != "":
		b.WriteString(answerStyle.Render(m.answer))
	}
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	r := m.results[m.cursor]
	b.WriteString(fmt.Sprintf("Passage %d/%d  score=%.3f\n\n", m.cursor+1, len(m.results), r.Score))
	b.WriteString(strings.TrimSpace(r.Passage.Text))
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
