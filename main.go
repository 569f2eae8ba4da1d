package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type screen int

const (
	screenInput screen = iota
	screenResult
	screenHistory
	screenHistoryDetail
)

var generateSpinnerFrames = []string{"|", "/", "-", `\`}

// generateState tracks one in-flight remote generation. Only one generation
// is in flight per session.
type generateState struct {
	decision     string
	spinnerFrame int
}

type generateResultMsg struct {
	decision string
	res      result
	err      error
}

type generateSpinnerTickMsg struct{}

// model tracks TUI state across all screens.
type model struct {
	screen screen
	paths  appDataPaths
	store  *historyStore

	input      textinput.Model
	resultView viewport.Model
	detailView viewport.Model

	current *result

	entries       []historyEntry
	historyCursor int

	pendingGenerate *generateState

	width  int
	height int

	status string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))

	rootThoughtStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("117"))
	metaStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cardStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	cardHeaderStyle  = lipgloss.NewStyle().Bold(true)
	loopBackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	depth1Style = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	depth2Style = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	depth3Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "generate" {
		if err := runGenerateCommand(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "overthink generate failed: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "history" {
		if err := runHistoryCommand(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "overthink history failed: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "prompts" {
		if err := runPromptsCommand(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "overthink prompts failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m := newModel()
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "overthink failed: %v\n", err)
		os.Exit(1)
	}
}

func newModel() model {
	input := textinput.New()
	input.Placeholder = "Should I ..."
	input.CharLimit = 200
	input.Focus()

	m := model{
		screen: screenInput,
		input:  input,
	}

	paths, err := resolveDataPaths()
	if err != nil {
		m.status = "Error: " + err.Error()
		return m
	}
	m.paths = paths

	store, err := openHistoryStore(paths.historyDB, defaultHistoryLimit)
	if err != nil {
		m.status = "Error: " + err.Error()
		return m
	}
	m.store = store
	m.status = "Type a decision and press Enter. Ctrl+R asks the remote overthinker."
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewports()
		m.refreshResultView()
		return m, nil
	case generateResultMsg:
		if m.pendingGenerate == nil || m.pendingGenerate.decision != msg.decision {
			return m, nil
		}
		m.pendingGenerate = nil
		res := msg.res
		if msg.err != nil {
			// Remote failure falls back to the template path; the result
			// shape is identical so the renderer never notices.
			fallback, err := compose(msg.decision)
			if err != nil {
				m.status = "Error: " + err.Error()
				return m, nil
			}
			res = fallback
			m.status = fmt.Sprintf("Remote failed (%v); used templates instead", msg.err)
		} else {
			m.status = "Overthought remotely. You're welcome."
		}
		m.recordResult(res)
		return m.showResult(res), nil
	case generateSpinnerTickMsg:
		if m.pendingGenerate == nil {
			return m, nil
		}
		m.pendingGenerate.spinnerFrame = (m.pendingGenerate.spinnerFrame + 1) % len(generateSpinnerFrames)
		return m, generateSpinnerTickCmd()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenInput:
		return m.handleInputKey(msg)
	case screenResult:
		return m.handleResultKey(msg)
	case screenHistory:
		return m.handleHistoryKey(msg)
	case screenHistoryDetail:
		return m.handleHistoryDetailKey(msg)
	default:
		return m, nil
	}
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		if m.pendingGenerate != nil {
			return m, nil
		}
		decision := m.input.Value()
		res, err := compose(decision)
		if err != nil {
			m.status = "Type a decision first — even overthinking needs input"
			return m, nil
		}
		m.status = "Overthought locally from the template bank"
		m.recordResult(res)
		return m.showResult(res), nil
	case "ctrl+r":
		if m.pendingGenerate != nil {
			return m, nil
		}
		decision := strings.TrimSpace(m.input.Value())
		if decision == "" {
			m.status = "Type a decision first — even overthinking needs input"
			return m, nil
		}
		m.pendingGenerate = &generateState{decision: m.input.Value()}
		m.status = "Consulting the remote overthinker..."
		return m, tea.Batch(m.startRemoteGenerate(), generateSpinnerTickCmd())
	case "ctrl+h":
		return m.openHistory()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.resultView.LineUp(1)
	case "down", "j":
		m.resultView.LineDown(1)
	case "pgup":
		m.resultView.HalfViewUp()
	case "pgdown":
		m.resultView.HalfViewDown()
	case "n", "b", "backspace":
		m.screen = screenInput
		m.input.Reset()
		m.input.Focus()
		m.status = "Next decision, same treatment"
		return m, textinput.Blink
	case "r":
		if m.current == nil {
			return m, nil
		}
		res, err := compose(m.current.Decision)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m, nil
		}
		m.status = "Re-overthought from the template bank"
		m.recordResult(res)
		return m.showResult(res), nil
	case "s":
		if m.current == nil {
			return m, nil
		}
		path, err := m.exportCurrent()
		if err != nil {
			m.status = "Export failed: " + err.Error()
			return m, nil
		}
		m.status = "Saved to " + path
	case "h":
		return m.openHistory()
	}
	return m, nil
}

func (m model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.historyCursor = clamp(m.historyCursor-1, 0, len(m.entries)-1)
	case "down", "j":
		m.historyCursor = clamp(m.historyCursor+1, 0, len(m.entries)-1)
	case "enter":
		if len(m.entries) == 0 {
			m.status = "History is empty"
			return m, nil
		}
		entry := m.entries[m.historyCursor]
		m.detailView.SetContent(renderResultCards(entry.res, m.contentWidth()))
		m.detailView.GotoTop()
		m.screen = screenHistoryDetail
		m.status = fmt.Sprintf("Entry %d from %s", entry.id, entry.createdAt.Local().Format("2006-01-02 15:04:05"))
	case "x":
		if m.store == nil {
			return m, nil
		}
		if err := m.store.clear(); err != nil {
			m.status = "Error: " + err.Error()
			return m, nil
		}
		m.entries = nil
		m.historyCursor = 0
		m.status = "History cleared"
	case "b", "backspace", "esc":
		m.screen = screenInput
		m.input.Focus()
		m.status = "Back to the decision prompt"
		return m, textinput.Blink
	}
	return m, nil
}

func (m model) handleHistoryDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.detailView.LineUp(1)
	case "down", "j":
		m.detailView.LineDown(1)
	case "pgup":
		m.detailView.HalfViewUp()
	case "pgdown":
		m.detailView.HalfViewDown()
	case "b", "backspace", "esc":
		m.screen = screenHistory
	}
	return m, nil
}

// startRemoteGenerate runs the remote path off the update loop and reports
// back with a generateResultMsg.
func (m model) startRemoteGenerate() tea.Cmd {
	if m.pendingGenerate == nil {
		return nil
	}
	pending := *m.pendingGenerate
	paths := m.paths
	return func() tea.Msg {
		apiKey, err := resolveAPIKey(paths)
		if err != nil {
			return generateResultMsg{decision: pending.decision, err: err}
		}
		client := &anthropicClient{
			apiKey: apiKey,
			http:   &http.Client{Timeout: defaultHTTPTimeout},
		}
		res, err := generateRemote(context.Background(), client, pending.decision, "")
		if err != nil {
			return generateResultMsg{decision: pending.decision, err: err}
		}
		return generateResultMsg{decision: pending.decision, res: res}
	}
}

func generateSpinnerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return generateSpinnerTickMsg{}
	})
}

func (m *model) recordResult(res result) {
	if m.store == nil {
		return
	}
	if _, err := m.store.append(res); err != nil {
		m.status = "History write failed: " + err.Error()
	}
}

func (m model) showResult(res result) model {
	m.current = &res
	m.screen = screenResult
	m.refreshResultView()
	m.resultView.GotoTop()
	return m
}

func (m model) openHistory() (tea.Model, tea.Cmd) {
	if m.store == nil {
		m.status = "History store unavailable"
		return m, nil
	}
	entries, err := m.store.list()
	if err != nil {
		m.status = "Error: " + err.Error()
		return m, nil
	}
	m.entries = entries
	m.historyCursor = clamp(m.historyCursor, 0, len(entries)-1)
	m.screen = screenHistory
	m.status = fmt.Sprintf("%d recent generations (cap %d)", len(entries), defaultHistoryLimit)
	return m, nil
}

func (m *model) exportCurrent() (string, error) {
	if err := os.MkdirAll(m.paths.exportsDir, 0o755); err != nil {
		return "", fmt.Errorf("create exports dir: %w", err)
	}
	path := filepath.Join(m.paths.exportsDir, fmt.Sprintf("overthink-%d.txt", time.Now().UnixMilli()))
	if err := os.WriteFile(path, []byte(renderResultText(*m.current)), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func (m *model) resizeViewports() {
	w := max(20, m.width)
	h := max(4, m.height-5)
	m.resultView.Width = w
	m.resultView.Height = h
	m.detailView.Width = w
	m.detailView.Height = h
}

func (m *model) refreshResultView() {
	if m.current == nil {
		return
	}
	m.resultView.SetContent(renderResultCards(*m.current, m.contentWidth()))
}

func (m model) contentWidth() int {
	if m.width <= 0 {
		return 76
	}
	return max(30, m.width-4)
}

func (m model) View() string {
	sections := []string{
		m.renderHeader(),
		m.renderBody(),
		m.renderStatus(),
		m.renderHelp(),
	}
	return strings.Join(sections, "\n")
}

func (m model) renderHeader() string {
	switch m.screen {
	case screenResult:
		return titleStyle.Render("overthink — result")
	case screenHistory:
		return titleStyle.Render("overthink — history")
	case screenHistoryDetail:
		return titleStyle.Render("overthink — history entry")
	default:
		return titleStyle.Render("overthink — a decision-avoidance appliance")
	}
}

func (m model) renderBody() string {
	switch m.screen {
	case screenInput:
		return m.renderInput()
	case screenResult:
		return m.resultView.View()
	case screenHistory:
		return m.renderHistory()
	case screenHistoryDetail:
		return m.detailView.View()
	default:
		return ""
	}
}

func (m model) renderInput() string {
	lines := []string{
		"",
		"What are we not deciding today?",
		"",
		m.input.View(),
	}
	if m.pendingGenerate != nil {
		frame := generateSpinnerFrames[m.pendingGenerate.spinnerFrame]
		lines = append(lines, "", fmt.Sprintf("%s generating — one branch at a time...", frame))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderHistory() string {
	if len(m.entries) == 0 {
		return "\nNo history yet. Generate something regrettable first."
	}
	visible := max(3, m.height-6)
	offset := listOffset(m.historyCursor, len(m.entries), visible)
	lines := make([]string, 0, visible)
	for idx := offset; idx < min(len(m.entries), offset+visible); idx++ {
		entry := m.entries[idx]
		line := fmt.Sprintf("  %s  [%s/%s]  %s",
			entry.createdAt.Local().Format("2006-01-02 15:04:05"),
			entry.res.Meta.SourceKind,
			entry.res.Meta.HumorLevel,
			truncateString(oneLine(entry.decision), max(10, m.width-40)))
		if idx == m.historyCursor {
			line = selectedStyle.Render("▸" + line[1:])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	return metaStyle.Render(oneLine(m.status))
}

func (m model) renderHelp() string {
	switch m.screen {
	case screenInput:
		return helpStyle.Render("enter: template path | ctrl+r: remote path | ctrl+h: history | esc: quit")
	case screenResult:
		return helpStyle.Render("j/k: scroll | r: regenerate | s: save | n: new decision | h: history | q: quit")
	case screenHistory:
		return helpStyle.Render("j/k: move | enter: view | x: clear | b: back | q: quit")
	case screenHistoryDetail:
		return helpStyle.Render("j/k: scroll | b: back | q: quit")
	default:
		return ""
	}
}

// renderResultCards renders a result as a stack of styled branch cards.
func renderResultCards(res result, width int) string {
	cardWidth := max(28, min(width, 100))
	wrapWidth := max(20, cardWidth-6)

	sections := []string{
		rootThoughtStyle.Render(wordwrap.String("💭 "+res.RootThought, cardWidth)),
		metaStyle.Render(fmt.Sprintf("humor: %s   absurdity: %s   source: %s",
			res.Meta.HumorLevel, res.Meta.AbsurdityLevel, res.Meta.SourceKind)),
	}

	for _, br := range res.Branches {
		var body strings.Builder
		body.WriteString(cardHeaderStyle.Render(fmt.Sprintf("%s %s", br.Icon, br.DisplayName)))
		body.WriteString(metaStyle.Render("  · " + br.Tone))
		for _, node := range br.Nodes {
			wrapped := wordwrap.String(node.Text, wrapWidth)
			for i, line := range strings.Split(wrapped, "\n") {
				prefix := strings.Repeat("  ", node.Depth)
				if i > 0 {
					prefix += "  "
				}
				body.WriteString("\n" + prefix + depthStyle(node.Depth).Render(line))
			}
		}
		if br.LoopBack {
			body.WriteString("\n" + loopBackStyle.Render("↻ ...and back to the top"))
		}
		sections = append(sections, cardStyle.Width(cardWidth).Render(body.String()))
	}
	return strings.Join(sections, "\n")
}

func depthStyle(depth int) lipgloss.Style {
	switch depth {
	case 2:
		return depth2Style
	case 3:
		return depth3Style
	default:
		return depth1Style
	}
}

func listOffset(cursor, total, visible int) int {
	if total <= visible {
		return 0
	}
	offset := cursor - visible/2
	return clamp(offset, 0, total-visible)
}

func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncateString(text string, width int) string {
	if width <= 3 {
		width = 3
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-3]) + "..."
}

func clamp(value, low, high int) int {
	if high < low {
		return low
	}
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
