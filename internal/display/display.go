// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent status bar (active timers plus the
// probe readout) and an input prompt at the bottom of the terminal. All
// application output is printed above the rendered area via
// Program.Println / Printf, ensuring concurrent writes never garble the
// display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/sousdeck/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	timerRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	timerDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	timerPendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#71717a")).
				Italic(true)

	probeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	probeAlertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// ── Output styles (soft palette) ──

	// BannerStyle — muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Card — soft mint for step card headers.
	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Primary text — light zinc for instructions.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text — dimmed zinc for hints, tips, metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Urgent — soft coral for errors/alerts.
	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	doneMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#86efac"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// TimerSource supplies the current timer view for the status bar.
// Satisfied by timer.Registry.
type TimerSource interface {
	List() []domain.Timer
}

// ProbeSource supplies the latest probe reading for the status bar.
// Satisfied by probe.Monitor.
type ProbeSource interface {
	Latest() domain.ProbeReading
}

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking).  Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	timers  TimerSource
	probe   ProbeSource
	done    atomic.Bool
}

// NewUI creates the display. Either source may be nil, in which case
// its bar segment is omitted. Call Run() to start.
func NewUI(timers TimerSource, probe ProbeSource) *UI {
	return &UI{
		timers:  timers,
		probe:   probe,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
// The output is printed on its own line (a trailing newline in the
// format string will produce an extra blank line).
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format, a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintCard prints a step card header like "3/8  🍗 Roast the chicken".
func (u *UI) PrintCard(text string) {
	u.Println(cardStyle.Render("  " + text))
}

// PrintInstruction prints the step's main instruction text.
func (u *UI) PrintInstruction(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintDone prints a completion confirmation line.
func (u *UI) PrintDone(text string) {
	u.Println(doneMarkStyle.Render("  ✓ " + text))
}

// PrintUrgent prints an urgent/error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("deck") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop.  Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Use a plain-text prompt so the textinput width math stays correct.
	// Lipgloss-styled prompts add invisible ANSI bytes that break the
	// internal offset/scroll calculations for long input.
	ti.Prompt = "deck> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		timers: u.timers,
		probe:  u.probe,
		input:  ti,

		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn: func(v string) {
			u.PrintUserInput(v)
		},
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	timers  TimerSource
	probe   ProbeSource
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string) // prints user input into scrollback

	bar   []domain.Timer
	read  domain.ProbeReading
	width int
}

// Messages.
type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Return a Cmd that prints the echo — this runs
				// outside Update so it won't deadlock on msgs.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		// Let the text input use the full width minus the prompt ("deck> " = 6 chars).
		const promptLen = 6
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case tickMsg:
		m.refresh()
		cmds := []tea.Cmd{tickCmd()}
		if len(m.bar) > 0 {
			cmds = append(cmds, tea.SetWindowTitle(m.titleStr()))
		} else {
			cmds = append(cmds, tea.SetWindowTitle("SousDeck"))
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh pulls the latest timer view and probe reading. The registry
// keeps its list in creation order, so the bar doesn't shuffle.
func (m *model) refresh() {
	if m.timers != nil {
		m.bar = m.timers.List()
	}
	if m.probe != nil {
		m.read = m.probe.Latest()
	}
}

func (m model) titleStr() string {
	var p []string
	for _, t := range m.bar {
		switch t.Status {
		case domain.TimerDone:
			p = append(p, t.Name+": DONE!")
		case domain.TimerPending:
			p = append(p, t.Name+": waiting")
		default:
			p = append(p, t.Name+": "+fmtSeconds(t.RemainingSeconds))
		}
	}
	return "SousDeck — " + strings.Join(p, " | ")
}

func (m model) View() string {
	var b strings.Builder

	if len(m.bar) > 0 || m.read.Connected {
		b.WriteString(m.renderBar())
		b.WriteByte('\n')
	}

	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	var parts []string

	if m.read.Connected {
		parts = append(parts, m.renderProbe())
	}

	for _, t := range m.bar {
		switch t.Status {
		case domain.TimerDone:
			parts = append(parts, timerDoneStyle.Render(t.Name+": DONE!"))
		case domain.TimerPending:
			parts = append(parts, timerPendingStyle.Render(t.Name+": waiting"))
		default:
			parts = append(parts,
				labelStyle.Render(t.Name+": ")+
					timerRunStyle.Render(fmtSeconds(t.RemainingSeconds)))
		}
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}

// renderProbe formats the probe segment, e.g. "🌡 142°F→165°F ~38m".
func (m model) renderProbe() string {
	s := fmt.Sprintf("🌡 %.0f°F→%.0f°F", m.read.InternalTempF, m.read.TargetTempF)
	if m.read.HasEstimate {
		s += " ~" + fmtSeconds(m.read.RemainingSeconds)
	}
	switch m.read.State {
	case domain.CookStateReadyForResting, domain.CookStateFinished:
		return probeAlertStyle.Render(s + "  " + strings.ToUpper(strings.ReplaceAll(string(m.read.State), "_", " ")))
	default:
		return probeStyle.Render(s)
	}
}

// ── Helpers ──────────────────────────────────────────────────────

func fmtSeconds(secs int) string {
	if secs < 0 {
		secs = 0
	}
	m := secs / 60
	s := secs % 60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
