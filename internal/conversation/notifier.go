package conversation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

var (
	notifyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Bold(true)

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes notifications to the terminal. Timer and probe
// alerts arrive from background goroutines, so the print function must
// be safe for concurrent use (display.UI.Printf is).
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	chime   func(urgent bool) // optional audio hook, nil when sound is off
}

// NewCLINotifier creates a terminal notifier. If printFn is nil,
// fmt.Printf is used. chime may be nil.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc, chime func(urgent bool)) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn, chime: chime}
}

// Notify prints a normal notification and plays the standard chime.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s", notifyStyle.Render(message))
	if n.chime != nil {
		n.chime(false)
	}
	return nil
}

// NotifyUrgent prints an alert and plays the urgent chime. Used for
// probe state transitions that need immediate attention.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s", urgentStyle.Render(message))
	if n.chime != nil {
		n.chime(true)
	}
	return nil
}
