// Package conversation provides intent parsing and user notification
// for the terminal session.
package conversation

import (
	"regexp"
	"strings"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

// KeywordParser matches user input to intents using keywords and simple
// patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	// payload extracts the intent payload from the regex submatches,
	// nil when the intent carries none.
	payload func(matches []string) string
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	lastGroup := func(m []string) string { return strings.TrimSpace(m[len(m)-1]) }

	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(next|n|forward)$`), domain.IntentNext, nil},
		{regexp.MustCompile(`(?i)^(back|b|previous|prev)$`), domain.IntentBack, nil},
		{regexp.MustCompile(`(?i)^(jump|go|goto)\s+(\S+)$`), domain.IntentJump, lastGroup},
		{regexp.MustCompile(`(?i)^(repeat|again|r|show)$`), domain.IntentRepeat, nil},
		{regexp.MustCompile(`(?i)^(done|finished|complete|check)$`), domain.IntentDone, nil},
		{regexp.MustCompile(`(?i)^(assign|use|grab|add)\s+(.+)$`), domain.IntentAssign, lastGroup},
		{regexp.MustCompile(`(?i)^(yes|y|yeah|yep|confirm)$`), domain.IntentConfirm, nil},
		{regexp.MustCompile(`(?i)^(no|nope|cancel)$`), domain.IntentDeny, nil},
		{regexp.MustCompile(`(?i)^(timer|start timer|ready)$`), domain.IntentStartTimer, nil},
		{regexp.MustCompile(`(?i)^(dismiss|ok|got it)$`), domain.IntentDismiss, nil},
		{regexp.MustCompile(`(?i)^(timers|t)$`), domain.IntentTimers, nil},
		{regexp.MustCompile(`(?i)^(pantry|inventory|stock)$`), domain.IntentPantry, nil},
		{regexp.MustCompile(`(?i)^(probe|temp|temperature)$`), domain.IntentProbe, nil},
		{regexp.MustCompile(`(?i)^(connect|pair)$`), domain.IntentConnect, nil},
		{regexp.MustCompile(`(?i)^(status|where|progress|info)$`), domain.IntentStatus, nil},
		{regexp.MustCompile(`(?i)^(rate|stars?)\s+(\d)$`), domain.IntentRate, lastGroup},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp, nil},
		{regexp.MustCompile(`(?i)^(quit|exit|q)$`), domain.IntentQuit, nil},
	}
	return p
}

// Parse converts user input into an intent. Unrecognized input comes
// back as IntentUnknown with the raw text as payload.
func (p *KeywordParser) Parse(input string) domain.Intent {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return domain.Intent{Type: domain.IntentUnknown}
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number jumps to that card.
	if len(trimmed) <= 2 && isDigits(trimmed) {
		return domain.Intent{Type: domain.IntentJump, Payload: trimmed}
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := domain.Intent{Type: rule.intent}
		if rule.payload != nil {
			intent.Payload = rule.payload(m)
		}
		return intent
	}

	p.log.Debug("no match, returning unknown intent")
	return domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
