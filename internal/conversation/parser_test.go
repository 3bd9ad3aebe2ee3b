package conversation

import (
	"testing"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		// Navigation
		{"next", domain.IntentNext, ""},
		{"n", domain.IntentNext, ""},
		{"back", domain.IntentBack, ""},
		{"prev", domain.IntentBack, ""},
		{"jump 3", domain.IntentJump, "3"},
		{"goto cook-roast", domain.IntentJump, "cook-roast"},
		{"5", domain.IntentJump, "5"},

		// Step card
		{"repeat", domain.IntentRepeat, ""},
		{"again", domain.IntentRepeat, ""},
		{"done", domain.IntentDone, ""},
		{"finished", domain.IntentDone, ""},

		// Ingredient assignment
		{"assign chicken breast", domain.IntentAssign, "chicken breast"},
		{"use thyme", domain.IntentAssign, "thyme"},
		{"grab unsalted butter", domain.IntentAssign, "unsalted butter"},
		{"yes", domain.IntentConfirm, ""},
		{"y", domain.IntentConfirm, ""},
		{"no", domain.IntentDeny, ""},

		// Timers
		{"timer", domain.IntentStartTimer, ""},
		{"ready", domain.IntentStartTimer, ""},
		{"dismiss", domain.IntentDismiss, ""},
		{"ok", domain.IntentDismiss, ""},
		{"timers", domain.IntentTimers, ""},

		// Pantry and probe
		{"pantry", domain.IntentPantry, ""},
		{"inventory", domain.IntentPantry, ""},
		{"probe", domain.IntentProbe, ""},
		{"temp", domain.IntentProbe, ""},
		{"connect", domain.IntentConnect, ""},

		// Session
		{"status", domain.IntentStatus, ""},
		{"where", domain.IntentStatus, ""},
		{"rate 5", domain.IntentRate, "5"},
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},
		{"quit", domain.IntentQuit, ""},
		{"q", domain.IntentQuit, ""},

		// Unknown
		{"flambé the cat", domain.IntentUnknown, "flambé the cat"},
		{"", domain.IntentUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent := parser.Parse(tt.input)
			if intent.Type != tt.wantType {
				t.Errorf("input=%q: got type %s, want %s", tt.input, intent.Type, tt.wantType)
			}
			if tt.wantPayload != "" && intent.Payload != tt.wantPayload {
				t.Errorf("input=%q: got payload %q, want %q", tt.input, intent.Payload, tt.wantPayload)
			}
		})
	}
}

func TestParseIsCaseInsensitive(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)

	if got := parser.Parse("NEXT"); got.Type != domain.IntentNext {
		t.Errorf("NEXT parsed as %s", got.Type)
	}
	if got := parser.Parse("Assign Honey"); got.Type != domain.IntentAssign || got.Payload != "Honey" {
		t.Errorf("Assign Honey parsed as %s %q", got.Type, got.Payload)
	}
}
