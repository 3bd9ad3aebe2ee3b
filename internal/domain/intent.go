package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentNext
	IntentBack
	IntentJump       // jump to a step by number or id
	IntentRepeat     // show the current card again
	IntentDone       // mark the current step complete
	IntentAssign     // assign a pantry item to the current step
	IntentConfirm    // confirm a pending manual assignment
	IntentDeny       // reject a pending manual assignment
	IntentStartTimer // create+start the current step's timer
	IntentDismiss    // dismiss a finished timer
	IntentTimers
	IntentPantry
	IntentProbe
	IntentConnect
	IntentStatus
	IntentRate // rating/notes during finalization
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentNext:
		return "next"
	case IntentBack:
		return "back"
	case IntentJump:
		return "jump"
	case IntentRepeat:
		return "repeat"
	case IntentDone:
		return "done"
	case IntentAssign:
		return "assign"
	case IntentConfirm:
		return "confirm"
	case IntentDeny:
		return "deny"
	case IntentStartTimer:
		return "start_timer"
	case IntentDismiss:
		return "dismiss"
	case IntentTimers:
		return "timers"
	case IntentPantry:
		return "pantry"
	case IntentProbe:
		return "probe"
	case IntentConnect:
		return "connect"
	case IntentStatus:
		return "status"
	case IntentRate:
		return "rate"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // optional context, e.g. the pantry item name for assign
}
