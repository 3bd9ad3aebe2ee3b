package domain

import "context"

// TimerService owns server-side countdown timers. The registry never
// ticks locally; it polls ListTimers and replaces its view wholesale.
// Implementations can be an HTTP gateway client or in-process.
type TimerService interface {
	CreateTimer(ctx context.Context, name string, durationSeconds int) (string, error)
	StartTimer(ctx context.Context, id string) error
	StopTimer(ctx context.Context, id string) error
	ListTimers(ctx context.Context) ([]Timer, error)
}

// ProbeService exposes the wireless temperature probe. Connect is a
// one-shot user-initiated pairing, distinct from the recurring Status
// poll.
type ProbeService interface {
	Connect(ctx context.Context) error
	Status(ctx context.Context) (ProbeReading, error)
}

// PantryService lists inventory and records consumption. Deduct is
// fire-and-forget from the caller's perspective: a failure never rolls
// back session state.
type PantryService interface {
	ListInventory(ctx context.Context) ([]PantryItem, error)
	Deduct(ctx context.Context, inventoryID string, amountGrams float64) error
}

// MealLogService persists a finished meal. No retry on failure; the
// error is surfaced to the caller.
type MealLogService interface {
	CompleteMeal(ctx context.Context, record MealRecord) (MealResult, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, the status UI, or play an audio chime alongside.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
