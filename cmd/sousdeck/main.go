// SousDeck — a terminal cooking-session orchestrator.
//
// Usage:
//
//	sousdeck [-verbose] [-quiet] [-config sousdeck.toml]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/sousdeck/internal/alert"
	"github.com/hammamikhairi/sousdeck/internal/catalog"
	"github.com/hammamikhairi/sousdeck/internal/config"
	"github.com/hammamikhairi/sousdeck/internal/conversation"
	"github.com/hammamikhairi/sousdeck/internal/display"
	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
	"github.com/hammamikhairi/sousdeck/internal/meal"
	"github.com/hammamikhairi/sousdeck/internal/metrics"
	"github.com/hammamikhairi/sousdeck/internal/pantry"
	"github.com/hammamikhairi/sousdeck/internal/probe"
	"github.com/hammamikhairi/sousdeck/internal/service/localtimer"
	"github.com/hammamikhairi/sousdeck/internal/service/probehttp"
	"github.com/hammamikhairi/sousdeck/internal/service/probesim"
	"github.com/hammamikhairi/sousdeck/internal/service/timerhttp"
	"github.com/hammamikhairi/sousdeck/internal/session"
	"github.com/hammamikhairi/sousdeck/internal/storage"
	"github.com/hammamikhairi/sousdeck/internal/timer"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".sousdeck/sousdeck.log", "file to write logs to (use \"stderr\" to log to console)")
	configPath := flag.String("config", "sousdeck.toml", "path to the TOML config file")
	hubURL := flag.String("hub-url", "", "kitchen-hub base URL (overrides config, implies hub mode)")
	noSound := flag.Bool("no-sound", false, "disable audio chimes")
	metricsAddr := flag.String("metrics", "", "prometheus listen address, e.g. :2112 (overrides config)")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package to the same output so
	// third-party libraries don't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *hubURL != "" {
		cfg.Services.Mode = config.ModeHub
		cfg.Services.HubURL = *hubURL
	}
	if tok := os.Getenv("SOUSDECK_HUB_TOKEN"); tok != "" {
		cfg.Services.HubToken = tok
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				log.Error("metrics listener: %v", err)
			}
		}()
		log.Info("metrics exposed on %s/metrics", cfg.Metrics.Addr)
	}

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage backs both the pantry and the meal log.
	if dir := filepath.Dir(cfg.Storage.Path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	store, err := storage.Open(ctx, cfg.Storage.Path, log.Named("storage"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: opening storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Seed(ctx, catalog.PantrySeed()); err != nil {
		log.Error("seeding pantry: %v", err)
	}

	// Pick the timer and probe backends.
	var timerSvc domain.TimerService
	var probeSvc domain.ProbeService
	switch cfg.Services.Mode {
	case config.ModeHub:
		timerSvc = timerhttp.New(cfg.Services.HubURL, log.Named("timerhttp"),
			timerhttp.WithToken(cfg.Services.HubToken))
		probeSvc = probehttp.New(cfg.Services.HubURL, log.Named("probehttp"))
		log.Info("using kitchen hub at %s", cfg.Services.HubURL)
	default:
		timerSvc = localtimer.New(log.Named("localtimer"))
		probeSvc = probesim.New(log.Named("probesim"))
		log.Info("using local timer service and simulated probe")
	}

	// Audio chimes are best-effort: a missing audio device degrades to
	// terminal-only notifications.
	var chimer *alert.Chimer
	if !*noSound {
		chimer, err = alert.NewChimer(log.Named("alert"))
		if err != nil {
			log.Error("audio init failed, chimes disabled: %v", err)
			chimer = nil
		}
	}
	chime := func(urgent bool) {
		if chimer == nil {
			return
		}
		go func() {
			if urgent {
				chimer.UrgentChime()
			} else {
				chimer.Chime()
			}
		}()
	}

	// Wire the session. The notifier needs the UI's print function and
	// the poll loops need the notifier, so the callbacks close over the
	// app struct and everything is assigned before the loops start.
	app := &cliApp{
		log:    log,
		dishes: catalog.Dishes(),
	}

	app.progress = session.NewProgress(log.Named("progress"), func() {
		app.onAllComplete(ctx)
	})
	app.tracker = pantry.NewTracker(store, app.progress, log.Named("tracker"))
	app.finalizer = meal.NewFinalizer(store, log.Named("finalizer"),
		meal.WithMealName(catalog.MealName))

	app.deck = catalog.BuildDeck(0)
	app.nav = session.NewNavigator(app.deck, log.Named("navigator"))

	app.registry = timer.New(timerSvc, log.Named("registry"),
		timer.WithPollInterval(cfg.Poll.TimerInterval()),
		timer.WithOnFinished(func(t domain.Timer) {
			app.notifier.NotifyUrgent(ctx, fmt.Sprintf("⏰ %s — time's up! ('dismiss' to clear)", t.Name))
		}),
	)
	app.monitor = probe.New(probeSvc, log.Named("monitor"),
		probe.WithPollInterval(cfg.Poll.ProbeInterval()),
		probe.WithOnEstimate(func(secs int) {
			app.onEstimate(secs)
		}),
		probe.WithOnAlert(func(state domain.CookState) {
			app.onProbeAlert(ctx, state)
		}),
	)

	app.ui = display.NewUI(app.registry, app.monitor)
	app.notifier = conversation.NewCLINotifier(log, app.ui.Printf, chime)
	app.parser = conversation.NewKeywordParser(log)

	// The two poll loops run on independent cadences; the probe monitor
	// starts only after the user pairs the probe ('connect').
	app.registry.Run(ctx)
	defer app.registry.Close()
	defer app.monitor.Close()

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  " + catalog.MealName))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		app.ui.WaitReady()
		app.run(ctx)
		app.ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := app.ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	app.tracker.Flush()
}

type cliApp struct {
	log       *logger.Logger
	ui        *display.UI
	parser    *conversation.KeywordParser
	notifier  domain.Notifier
	registry  *timer.Registry
	monitor   *probe.Monitor
	tracker   *pantry.Tracker
	progress  *session.Progress
	finalizer *meal.Finalizer
	dishes    []domain.Dish

	mu        sync.Mutex // guards deck, nav, and the flags below
	deck      []domain.Step
	nav       *session.Navigator
	pending   *pendingAssign
	connected bool
	rated     bool
}

// pendingAssign is a manual assignment awaiting yes/no confirmation.
type pendingAssign struct {
	item   domain.PantryItem
	stepID string
	grams  float64
}

// onEstimate rebuilds the deck with the probe's new remaining-time
// estimate. Completion and position survive the rebuild because both
// are keyed by step id, never by index.
func (a *cliApp) onEstimate(secs int) {
	a.mu.Lock()
	a.deck = catalog.BuildDeck(secs)
	a.nav.Rebind(a.deck)
	a.mu.Unlock()

	metrics.RecordDeckRebuild()
	a.ui.PrintHint(fmt.Sprintf("probe: roast updated to ~%s", fmtMinutes(secs)))
}

func (a *cliApp) onProbeAlert(ctx context.Context, state domain.CookState) {
	switch state {
	case domain.CookStateReadyForResting:
		a.notifier.NotifyUrgent(ctx, "🌡 The chicken is ready to come out — carryover will finish it. Start the rest!")
	case domain.CookStateFinished:
		a.notifier.NotifyUrgent(ctx, "🌡 The chicken has hit its target temperature.")
	}
}

func (a *cliApp) onAllComplete(ctx context.Context) {
	a.notifier.Notify(ctx, "🎉 Every step is done! Rate the meal with 'rate 1'..'rate 5' to log it.")
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintHint("Tonight's deck:")
	a.showStatus()
	a.ui.Println("")
	a.showCard()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-a.ui.InputChan():
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent := a.parser.Parse(input)
		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent domain.Intent) {
	switch intent.Type {
	case domain.IntentNext:
		a.move(1)
	case domain.IntentBack:
		a.move(-1)
	case domain.IntentJump:
		a.jump(intent.Payload)
	case domain.IntentRepeat:
		a.showCard()
	case domain.IntentDone:
		a.completeCurrent()
	case domain.IntentAssign:
		a.assign(ctx, intent.Payload)
	case domain.IntentConfirm:
		a.confirmAssign(ctx)
	case domain.IntentDeny:
		a.denyAssign()
	case domain.IntentStartTimer:
		a.startTimer(ctx)
	case domain.IntentDismiss:
		a.dismissTimers(ctx)
	case domain.IntentTimers:
		a.showTimers()
	case domain.IntentPantry:
		a.showPantry(ctx)
	case domain.IntentProbe:
		a.showProbe()
	case domain.IntentConnect:
		a.connectProbe(ctx)
	case domain.IntentStatus:
		a.showStatus()
	case domain.IntentRate:
		a.rate(ctx, intent.Payload)
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentQuit:
		a.ui.Quit()
	case domain.IntentUnknown:
		a.ui.PrintHint(fmt.Sprintf("Didn't catch %q — type 'help' for commands.", intent.Payload))
	}
}

// snapshot returns the current deck and step under the lock.
func (a *cliApp) snapshot() ([]domain.Step, domain.Step) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deck, a.nav.Current()
}

func (a *cliApp) move(delta int) {
	a.mu.Lock()
	a.nav.MoveBy(delta)
	a.mu.Unlock()
	a.showCard()
}

func (a *cliApp) jump(payload string) {
	a.mu.Lock()
	if n, err := strconv.Atoi(payload); err == nil {
		if n >= 1 && n <= len(a.deck) {
			a.nav.JumpToID(a.deck[n-1].ID)
		}
	} else {
		a.nav.JumpToID(payload) // unknown ids are a silent no-op
	}
	a.mu.Unlock()
	a.showCard()
}

func (a *cliApp) showCard() {
	a.mu.Lock()
	deck := a.deck
	step := a.nav.Current()
	idx := a.nav.Index()
	a.mu.Unlock()

	header := fmt.Sprintf("%d/%d  %s", idx+1, len(deck), step.TimerName())
	if step.DurationSeconds > 0 {
		header += fmt.Sprintf(" (~%s)", fmtMinutes(step.DurationSeconds))
	}
	a.ui.PrintCard(header)
	a.ui.PrintInstruction(step.Instruction)

	for _, req := range step.Ingredients {
		mark := "·"
		if req.Required {
			mark = "→"
		}
		a.ui.PrintHint(fmt.Sprintf("%s %s (%s)", mark, req.Name, req.DisplayAmount))
	}

	if step.ID == catalog.ProbeStepID {
		if a.monitor.Latest().Connected {
			a.ui.PrintHint("duration driven by the probe estimate")
		} else {
			a.ui.PrintHint("probe not paired — using the fallback duration ('connect' to pair)")
		}
	}
	if step.DurationSeconds > 0 {
		if _, running := a.registry.FindByName(step.TimerName()); !running {
			a.ui.PrintHint("type 'timer' to start this step's countdown")
		}
	}
	if a.progress.IsComplete(step.ID) {
		a.ui.PrintDone("already done")
	}
}

func (a *cliApp) completeCurrent() {
	deck, step := a.snapshot()
	if a.tracker.CompleteStep(step.ID, deck) {
		a.ui.PrintDone(step.Name)
	} else {
		a.ui.PrintHint("Already marked done.")
	}
}

// assign resolves the named pantry item and either auto-matches it to
// one of the current step's requirements or asks for confirmation.
func (a *cliApp) assign(ctx context.Context, name string) {
	if name == "" {
		a.ui.PrintHint("Usage: assign <pantry item>, e.g. 'assign butter'.")
		return
	}

	items, err := a.tracker.Inventory(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading pantry: %v", err))
		return
	}

	var item domain.PantryItem
	found := false
	lower := strings.ToLower(name)
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), lower) {
			item, found = it, true
			break
		}
	}
	if !found {
		a.ui.PrintHint(fmt.Sprintf("Nothing in the pantry matches %q.", name))
		return
	}

	deck, step := a.snapshot()

	if req, ok := pantry.AutoMatch(item, step); ok {
		a.tracker.Assign(ctx, step.ID, item, req.AmountGrams, deck)
		a.ui.PrintDone(fmt.Sprintf("%s → %s (%s)", item.Name, req.Name, req.DisplayAmount))
		return
	}

	if len(step.Ingredients) == 0 {
		a.ui.PrintHint("This step doesn't take ingredients.")
		return
	}

	// No automatic match: fall back to explicit confirmation against
	// the step's first required ingredient (or first of any, when none
	// are required).
	reqs := step.RequiredIngredients()
	if len(reqs) == 0 {
		reqs = step.Ingredients
	}
	req := reqs[0]
	a.mu.Lock()
	a.pending = &pendingAssign{item: item, stepID: step.ID, grams: req.AmountGrams}
	a.mu.Unlock()
	a.ui.PrintHint(fmt.Sprintf("%q doesn't obviously match %q — use it anyway? (yes/no)", item.Name, req.Name))
}

func (a *cliApp) confirmAssign(ctx context.Context) {
	a.mu.Lock()
	p := a.pending
	a.pending = nil
	a.mu.Unlock()

	if p == nil {
		a.ui.PrintHint("Nothing awaiting confirmation.")
		return
	}

	deck, _ := a.snapshot()
	a.tracker.Assign(ctx, p.stepID, p.item, p.grams, deck)
	a.ui.PrintDone(fmt.Sprintf("%s assigned (%.0f g)", p.item.Name, p.grams))
}

func (a *cliApp) denyAssign() {
	a.mu.Lock()
	had := a.pending != nil
	a.pending = nil
	a.mu.Unlock()

	if had {
		a.ui.PrintHint("Okay, not using it.")
	} else {
		a.ui.PrintHint("Nothing awaiting confirmation.")
	}
}

func (a *cliApp) startTimer(ctx context.Context) {
	_, step := a.snapshot()
	if step.DurationSeconds <= 0 {
		a.ui.PrintHint("This step has no countdown.")
		return
	}
	if t, ok := a.registry.FindByName(step.TimerName()); ok && t.Status == domain.TimerRunning {
		a.ui.PrintHint("That timer is already running.")
		return
	}

	id, err := a.registry.Create(ctx, step.TimerName(), step.DurationSeconds)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error creating timer: %v", err))
		return
	}
	if err := a.registry.Start(ctx, id); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error starting timer: %v", err))
		return
	}
	a.ui.PrintDone(fmt.Sprintf("%s — %s on the clock", step.TimerName(), fmtMinutes(step.DurationSeconds)))
}

func (a *cliApp) dismissTimers(ctx context.Context) {
	dismissed := 0
	for _, t := range a.registry.List() {
		if t.Status != domain.TimerDone {
			continue
		}
		if err := a.registry.Stop(ctx, t.ID); err != nil {
			a.log.Error("dismiss timer %s: %v", t.ID, err)
			continue
		}
		dismissed++
	}
	if dismissed == 0 {
		a.ui.PrintHint("No finished timers to dismiss.")
		return
	}
	a.ui.PrintDone(fmt.Sprintf("%d timer(s) dismissed", dismissed))
}

func (a *cliApp) showTimers() {
	timers := a.registry.List()
	if len(timers) == 0 {
		a.ui.PrintHint("No timers yet — 'timer' starts the current step's countdown.")
		return
	}
	for _, t := range timers {
		switch t.Status {
		case domain.TimerDone:
			a.ui.PrintUrgent(fmt.Sprintf("%s — DONE", t.Name))
		case domain.TimerPending:
			a.ui.PrintHint(fmt.Sprintf("%s — waiting to start", t.Name))
		default:
			a.ui.PrintInstruction(fmt.Sprintf("%s — %s remaining", t.Name, fmtMinutes(t.RemainingSeconds)))
		}
	}
}

func (a *cliApp) showPantry(ctx context.Context) {
	items, err := a.tracker.Inventory(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading pantry: %v", err))
		return
	}
	a.ui.PrintCard("Pantry:")
	for _, it := range items {
		a.ui.PrintInstruction(fmt.Sprintf("%-32s %6.0f g", it.Name, it.CurrentWeightGrams))
	}
}

func (a *cliApp) showProbe() {
	r := a.monitor.Latest()
	if !r.Connected {
		a.ui.PrintHint("Probe not paired — type 'connect'.")
		return
	}
	a.ui.PrintCard("Probe:")
	a.ui.PrintInstruction(fmt.Sprintf("internal %.0f°F / target %.0f°F", r.InternalTempF, r.TargetTempF))
	if r.HasEstimate {
		a.ui.PrintInstruction(fmt.Sprintf("~%s remaining", fmtMinutes(r.RemainingSeconds)))
	}
	a.ui.PrintHint("state: " + string(r.State))
}

func (a *cliApp) connectProbe(ctx context.Context) {
	a.mu.Lock()
	already := a.connected
	a.mu.Unlock()
	if already {
		a.ui.PrintHint("Probe already paired.")
		return
	}

	if err := a.monitor.Connect(ctx); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error pairing probe: %v", err))
		return
	}

	a.mu.Lock()
	a.connected = true
	a.mu.Unlock()

	a.monitor.Run(ctx)
	a.ui.PrintDone("Probe paired — the roast card now follows its estimate.")
}

func (a *cliApp) showStatus() {
	a.mu.Lock()
	deck := a.deck
	idx := a.nav.Index()
	a.mu.Unlock()

	a.ui.PrintCard(fmt.Sprintf("%s — step %d/%d, %d done",
		catalog.MealName, idx+1, len(deck), a.progress.CompletedCount()))
	for i, s := range deck {
		mark := " "
		if a.progress.IsComplete(s.ID) {
			mark = "✓"
		}
		cursor := "  "
		if i == idx {
			cursor = "▸ "
		}
		a.ui.PrintHint(fmt.Sprintf("%s%s %2d. %s", cursor, mark, i+1, s.TimerName()))
	}
}

// rate logs the finished meal. One submission attempt; an error is
// shown and the user may simply try again.
func (a *cliApp) rate(ctx context.Context, payload string) {
	a.mu.Lock()
	deck := a.deck
	rated := a.rated
	a.mu.Unlock()

	if rated {
		a.ui.PrintHint("The meal is already logged. Goodnight, chef.")
		return
	}
	if !a.progress.AllComplete(deck) {
		a.ui.PrintHint("Finish every step before logging the meal ('status' shows what's left).")
		return
	}

	rating, err := strconv.Atoi(payload)
	if err != nil || rating < 1 || rating > 5 {
		a.ui.PrintHint("Rating must be 1-5, e.g. 'rate 4'.")
		return
	}

	// Make sure pending deductions land before the record is built.
	a.tracker.Flush()

	record, result, err := a.finalizer.Finalize(ctx, deck, a.progress, a.dishes, rating, "")
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Couldn't log the meal: %v", err))
		return
	}

	a.mu.Lock()
	a.rated = true
	a.mu.Unlock()

	a.ui.PrintCard(fmt.Sprintf("%s logged — %d★", record.Name, rating))
	for _, d := range record.Dishes {
		a.ui.PrintInstruction(fmt.Sprintf("%-24s %4.0f kcal  (%d ingredients tracked)",
			d.Name, d.Nutrition.Calories, len(d.Ingredients)))
	}
	a.ui.PrintHint(fmt.Sprintf("total: %.0f kcal · %.0f g protein · %.0f g carbs · %.0f g fat",
		result.NutritionAdded.Calories, result.NutritionAdded.ProteinG,
		result.NutritionAdded.CarbsG, result.NutritionAdded.FatG))
}

func (a *cliApp) showHelp() {
	a.ui.PrintCard("Commands:")
	a.ui.PrintInstruction("  next / back      Move through the step deck")
	a.ui.PrintInstruction("  jump N           Jump to card N (bare numbers work too)")
	a.ui.PrintInstruction("  repeat           Show the current card again")
	a.ui.PrintInstruction("  done             Mark the current step complete")
	a.ui.PrintInstruction("  assign <item>    Use a pantry item on the current step")
	a.ui.PrintInstruction("  yes / no         Answer an assignment confirmation")
	a.ui.PrintInstruction("  timer / ready    Start the current step's countdown")
	a.ui.PrintInstruction("  dismiss / ok     Clear finished timers")
	a.ui.PrintInstruction("  timers           List active timers")
	a.ui.PrintInstruction("  pantry           Show pantry inventory")
	a.ui.PrintInstruction("  connect          Pair the temperature probe")
	a.ui.PrintInstruction("  probe / temp     Show the latest probe reading")
	a.ui.PrintInstruction("  status           Show deck progress")
	a.ui.PrintInstruction("  rate 1..5        Log the finished meal")
	a.ui.PrintInstruction("  help             Show this message")
	a.ui.PrintInstruction("  quit             Exit")
}

func fmtMinutes(secs int) string {
	if secs < 0 {
		secs = 0
	}
	m := secs / 60
	s := secs % 60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
