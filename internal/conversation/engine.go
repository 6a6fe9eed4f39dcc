// Package conversation owns the chat session state machine: the append-only
// message log, turn order, pacing timers, moderation gating, and the refocus
// protocol. Completion calls are the only suspending operations; everything
// else is synchronous under one mutex.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rflkt/warriorchat/internal/completion"
	"github.com/rflkt/warriorchat/internal/moderation"
	"github.com/rflkt/warriorchat/internal/observability"
	"github.com/rflkt/warriorchat/internal/persona"
	"github.com/rflkt/warriorchat/internal/prompt"
	"github.com/rflkt/warriorchat/internal/provider"
	"github.com/rflkt/warriorchat/internal/sanitize"
)

// Mode selects the session variant.
type Mode string

const (
	ModeWarriors Mode = "warriors"
	ModePhrase   Mode = "phrase"
)

// Context windows per turn kind, counted in messages from the end of the log.
const (
	continueWindow = 6
	sendWindow     = 10
	refocusWindow  = 4
)

// apologyText replaces a persona's message when its completion call fails.
// Failed turns are never skipped silently.
const apologyText = "I apologize, but I am unable to respond at the moment."

// ErrBusy is returned when an operation arrives while a completion is in
// flight. Callers must not queue and retry; the next turn is the retry.
var ErrBusy = errors.New("a response is already in progress")

// Timing controls the session's pacing. Zero fields take the nominal
// defaults; tests inject near-zero values.
type Timing struct {
	ContinueMin time.Duration // auto-continuation interval lower bound
	ContinueMax time.Duration
	ThinkMin    time.Duration // per-turn "thinking" delay lower bound
	ThinkMax    time.Duration
	RefocusGap  time.Duration // pacing between refocus turns
}

func (t Timing) withDefaults() Timing {
	if t.ContinueMin == 0 && t.ContinueMax == 0 {
		t.ContinueMin = 8 * time.Second
		t.ContinueMax = 12 * time.Second
	}
	if t.ThinkMin == 0 && t.ThinkMax == 0 {
		t.ThinkMin = 2 * time.Second
		t.ThinkMax = 4 * time.Second
	}
	if t.RefocusGap == 0 {
		t.RefocusGap = 1500 * time.Millisecond
	}
	return t
}

// Dialer creates a completion client for one call. Injectable for tests.
type Dialer func(completion.Config) (completion.Client, error)

// Options configures a session.
type Options struct {
	Mode        Mode
	Warriors    []string // warrior IDs, listed order; 2-5 in warrior mode
	PhraseKey   string   // phrase mode only
	Topic       string   // required in warrior mode, forbidden in phrase mode
	Providers   provider.Source
	Dial        Dialer // defaults to completion.NewClient
	Timing      Timing
	Logger      *slog.Logger
	TemplateDir string // optional YAML prompt template directory
}

// Engine is the conversation orchestrator. All exported methods are safe for
// concurrent use; internally the session is single-flight, with at most one
// completion call in flight.
type Engine struct {
	mode      Mode
	topic     string
	warriors  []persona.Warrior
	phrase    persona.Phrase
	names     map[string]string // speaker ID -> display name
	sysPrompt map[string]string // speaker ID -> precomputed system prompt

	providers provider.Source
	dial      Dialer
	timing    Timing
	log       *slog.Logger
	tracer    trace.Tracer

	mu         sync.Mutex
	messages   []Message
	next       int // round-robin cursor into warriors
	paused     bool
	processing bool
	typing     string
	refocusing bool
	started    bool
	closed     bool
	timer      *time.Timer

	events chan Event
	done   chan struct{}
}

// New validates options and builds a session. Preconditions are re-checked
// here even though the selection UI enforces them: violations fail fast, they
// are never clamped.
func New(opts Options) (*Engine, error) {
	if opts.Providers == nil {
		return nil, errors.New("conversation: provider source is required")
	}

	e := &Engine{
		mode:      opts.Mode,
		topic:     strings.TrimSpace(opts.Topic),
		names:     make(map[string]string),
		sysPrompt: make(map[string]string),
		providers: opts.Providers,
		dial:      opts.Dial,
		timing:    opts.Timing.withDefaults(),
		log:       opts.Logger,
		tracer:    otel.Tracer("warriorchat/conversation"),
		events:    make(chan Event, 128),
		done:      make(chan struct{}),
	}
	if e.dial == nil {
		e.dial = func(cfg completion.Config) (completion.Client, error) {
			return completion.NewClient(cfg)
		}
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}

	switch opts.Mode {
	case ModeWarriors:
		if n := len(opts.Warriors); n < 2 || n > 5 {
			return nil, fmt.Errorf("conversation: warrior mode needs 2-5 warriors, got %d", n)
		}
		if e.topic == "" {
			return nil, errors.New("conversation: warrior mode needs a discussion topic")
		}
		seen := make(map[string]bool, len(opts.Warriors))
		for _, id := range opts.Warriors {
			if seen[id] {
				return nil, fmt.Errorf("conversation: duplicate warrior %q", id)
			}
			seen[id] = true
			w, ok := persona.FindWarrior(id)
			if !ok {
				return nil, fmt.Errorf("conversation: unknown warrior %q", id)
			}
			e.warriors = append(e.warriors, w)
			e.names[w.ID] = w.Name
			if opts.TemplateDir != "" {
				e.sysPrompt[w.ID] = prompt.WarriorSystemFromTemplates(opts.TemplateDir, w, e.topic)
			} else {
				e.sysPrompt[w.ID] = prompt.WarriorSystem(w, e.topic)
			}
		}

	case ModePhrase:
		if opts.PhraseKey == "" {
			return nil, errors.New("conversation: phrase mode needs a phrase key")
		}
		if e.topic != "" {
			return nil, errors.New("conversation: phrase mode does not take a topic")
		}
		// Unknown keys are allowed: the prompt builder has a generic
		// fallback and the registry miss is non-fatal.
		if p, ok := persona.FindPhrase(opts.PhraseKey); ok {
			e.phrase = p
		} else {
			e.phrase = persona.Phrase{ID: opts.PhraseKey, Phrase: opts.PhraseKey}
		}
		e.names[SpeakerPhrase] = e.phrase.Phrase
		e.sysPrompt[SpeakerPhrase] = prompt.PhraseSystem(opts.PhraseKey, "")

	default:
		return nil, fmt.Errorf("conversation: unknown mode %q", opts.Mode)
	}

	return e, nil
}

// Events delivers state changes to the UI. The channel is never closed;
// consumers stop reading after Close.
func (e *Engine) Events() <-chan Event { return e.events }

// Messages returns a snapshot of the log.
func (e *Engine) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}

// Paused reports whether auto-continuation is suspended.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Mode returns the session variant.
func (e *Engine) Mode() Mode { return e.mode }

// Topic returns the discussion topic ("" in phrase mode).
func (e *Engine) Topic() string { return e.topic }

// ActiveWarriors returns the session's warriors in listed order.
func (e *Engine) ActiveWarriors() []persona.Warrior {
	out := make([]persona.Warrior, len(e.warriors))
	copy(out, e.warriors)
	return out
}

// DisplayName resolves a speaker ID to its display name.
func (e *Engine) DisplayName(speaker string) (string, bool) {
	name, ok := e.names[speaker]
	return name, ok
}

// Start emits the welcome message and kicks off the first turn: warrior mode
// asks the first listed warrior to open the discussion, phrase mode runs the
// single-shot phrase introduction. Start returns once the welcome message is
// appended; the opening turn completes asynchronously.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errors.New("conversation: session closed")
	}
	if e.started {
		e.mu.Unlock()
		return errors.New("conversation: session already started")
	}
	e.started = true
	e.mu.Unlock()

	switch e.mode {
	case ModeWarriors:
		e.append(newMessage(SpeakerSystem, fmt.Sprintf("Welcome! Today's discussion topic: %q", e.topic)))
		opener := e.warriors[0].ID
		if !e.reserve(opener) {
			return nil
		}
		go func() {
			if e.runReserved(ctx, opener, continueWindow, true) {
				e.mu.Lock()
				e.next = 1 % len(e.warriors)
				e.mu.Unlock()
			}
		}()

	case ModePhrase:
		e.append(newMessage(SpeakerSystem, fmt.Sprintf("Welcome! Today's phrase: %q", e.phrase.Phrase)))
		if !e.reserve(SpeakerPhrase) {
			return nil
		}
		go e.runIntroReserved(ctx)
	}

	return nil
}

// Send appends a user message and triggers one persona response. Empty input
// is rejected before any state mutation, and a send while a completion is in
// flight returns ErrBusy without touching the log. A moderation trip appends
// the crisis resources message, pauses the session, and produces no persona
// turn; Resume lifts the pause.
func (e *Engine) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("conversation: empty message")
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errors.New("conversation: session closed")
	}
	if e.processing || e.refocusing {
		e.mu.Unlock()
		return ErrBusy
	}

	if moderation.IsConcerning(text) {
		userMsg := newMessage(SpeakerUser, text)
		crisisMsg := newMessage(SpeakerSystem, moderation.CrisisResources)
		e.messages = append(e.messages, userMsg, crisisMsg)
		e.paused = true
		e.mu.Unlock()

		e.log.Warn("moderation gate tripped; session paused")
		e.emit(Event{Kind: EventMessage, Message: userMsg})
		e.emit(Event{Kind: EventMessage, Message: crisisMsg})
		e.emit(Event{Kind: EventPause, Paused: true})
		e.emit(Event{Kind: EventNotice, Notice: "Conversation paused. Resume when you are ready."})
		e.schedule()
		return nil
	}

	responder := SpeakerPhrase
	if e.mode == ModeWarriors {
		responder = e.warriors[e.next].ID
	}

	// Reserve the single flight slot atomically with the user append so a
	// timer tick cannot steal the turn between the two.
	userMsg := newMessage(SpeakerUser, text)
	e.messages = append(e.messages, userMsg)
	e.processing = true
	e.typing = responder
	e.mu.Unlock()

	e.emit(Event{Kind: EventMessage, Message: userMsg})
	e.schedule()

	go func() {
		if e.runReserved(ctx, responder, sendWindow, true) && e.mode == ModeWarriors {
			e.advance()
		}
	}()
	return nil
}

// Refocus appends a topic-reminder system message and forces every warrior
// to respond once, in listed order, serially, with a pacing gap between
// turns; phrase mode gets a single forced turn. The session is paused for
// the duration and the previous pause state is restored afterwards, and the
// round-robin cursor resets to the first warrior. User sends are rejected
// while a refocus is running.
func (e *Engine) Refocus(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errors.New("conversation: session closed")
	}
	if e.processing || e.refocusing {
		e.mu.Unlock()
		return ErrBusy
	}
	wasPaused := e.paused
	e.paused = true
	e.refocusing = true
	e.mu.Unlock()

	e.emit(Event{Kind: EventPause, Paused: true})

	focus := e.topic
	if e.mode == ModePhrase {
		focus = e.phrase.Phrase
	}
	e.append(newMessage(SpeakerSystem, fmt.Sprintf("Let's refocus our discussion on: %q", focus)))

	go func() {
		defer func() {
			e.mu.Lock()
			e.next = 0
			e.refocusing = false
			e.paused = wasPaused
			closed := e.closed
			e.mu.Unlock()
			if !closed {
				e.emit(Event{Kind: EventPause, Paused: wasPaused})
				e.schedule()
			}
		}()

		if e.mode == ModePhrase {
			if e.reserve(SpeakerPhrase) {
				e.runReserved(ctx, SpeakerPhrase, refocusWindow, false)
			}
			return
		}

		for i, w := range e.warriors {
			if !e.reserve(w.ID) {
				return
			}
			e.runReserved(ctx, w.ID, refocusWindow, false)
			if i < len(e.warriors)-1 && !e.sleep(e.timing.RefocusGap) {
				return
			}
		}
	}()
	return nil
}

// TogglePause flips the pause state and returns the new value. Pausing only
// suspends auto-continuation; user sends still go through.
func (e *Engine) TogglePause() bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	e.paused = !e.paused
	p := e.paused
	e.mu.Unlock()

	e.emit(Event{Kind: EventPause, Paused: p})
	e.schedule()
	return p
}

// Resume lifts a pause (including a moderation pause).
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.closed || !e.paused {
		e.mu.Unlock()
		return
	}
	e.paused = false
	e.mu.Unlock()

	e.emit(Event{Kind: EventPause, Paused: false})
	e.schedule()
}

// Close discards the session. In-flight completions become no-ops: the
// liveness flag is re-checked before any state mutation, so a late response
// never touches a gone session.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
	close(e.done)
}

// reserve claims the single flight slot for speaker. It fails when the
// session is closed or a turn is already in flight.
func (e *Engine) reserve(speaker string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.processing {
		return false
	}
	e.processing = true
	e.typing = speaker
	return true
}

// runReserved executes one turn for a speaker that already holds the flight
// slot. It appends exactly one message (the sanitized completion text, the
// fixed apology on transient failure, or a system notice on a configuration
// error) and always releases the slot, so a failed call can never leave the
// session locked.
func (e *Engine) runReserved(ctx context.Context, speaker string, window int, think bool) bool {
	e.emit(Event{Kind: EventTyping, Speaker: speaker})
	defer func() {
		e.mu.Lock()
		e.processing = false
		e.typing = ""
		e.mu.Unlock()
		e.emit(Event{Kind: EventTypingDone, Speaker: speaker})
	}()

	e.mu.Lock()
	turns := e.lastTurnsLocked(window)
	sys := e.sysPrompt[speaker]
	e.mu.Unlock()

	msgs := make([]completion.Message, 0, len(turns)+3)
	msgs = append(msgs, completion.Message{Role: completion.RoleSystem, Content: sys})
	msgs = append(msgs, prompt.FormatHistory(turns, e.names, speaker, e.topic)...)

	return e.completeAndAppend(ctx, speaker, msgs, think)
}

// runIntroReserved runs the phrase-mode opening turn. The "explain this
// concept" seed lives only in the request, not in the log.
func (e *Engine) runIntroReserved(ctx context.Context) bool {
	e.emit(Event{Kind: EventTyping, Speaker: SpeakerPhrase})
	defer func() {
		e.mu.Lock()
		e.processing = false
		e.typing = ""
		e.mu.Unlock()
		e.emit(Event{Kind: EventTypingDone, Speaker: SpeakerPhrase})
	}()

	seed := fmt.Sprintf("Please explain what %q means, why it matters, and welcome me to the reflection.", e.phrase.Phrase)
	msgs := []completion.Message{
		{Role: completion.RoleSystem, Content: e.sysPrompt[SpeakerPhrase]},
		{Role: completion.RoleUser, Content: seed},
	}

	return e.completeAndAppend(ctx, SpeakerPhrase, msgs, true)
}

func (e *Engine) completeAndAppend(ctx context.Context, speaker string, msgs []completion.Message, think bool) bool {
	text, err := e.complete(ctx, speaker, msgs)
	if err != nil {
		var nc *completion.NotConfiguredError
		if errors.As(err, &nc) {
			e.log.Error("completion provider not configured", "error", err)
			e.append(newMessage(SpeakerSystem, "The model provider is not configured: "+nc.Error()))
			e.emit(Event{Kind: EventNotice, Notice: nc.Error()})
			return false
		}
		e.log.Error("turn failed", "speaker", speaker, "error", err)
		text = apologyText
	} else {
		text = sanitize.StripSpeakerPrefix(text, e.names[speaker])
	}

	if think && !e.sleep(e.randBetween(e.timing.ThinkMin, e.timing.ThinkMax)) {
		return false
	}

	return e.append(newMessage(speaker, text))
}

// complete resolves the active provider, dials a client, and executes a
// single traced completion call. The provider is consulted per call, never
// cached, and there is no automatic retry; the next turn is the retry.
func (e *Engine) complete(ctx context.Context, speaker string, msgs []completion.Message) (string, error) {
	settings := e.providers.Active()
	cfg := completion.Config{
		Provider: settings.Provider,
		Model:    settings.Model,
		APIKey:   os.Getenv(completion.EnvVar(settings.Provider)),
	}

	client, err := e.dial(cfg)
	if err != nil {
		return "", err
	}

	// Late responses must not be cancelled by a torn-down UI context; the
	// liveness flag in append is the only teardown mechanism.
	ctx = observability.DetachTraceContext(ctx)
	ctx, span := e.tracer.Start(ctx, "conversation.turn", trace.WithAttributes(
		attribute.String("speaker", speaker),
		attribute.String("provider", cfg.Provider),
		attribute.String("model", cfg.Model),
	))
	defer span.End()

	e.log.Info("issuing completion", "speaker", speaker, "provider", cfg.Provider, "model", cfg.Model, "messages", len(msgs))
	text, err := client.Complete(ctx, completion.Request{Messages: msgs})
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return text, nil
}

// append adds a message to the log and reschedules the continuation timer so
// intervals are measured from the latest message. It refuses to mutate a
// closed session.
func (e *Engine) append(m Message) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	e.messages = append(e.messages, m)
	e.mu.Unlock()

	e.emit(Event{Kind: EventMessage, Message: m})
	e.schedule()
	return true
}

// schedule cancels and re-arms the auto-continuation timer. It is a no-op in
// phrase mode, while paused, and before the first message.
func (e *Engine) schedule() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.closed || e.mode != ModeWarriors || e.paused || e.refocusing || len(e.messages) == 0 {
		return
	}
	e.timer = time.AfterFunc(e.randBetween(e.timing.ContinueMin, e.timing.ContinueMax), e.autoTick)
}

// autoTick fires one auto-continuation turn. A tick that lands while a turn
// is in flight is skipped, not queued.
func (e *Engine) autoTick() {
	e.mu.Lock()
	if e.closed || e.paused || e.refocusing || e.mode != ModeWarriors || len(e.messages) == 0 {
		e.mu.Unlock()
		return
	}
	if e.processing {
		e.mu.Unlock()
		e.schedule()
		return
	}
	speaker := e.warriors[e.next].ID
	e.processing = true
	e.typing = speaker
	e.mu.Unlock()

	if e.runReserved(context.Background(), speaker, continueWindow, true) {
		e.advance()
	} else {
		e.schedule()
	}
}

func (e *Engine) advance() {
	e.mu.Lock()
	e.next = (e.next + 1) % len(e.warriors)
	e.mu.Unlock()
}

func (e *Engine) lastTurnsLocked(window int) []prompt.Turn {
	start := len(e.messages) - window
	if start < 0 {
		start = 0
	}
	turns := make([]prompt.Turn, 0, len(e.messages)-start)
	for _, m := range e.messages[start:] {
		turns = append(turns, prompt.Turn{Speaker: m.Speaker, Content: m.Content})
	}
	return turns
}

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	case <-e.done:
	}
}

// sleep waits d unless the session is closed first.
func (e *Engine) sleep(d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-time.After(d):
		return true
	case <-e.done:
		return false
	}
}

func (e *Engine) randBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min)
}
