package study

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/daehan/histudy/internal/syncx"
)

// ErrNoCards is returned when a session is created with an empty card list.
var ErrNoCards = errors.New("session needs at least one card")

// syncTimeout bounds each background adapter call.
const syncTimeout = 30 * time.Second

// Session is the progression state machine for one ordered run of cards.
//
// All transition methods are called from a single goroutine (the UI event
// loop); no locking guards the progression state itself. The mutex only
// covers display metadata, which a background sync completion may merge in.
type Session struct {
	id    string
	title string
	cards []*SessionCard

	index     int
	submitted bool
	completed bool

	// finalSynced guarantees the terminal sync fires once per pass. It is
	// reset only by Restart.
	finalSynced bool

	results []*Result
	answers map[string]bool

	// pass invalidates stale async completions after Restart or Close.
	pass int

	adapter  syncx.Adapter
	logger   *slog.Logger
	now      func() time.Time
	dispatch func(func())

	mu      sync.Mutex
	tags    []string
	rewards []syncx.Reward
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the remote session identifier. Without one, no incremental
// syncs are sent.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithTitle sets the display title.
func WithTitle(title string) Option {
	return func(s *Session) { s.title = title }
}

// WithAdapter sets the sync target.
func WithAdapter(a syncx.Adapter) Option {
	return func(s *Session) { s.adapter = a }
}

// WithTags seeds the display tags, typically extracted from the deck.
func WithTags(tags []string) Option {
	return func(s *Session) { s.tags = tags }
}

// WithLogger sets the logger for sync failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithSynchronousSync runs adapter calls inline instead of in a goroutine.
func WithSynchronousSync() Option {
	return func(s *Session) { s.dispatch = func(f func()) { f() } }
}

// New creates a session over the given cards, starting at the first card
// with nothing submitted.
func New(cards []*SessionCard, opts ...Option) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	s := &Session{
		cards:    cards,
		results:  make([]*Result, len(cards)),
		answers:  make(map[string]bool),
		adapter:  syncx.Noop{},
		logger:   slog.Default(),
		now:      time.Now,
		dispatch: func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the remote session identifier, empty for unsaved sessions.
func (s *Session) ID() string { return s.id }

// Title returns the display title.
func (s *Session) Title() string { return s.title }

// Len returns the number of cards.
func (s *Session) Len() int { return len(s.cards) }

// Index returns the 0-based position of the active card.
func (s *Session) Index() int { return s.index }

// Active returns the card at the current index.
func (s *Session) Active() *SessionCard { return s.cards[s.index] }

// Submitted reports whether the active card has been answered this visit.
func (s *Session) Submitted() bool { return s.submitted }

// Completed reports whether the pass has finished.
func (s *Session) Completed() bool { return s.completed }

// Results returns the per-pass result log; entries are nil until the
// matching card has been submitted.
func (s *Session) Results() []*Result { return s.results }

// Result returns the recorded outcome for card i, or nil.
func (s *Session) Result(i int) *Result {
	if i < 0 || i >= len(s.results) {
		return nil
	}
	return s.results[i]
}

// Score counts the correct results recorded so far this pass.
func (s *Session) Score() int {
	score := 0
	for _, r := range s.results {
		if r != nil && r.Correct {
			score++
		}
	}
	return score
}

// Binding exposes the active card to a rendering layer.
func (s *Session) Binding() Binding {
	return Binding{
		Card:     s.Active().Card,
		Disabled: s.submitted || s.completed,
		OnSubmit: func(correct bool) { s.Submit(correct) },
	}
}

// Submit records the correctness result for the active card. It increments
// the card's lifetime counters, logs the per-pass result, and fires an
// incremental sync. A second submission for the same visit, or a submission
// after completion, is ignored.
func (s *Session) Submit(correct bool) bool {
	if s.completed || s.submitted {
		return false
	}

	active := s.cards[s.index]
	active.Attempts++
	if correct {
		active.Correct++
	}
	s.results[s.index] = &Result{Correct: correct}
	s.submitted = true

	var answers map[string]bool
	if active.Card.ID != "" {
		s.answers[active.Card.ID] = correct
		answers = map[string]bool{active.Card.ID: correct}
	}

	if s.id != "" {
		s.fireIncremental(s.States(), answers)
	}
	return true
}

// Advance moves to the next card, or completes the pass after the last
// one. It is a no-op before the active card has been submitted and after
// completion; repeated calls never re-fire the terminal sync.
func (s *Session) Advance() bool {
	if s.completed || !s.submitted {
		return false
	}

	if s.index+1 < len(s.cards) {
		s.index++
		s.submitted = false
		return true
	}

	s.completed = true
	if !s.finalSynced {
		s.finalSynced = true
		s.fireFinal()
	}
	return true
}

// Restart begins a new pass: the result log, completion state, and terminal
// sync guard reset, while the per-card lifetime counters are preserved.
func (s *Session) Restart() {
	s.bumpPass()
	s.index = 0
	s.submitted = false
	s.completed = false
	s.finalSynced = false
	s.results = make([]*Result, len(s.cards))
	s.answers = make(map[string]bool)
}

// Close invalidates any in-flight sync completion so a torn-down session's
// metadata is never touched afterwards.
func (s *Session) Close() {
	s.bumpPass()
}

// bumpPass is mutex-guarded because mergeSummary compares against pass from
// a background goroutine.
func (s *Session) bumpPass() {
	s.mu.Lock()
	s.pass++
	s.mu.Unlock()
}

// States snapshots every card with its counters for a sync payload.
func (s *Session) States() []syncx.CardState {
	states := make([]syncx.CardState, len(s.cards))
	for i, sc := range s.cards {
		states[i] = syncx.CardState{Card: sc.Card, Attempts: sc.Attempts, Correct: sc.Correct}
	}
	return states
}

// Tags returns the display tags, including any merged from a sync summary.
func (s *Session) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Rewards returns reward metadata reported by the sync target.
func (s *Session) Rewards() []syncx.Reward {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]syncx.Reward, len(s.rewards))
	copy(out, s.rewards)
	return out
}

// fireIncremental dispatches a best-effort progress sync. Failures are
// logged and otherwise ignored.
func (s *Session) fireIncremental(cards []syncx.CardState, answers map[string]bool) {
	id := s.id
	adapter := s.adapter
	logger := s.logger
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		if err := adapter.SaveProgress(ctx, id, cards, answers); err != nil {
			logger.Warn("incremental sync failed", "session_id", id, "error", err)
		}
	})
}

// fireFinal dispatches the terminal sync with the aggregate score. A
// returned summary is merged into the display metadata unless the pass has
// since been restarted or closed.
func (s *Session) fireFinal() {
	result := syncx.FinalResult{
		Score:       s.Score(),
		Total:       len(s.cards),
		CompletedAt: s.now(),
	}
	id := s.id
	pass := s.pass
	cards := s.States()
	answers := make(map[string]bool, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	adapter := s.adapter
	logger := s.logger

	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		summary, err := adapter.Complete(ctx, id, result, cards, answers)
		if err != nil {
			logger.Warn("final sync failed", "session_id", id, "error", err)
			return
		}
		if summary != nil {
			s.mergeSummary(pass, summary)
		}
	})
}

func (s *Session) mergeSummary(pass int, summary *syncx.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pass != s.pass {
		// The pass this sync belonged to is gone; drop the metadata.
		return
	}
	if len(summary.Tags) > 0 {
		s.tags = mergeTags(s.tags, summary.Tags)
	}
	if len(summary.Rewards) > 0 {
		s.rewards = append(s.rewards, summary.Rewards...)
	}
}

func mergeTags(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t] = true
	}
	for _, t := range incoming {
		if !seen[t] {
			seen[t] = true
			existing = append(existing, t)
		}
	}
	return existing
}
