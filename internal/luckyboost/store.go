package luckyboost

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/money"
	"github.com/xtding233/luckyboost/internal/storage"
)

// StorageKey is the record key of the Lucky Boost state.
const StorageKey = "luckyBoostState"

// Update describes the meter change of one pack open, either previewed or
// committed.
type Update struct {
	PackPrice         decimal.Decimal `json:"packPrice"`
	CardValue         decimal.Decimal `json:"cardValue"`
	ProgressAdded     decimal.Decimal `json:"progressAdded"`
	Progress          decimal.Decimal `json:"progress"`
	Overflow          decimal.Decimal `json:"overflow"`
	MilestonesReached []int           `json:"milestonesReached"`
}

// Percentage of the meter after the update.
func (u Update) Percentage() float64 {
	return ProgressPercentage(u.Progress)
}

// Store owns the Lucky Boost state. Every mutation is persisted, then
// subscribers are called synchronously.
type Store struct {
	mu         sync.Mutex
	state      State
	milestones *Table

	kv      storage.KV
	timeout time.Duration
	logger  zerolog.Logger
	now     func() time.Time

	listeners map[int]func()
	nextSub   int
}

type Option func(*Store)

// WithClock overrides time.Now for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTimeout bounds each storage call.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// NewStore loads the persisted state from kv, or starts fresh. A nil kv keeps
// state in memory only; a nil table uses DefaultMilestones.
func NewStore(kv storage.KV, milestones *Table, logger zerolog.Logger, opts ...Option) *Store {
	if kv == nil {
		kv = storage.NewMemory()
	}
	if milestones == nil {
		milestones = NewTable(nil)
	}
	s := &Store{
		milestones: milestones,
		kv:         kv,
		timeout:    2 * time.Second,
		logger:     logger.With().Str("component", "luckyboost").Logger(),
		now:        time.Now,
		listeners:  make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.load()
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) Milestones() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.milestones
}

// SetMilestones swaps the milestone table, e.g. after a catalog reload.
func (s *Store) SetMilestones(t *Table) {
	if t == nil {
		return
	}
	s.mu.Lock()
	s.milestones = t
	s.state.CurrentMilestoneIndex = t.clampIndex(s.state.CurrentMilestoneIndex)
	s.mu.Unlock()
}

// Subscribe registers fn to run after every mutation. The returned func
// removes it.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Preview computes what AddPackOpen would do right now without changing
// anything.
func (s *Store) Preview(packPrice, cardValue decimal.Decimal) Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, _ := s.plan(packPrice, cardValue)
	return u
}

func (s *Store) plan(packPrice, cardValue decimal.Decimal) (Update, Meter) {
	delta := CalculateProgress(packPrice, cardValue)
	next, crossed := s.state.meter().Add(delta)
	u := Update{
		PackPrice:         packPrice,
		CardValue:         cardValue,
		ProgressAdded:     delta,
		Progress:          next.Progress,
		Overflow:          next.Overflow,
		MilestonesReached: []int{},
	}
	if crossed {
		u.MilestonesReached = append(u.MilestonesReached, s.milestones.At(s.state.CurrentMilestoneIndex).ID)
	}
	return u, next
}

// AddPackOpen charges the meter with a pack open's loss. A win is a no-op.
// At most one milestone id is returned, for the open that fills the meter;
// opens while the meter is already full only grow the overflow.
func (s *Store) AddPackOpen(packPrice, cardValue decimal.Decimal) Update {
	s.mu.Lock()
	u, next := s.plan(packPrice, cardValue)
	if !u.ProgressAdded.IsPositive() {
		s.mu.Unlock()
		return u
	}

	s.state.CurrentProgress = next.Progress
	s.state.Overflow = next.Overflow
	s.state.LastProgressAdded = u.ProgressAdded
	s.state.History = appendHistory(s.state.History, HistoryEntry{
		ID:            s.historyID(),
		Timestamp:     s.now().UnixMilli(),
		PackPrice:     packPrice,
		CardValue:     cardValue,
		IsWin:         IsWin(packPrice, cardValue),
		ProgressAdded: u.ProgressAdded,
	})
	if len(u.MilestonesReached) > 0 {
		s.logger.Info().
			Ints("milestones", u.MilestonesReached).
			Str("overflow", u.Overflow.StringFixed(2)).
			Msg("lucky boost meter filled")
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return u
}

// ClaimMilestone pays out a milestone and restarts the meter from the
// overflow carried past the cap.
func (s *Store) ClaimMilestone(id int) (Reward, error) {
	s.mu.Lock()
	m, err := s.milestones.Lookup(id)
	if err != nil {
		s.mu.Unlock()
		return Reward{}, err
	}

	switch m.Reward.Kind {
	case RewardCredits:
		s.state.Credits = s.state.Credits.Add(m.Reward.Amount)
	case RewardGuaranteedPull:
		s.state.GuaranteedPulls++
	}
	next := s.state.meter().Claim()
	s.state.CurrentProgress = next.Progress
	s.state.Overflow = next.Overflow
	s.state.CurrentMilestoneIndex = 0

	s.logger.Info().
		Int("milestone", id).
		Str("reward", m.Reward.String()).
		Str("carried", next.Progress.StringFixed(2)).
		Msg("milestone claimed")
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return m.Reward, nil
}

// Reset restores the defaults.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = defaultState()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// SetProgress forces the meter to dollars (clamped) and drops any overflow.
// Debug panels use it to stage near-full meters.
func (s *Store) SetProgress(dollars decimal.Decimal) {
	s.mu.Lock()
	s.state.CurrentProgress = money.Clamp(dollars, decimal.Zero, MaxProgress)
	s.state.Overflow = decimal.Zero
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

func appendHistory(h []HistoryEntry, e HistoryEntry) []HistoryEntry {
	if len(h) >= HistoryLimit {
		h = h[len(h)-HistoryLimit+1:]
	}
	out := make([]HistoryEntry, 0, len(h)+1)
	out = append(out, h...)
	return append(out, e)
}

func (s *Store) historyID() string {
	id, err := gonanoid.New()
	if err != nil {
		return strconv.FormatInt(s.now().UnixNano(), 10)
	}
	return id
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *Store) load() State {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load lucky boost state")
		return defaultState()
	}
	if !ok {
		return defaultState()
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.logger.Error().Err(err).Msg("corrupt lucky boost state, starting fresh")
		return defaultState()
	}
	return sanitize(st, s.milestones)
}

// persistLocked writes the state; failures are logged and the in-memory
// state stays authoritative.
func (s *Store) persistLocked() {
	b, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode lucky boost state")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.kv.Set(ctx, StorageKey, string(b)); err != nil {
		s.logger.Error().Err(err).Msg("failed to save lucky boost state")
	}
}
