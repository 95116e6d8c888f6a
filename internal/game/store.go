package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/cardgen"
	"github.com/xtding233/luckyboost/internal/catalog"
	"github.com/xtding233/luckyboost/internal/gacha"
	"github.com/xtding233/luckyboost/internal/luckyboost"
	"github.com/xtding233/luckyboost/internal/money"
	"github.com/xtding233/luckyboost/internal/odds"
	"github.com/xtding233/luckyboost/internal/storage"
)

var (
	DefaultStartingBalance = decimal.NewFromInt(5000)
	DefaultTopUpAmount     = decimal.NewFromInt(5000)
)

// maxChainedClaims bounds the milestones one apply pays out when a single
// loss overfills the meter several times.
const maxChainedClaims = 100

// Store owns the game state and drives the Lucky Boost store. It takes its
// own lock before the Lucky Boost store's, so Lucky Boost subscribers must
// not call back into a Store.
type Store struct {
	mu    sync.Mutex
	state State

	packs      *odds.Table
	milestones *luckyboost.Table
	gen        *cardgen.Generator
	boost      *luckyboost.Store
	rng        gacha.RandomSource

	kv              storage.KV
	timeout         time.Duration
	logger          zerolog.Logger
	now             func() time.Time
	startingBalance decimal.Decimal
	topUpAmount     decimal.Decimal

	listeners map[int]func()
	nextSub   int
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRNG sets the source of unseeded card rolls and milestone variants.
func WithRNG(rng gacha.RandomSource) Option {
	return func(s *Store) { s.rng = rng }
}

func WithStartingBalance(d decimal.Decimal) Option {
	return func(s *Store) { s.startingBalance = money.NonNegative(d) }
}

func WithTopUpAmount(d decimal.Decimal) Option {
	return func(s *Store) { s.topUpAmount = money.NonNegative(d) }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// NewStore loads the persisted game record from kv. A nil kv keeps state in
// memory; a nil boost store gets one built on the same kv.
func NewStore(kv storage.KV, cat catalog.Catalog, boost *luckyboost.Store, logger zerolog.Logger, opts ...Option) *Store {
	if kv == nil {
		kv = storage.NewMemory()
	}
	s := &Store{
		packs:           cat.Packs,
		milestones:      cat.Milestones,
		rng:             gacha.DefaultRNG(),
		kv:              kv,
		timeout:         2 * time.Second,
		logger:          logger.With().Str("component", "game").Logger(),
		now:             time.Now,
		startingBalance: DefaultStartingBalance,
		topUpAmount:     DefaultTopUpAmount,
		listeners:       make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.packs == nil {
		s.packs = odds.NewTable(nil)
	}
	if s.milestones == nil {
		s.milestones = luckyboost.NewTable(nil)
	}
	if boost == nil {
		boost = luckyboost.NewStore(kv, s.milestones, logger)
	}
	s.boost = boost
	s.gen = cardgen.New(cat.Cards, s.rng)
	s.state = s.load()
	return s
}

func (s *Store) defaultState() State {
	return State{
		USDCBalance: s.startingBalance,
		Credits:     decimal.Zero,
		Inventory:   []cardgen.Card{},
		Screen:      ScreenHome,
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Packs is the current pack table.
func (s *Store) Packs() *odds.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.packs
}

// CardConfig is the generator tuning in effect.
func (s *Store) CardConfig() cardgen.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.Config()
}

// LuckyBoost is the meter store this game drives.
func (s *Store) LuckyBoost() *luckyboost.Store { return s.boost }

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

// OpenPack buys and opens a pack. The Lucky Boost meter is only previewed;
// the change waits in State.Pending until ApplyPendingLuckyBoostUpdate. An
// update still pending from the previous open is committed first.
func (s *Store) OpenPack(packID string, seed *uint64) (PackOpenResult, error) {
	s.mu.Lock()
	pack, err := s.packs.Lookup(packID)
	if err != nil {
		s.mu.Unlock()
		return PackOpenResult{}, err
	}
	if s.state.USDCBalance.LessThan(pack.Price) {
		balance := s.state.USDCBalance
		s.mu.Unlock()
		return PackOpenResult{}, fmt.Errorf("%w: balance %s, price %s",
			ErrInsufficientFunds, money.Format(balance), money.Format(pack.Price))
	}
	if s.state.Pending != nil {
		s.applyLocked()
	}

	s.state.USDCBalance = s.state.USDCBalance.Sub(pack.Price)
	s.state.PacksOpened++

	card := s.gen.Generate(pack, seed)
	card.ImageURL = pack.ImageURL
	res := PackOpenResult{
		Card:      card,
		PackID:    pack.ID,
		PackPrice: pack.Price,
		IsWin:     luckyboost.IsWin(pack.Price, card.Value),
		Timestamp: s.now().UnixMilli(),
		Theme:     pack.Theme,
	}
	s.stagePendingLocked(res)

	s.logger.Debug().
		Str("pack", pack.ID).
		Str("card", card.ID).
		Str("rarity", string(card.Rarity)).
		Str("value", card.Value.StringFixed(2)).
		Bool("win", res.IsWin).
		Msg("pack opened")
	s.commitLocked()
	return res, nil
}

// SimulatePackOpen stages a synthetic result for price and value without
// touching the balance or the pack counter. Debug panels use it to drive
// the meter.
func (s *Store) SimulatePackOpen(price, value decimal.Decimal) PackOpenResult {
	price = money.Cents(money.NonNegative(price))
	value = money.Cents(money.NonNegative(value))

	s.mu.Lock()
	if s.state.Pending != nil {
		s.applyLocked()
	}
	res := PackOpenResult{
		Card:      s.gen.Fixed(price, value),
		PackPrice: price,
		IsWin:     luckyboost.IsWin(price, value),
		Timestamp: s.now().UnixMilli(),
		Theme:     odds.Pokemon,
	}
	if p, err := s.packs.Lookup(s.state.SelectedPack); err == nil {
		res.PackID = p.ID
		res.Theme = p.Theme
	}
	s.stagePendingLocked(res)
	s.commitLocked()
	return res
}

func (s *Store) stagePendingLocked(res PackOpenResult) {
	preview := s.boost.Preview(res.PackPrice, res.Card.Value)
	pending := &PendingUpdate{
		PackPrice:         res.PackPrice,
		CardValue:         res.Card.Value,
		ProgressAdded:     preview.ProgressAdded,
		PreviewProgress:   preview.Progress,
		MilestonesReached: preview.MilestonesReached,
	}
	if len(preview.MilestonesReached) > 0 {
		pending.SelectedMilestoneVariant = s.milestones.PickVariant(s.rng)
	}
	s.state.Pending = pending
	s.state.LastResult = &res
	if res.PackID != "" {
		s.state.SelectedPack = res.PackID
	}
	s.state.LuckyBoostProgress = preview.Percentage()
}

// ApplyPendingLuckyBoostUpdate commits the pending meter change. Reported
// milestones are claimed as the variant chosen at open time and credit
// rewards land in State.Credits. ok is false when nothing was pending.
func (s *Store) ApplyPendingLuckyBoostUpdate() (out ApplyOutcome, ok bool) {
	s.mu.Lock()
	out, ok = s.applyLocked()
	if !ok {
		s.mu.Unlock()
		return out, false
	}
	s.commitLocked()
	return out, true
}

func (s *Store) applyLocked() (ApplyOutcome, bool) {
	p := s.state.Pending
	if p == nil {
		return ApplyOutcome{}, false
	}
	s.state.Pending = nil
	// Drop the pending update from storage before the meter record moves: a
	// crash between the two writes loses one meter update instead of
	// applying it twice on the next load. A failed write here is only logged,
	// so that path can still replay it.
	s.persistLocked()

	out := ApplyOutcome{
		Update:         s.boost.AddPackOpen(p.PackPrice, p.CardValue),
		Claimed:        []ClaimedReward{},
		CreditsAwarded: decimal.Zero,
	}
	variant := p.SelectedMilestoneVariant
	for range out.Update.MilestonesReached {
		s.claimLocked(&out, variant)
		variant = 0
	}
	// Overflow carried by a claim can refill the meter on its own; keep paying
	// while it stays full. Anything left over is drained on the next apply.
	for n := 0; n < maxChainedClaims && s.boost.State().Phase() == luckyboost.MilestoneReached; n++ {
		if !s.claimLocked(&out, 0) {
			break
		}
	}
	s.state.LuckyBoostProgress = s.boost.State().Percentage()
	return out, true
}

// claimLocked claims one milestone as variant, or a freshly rolled variant
// when variant is 0 or no longer in the table.
func (s *Store) claimLocked(out *ApplyOutcome, variant int) bool {
	if variant == 0 {
		variant = s.milestones.PickVariant(s.rng)
	}
	reward, err := s.boost.ClaimMilestone(variant)
	if err != nil {
		// variant dropped by a catalog reload since the open
		s.logger.Warn().Err(err).Int("variant", variant).Msg("re-rolling milestone variant")
		variant = s.milestones.PickVariant(s.rng)
		if reward, err = s.boost.ClaimMilestone(variant); err != nil {
			s.logger.Error().Err(err).Msg("failed to claim milestone")
			return false
		}
	}
	out.Claimed = append(out.Claimed, ClaimedReward{MilestoneID: variant, Reward: reward})
	if reward.Kind == luckyboost.RewardCredits {
		s.state.Credits = s.state.Credits.Add(reward.Amount)
		out.CreditsAwarded = out.CreditsAwarded.Add(reward.Amount)
	}
	s.state.ShowRewardPopup = true
	return true
}

// KeepCard moves the last result's card into the inventory.
func (s *Store) KeepCard(stay bool) (PackOpenResult, bool) {
	return s.settle(stay, false)
}

// SellCard credits the last result's card value to the balance.
func (s *Store) SellCard(stay bool) (PackOpenResult, bool) {
	return s.settle(stay, true)
}

// settle keeps or sells the last result once. Unless stay is set the result
// and selected pack are cleared; the reward screen wins over home while a
// reward is pending.
func (s *Store) settle(stay, sell bool) (PackOpenResult, bool) {
	s.mu.Lock()
	r := s.state.LastResult
	if r == nil || r.Settled {
		s.mu.Unlock()
		return PackOpenResult{}, false
	}
	if sell {
		s.state.USDCBalance = s.state.USDCBalance.Add(r.Card.Value)
	} else {
		s.state.Inventory = append(s.state.Inventory, r.Card)
	}
	r.Settled = true
	res := *r

	switch {
	case s.state.LuckyBoostProgress >= 100 || s.state.ShowRewardPopup:
		s.state.Screen = ScreenReward
	case !stay:
		s.state.Screen = ScreenHome
	}
	if !stay {
		s.state.LastResult = nil
		s.state.SelectedPack = ""
	}
	s.commitLocked()
	return res, true
}

// ClaimRewardCreditsOnly moves credits into the spendable balance and arms
// the credits-increased signal.
func (s *Store) ClaimRewardCreditsOnly() decimal.Decimal {
	s.mu.Lock()
	moved := s.claimCreditsLocked()
	s.commitLocked()
	return moved
}

// ClaimReward claims like ClaimRewardCreditsOnly and returns home. Both
// reward kinds pay out through credits.
func (s *Store) ClaimReward(kind luckyboost.RewardKind) decimal.Decimal {
	s.mu.Lock()
	moved := s.claimCreditsLocked()
	s.logger.Info().Str("kind", string(kind)).Str("amount", moved.StringFixed(2)).Msg("reward claimed")
	s.state.Screen = ScreenHome
	s.state.SelectedPack = ""
	s.state.LastResult = nil
	s.commitLocked()
	return moved
}

func (s *Store) claimCreditsLocked() decimal.Decimal {
	moved := s.state.Credits
	start := s.state.USDCBalance
	s.state.CreditsStartBalance = &start
	s.state.USDCBalance = start.Add(moved)
	s.state.Credits = decimal.Zero
	s.state.ShowRewardPopup = false
	s.state.ShowCreditsDropdown = s.creditsIncreaseLocked().IsPositive()
	return moved
}

// CreditsIncrease is how much the balance grew since the last claim. It is
// zero unless a claim set the start marker and the balance grew by at least
// a cent.
func (s *Store) CreditsIncrease() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creditsIncreaseLocked()
}

func (s *Store) creditsIncreaseLocked() decimal.Decimal {
	if s.state.CreditsStartBalance == nil {
		return decimal.Zero
	}
	delta := s.state.USDCBalance.Sub(*s.state.CreditsStartBalance)
	if delta.LessThan(money.Cent) {
		return decimal.Zero
	}
	return delta
}

func (s *Store) ClearCreditsDropdown() {
	s.mu.Lock()
	s.state.ShowCreditsDropdown = false
	s.state.CreditsStartBalance = nil
	s.commitLocked()
}

// TopUp adds the configured stipend to the balance.
func (s *Store) TopUp() decimal.Decimal {
	s.mu.Lock()
	s.state.USDCBalance = s.state.USDCBalance.Add(s.topUpAmount)
	balance := s.state.USDCBalance
	s.commitLocked()
	return balance
}

func (s *Store) SelectPack(packID string) error {
	s.mu.Lock()
	if _, err := s.packs.Lookup(packID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state.SelectedPack = packID
	s.commitLocked()
	return nil
}

// NavigateTo switches screens. Unknown screens go home.
func (s *Store) NavigateTo(screen Screen) {
	if !screen.Valid() {
		screen = ScreenHome
	}
	s.mu.Lock()
	s.state.Screen = screen
	s.commitLocked()
}

// Reset restores the game defaults. The Lucky Boost meter is left alone;
// reset it through its own store.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = s.defaultState()
	s.state.LuckyBoostProgress = s.boost.State().Percentage()
	s.commitLocked()
}

// UpdateCatalog swaps packs, card tuning and milestones after a reload. A
// selected pack that no longer exists is cleared.
func (s *Store) UpdateCatalog(cat catalog.Catalog) {
	s.mu.Lock()
	if cat.Packs != nil {
		s.packs = cat.Packs
	}
	if cat.Milestones != nil {
		s.milestones = cat.Milestones
		s.boost.SetMilestones(cat.Milestones)
	}
	s.gen = cardgen.New(cat.Cards, s.rng)
	if _, err := s.packs.Lookup(s.state.SelectedPack); err != nil {
		s.state.SelectedPack = ""
	}
	s.logger.Info().Str("version", cat.Version).Int("packs", s.packs.Len()).Msg("catalog updated")
	s.commitLocked()
}

// commitLocked persists, releases the lock and notifies subscribers.
func (s *Store) commitLocked() {
	s.persistLocked()
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
	st := s.defaultState()
	st.LuckyBoostProgress = s.boost.State().Percentage()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load game state")
		return st
	}
	if !ok {
		return st
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.Error().Err(err).Msg("corrupt game state, starting fresh")
		return st
	}
	st, migrated := fromRecord(rec, st, s.packs)
	if migrated {
		s.logger.Info().Str("balance", st.USDCBalance.StringFixed(2)).Msg("migrated single-currency game record")
	}
	if st.Pending != nil {
		st.LuckyBoostProgress = luckyboost.ProgressPercentage(st.Pending.PreviewProgress)
	}
	return st
}

// persistLocked writes the record; failures are logged and the in-memory
// state stays authoritative.
func (s *Store) persistLocked() {
	b, err := json.Marshal(toRecord(s.state))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode game state")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.kv.Set(ctx, StorageKey, string(b)); err != nil {
		s.logger.Error().Err(err).Msg("failed to save game state")
	}
}
