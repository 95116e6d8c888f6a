// Package game is the top-level state machine: balances, inventory and the
// deferred Lucky Boost update that sits between a card reveal and the meter
// moving.
package game

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/cardgen"
	"github.com/xtding233/luckyboost/internal/luckyboost"
	"github.com/xtding233/luckyboost/internal/odds"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Screen is the presentation state the store tracks for its host.
type Screen string

const (
	ScreenHome       Screen = "home"
	ScreenPackDetail Screen = "packDetail"
	ScreenOpening    Screen = "opening"
	ScreenCardBack   Screen = "cardBack"
	ScreenCardReveal Screen = "cardReveal"
	ScreenReward     Screen = "reward"
)

func (s Screen) Valid() bool {
	switch s {
	case ScreenHome, ScreenPackDetail, ScreenOpening, ScreenCardBack, ScreenCardReveal, ScreenReward:
		return true
	}
	return false
}

// PackOpenResult is the outcome of one pack open, held until the card is
// kept or sold.
type PackOpenResult struct {
	Card      cardgen.Card    `json:"card"`
	PackID    string          `json:"packId"`
	PackPrice decimal.Decimal `json:"packPrice"`
	IsWin     bool            `json:"isWin"`
	Timestamp int64           `json:"timestamp"` // unix ms
	Theme     odds.Theme      `json:"theme"`
	Settled   bool            `json:"settled"`
}

// PendingUpdate is the meter change computed at open time and committed by
// ApplyPendingLuckyBoostUpdate.
type PendingUpdate struct {
	PackPrice         decimal.Decimal `json:"packPrice"`
	CardValue         decimal.Decimal `json:"cardValue"`
	ProgressAdded     decimal.Decimal `json:"progressAdded"`
	PreviewProgress   decimal.Decimal `json:"previewProgress"`
	MilestonesReached []int           `json:"milestonesReached"`
	// SelectedMilestoneVariant is the reward variant fixed at open time; 0
	// when no crossing was predicted.
	SelectedMilestoneVariant int `json:"selectedMilestoneVariant,omitempty"`
}

// ClaimedReward is one milestone paid out while applying a pending update.
type ClaimedReward struct {
	MilestoneID int               `json:"milestoneId"`
	Reward      luckyboost.Reward `json:"reward"`
}

// ApplyOutcome reports what ApplyPendingLuckyBoostUpdate committed.
type ApplyOutcome struct {
	Update         luckyboost.Update `json:"update"`
	Claimed        []ClaimedReward   `json:"claimed"`
	CreditsAwarded decimal.Decimal   `json:"creditsAwarded"`
}

// State is the game aggregate. LuckyBoostProgress mirrors the Lucky Boost
// meter in percent and is never written back to it.
type State struct {
	USDCBalance        decimal.Decimal `json:"usdcBalance"`
	Credits            decimal.Decimal `json:"credits"`
	PacksOpened        int             `json:"packsOpened"`
	LuckyBoostProgress float64         `json:"luckyBoostProgress"`
	SelectedPack       string          `json:"selectedPack,omitempty"`
	LastResult         *PackOpenResult `json:"lastResult,omitempty"`
	Inventory          []cardgen.Card  `json:"inventory"`
	Pending            *PendingUpdate  `json:"pendingLuckyBoostUpdate,omitempty"`

	Screen              Screen           `json:"currentScreen"`
	ShowRewardPopup     bool             `json:"showRewardPopup"`
	ShowCreditsDropdown bool             `json:"showCreditsDropdown"`
	CreditsStartBalance *decimal.Decimal `json:"creditsStartBalance,omitempty"`
}

func (s State) clone() State {
	s.Inventory = append([]cardgen.Card{}, s.Inventory...)
	if s.LastResult != nil {
		r := *s.LastResult
		s.LastResult = &r
	}
	if s.Pending != nil {
		p := *s.Pending
		p.MilestonesReached = append([]int{}, p.MilestonesReached...)
		s.Pending = &p
	}
	if s.CreditsStartBalance != nil {
		b := *s.CreditsStartBalance
		s.CreditsStartBalance = &b
	}
	return s
}
