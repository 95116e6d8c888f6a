package game

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/cardgen"
	"github.com/xtding233/luckyboost/internal/money"
	"github.com/xtding233/luckyboost/internal/odds"
)

// StorageKey is the record key of the game state.
const StorageKey = "gachaGameState"

const recordVersion = 2

// record is the persisted subset of State. Balance and UI flags reset on
// every load.
type record struct {
	Version      int              `json:"version,omitempty"`
	Credits      *decimal.Decimal `json:"credits,omitempty"`
	PacksOpened  int              `json:"packsOpened"`
	SelectedPack string           `json:"selectedPack,omitempty"`
	Inventory    []cardgen.Card   `json:"inventory"`
	Pending      *PendingUpdate   `json:"pendingLuckyBoostUpdate,omitempty"`

	// USDCBalance is only read, to tell single-currency records apart.
	USDCBalance *decimal.Decimal `json:"usdcBalance,omitempty"`
}

func toRecord(s State) record {
	credits := s.Credits
	return record{
		Version:      recordVersion,
		Credits:      &credits,
		PacksOpened:  s.PacksOpened,
		SelectedPack: s.SelectedPack,
		Inventory:    s.Inventory,
		Pending:      s.Pending,
	}
}

// fromRecord rebuilds a State on top of defaults. A record with neither a
// version nor a balance predates the two-currency model: its credits were
// the spendable balance.
func fromRecord(r record, defaults State, packs *odds.Table) (State, bool) {
	s := defaults
	migrated := false

	credits := decimal.Zero
	if r.Credits != nil {
		credits = *r.Credits
	}
	if r.Version == 0 && r.USDCBalance == nil && r.Credits != nil {
		s.USDCBalance = money.NonNegative(credits)
		credits = decimal.Zero
		migrated = true
	}
	s.Credits = money.NonNegative(credits)

	if r.PacksOpened > 0 {
		s.PacksOpened = r.PacksOpened
	}
	if _, err := packs.Lookup(r.SelectedPack); err == nil {
		s.SelectedPack = r.SelectedPack
	}
	if r.Inventory != nil {
		s.Inventory = append([]cardgen.Card{}, r.Inventory...)
	}
	if p := r.Pending; p != nil && p.ProgressAdded.IsPositive() {
		if p.MilestonesReached == nil {
			p.MilestonesReached = []int{}
		}
		s.Pending = p
	}
	return s, migrated
}
