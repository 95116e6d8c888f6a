package luckyboost

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/money"
)

// HistoryLimit bounds State.History.
const HistoryLimit = 10

// HistoryEntry records one meter-charging pack open for display.
type HistoryEntry struct {
	ID            string          `json:"id"`
	Timestamp     int64           `json:"timestamp"` // unix ms
	PackPrice     decimal.Decimal `json:"packPrice"`
	CardValue     decimal.Decimal `json:"cardValue"`
	IsWin         bool            `json:"isWin"`
	ProgressAdded decimal.Decimal `json:"progressAdded"`
}

// State is the persisted Lucky Boost record.
type State struct {
	CurrentProgress       decimal.Decimal `json:"currentProgress"`
	CurrentMilestoneIndex int             `json:"currentMilestoneIndex"`
	Credits               decimal.Decimal `json:"credits"`
	GuaranteedPulls       int             `json:"guaranteedPulls"`
	History               []HistoryEntry  `json:"history"`
	LastProgressAdded     decimal.Decimal `json:"lastProgressAdded"`
	Overflow              decimal.Decimal `json:"overflow"`
}

// Phase of the meter state machine.
type Phase string

const (
	Accumulating     Phase = "accumulating"
	MilestoneReached Phase = "milestone_reached"
)

func (s State) Phase() Phase {
	if s.meter().Reached() {
		return MilestoneReached
	}
	return Accumulating
}

func (s State) Percentage() float64 {
	return ProgressPercentage(s.CurrentProgress)
}

func (s State) meter() Meter {
	return Meter{Progress: s.CurrentProgress, Overflow: s.Overflow, Max: MaxProgress}
}

func (s State) clone() State {
	s.History = append([]HistoryEntry(nil), s.History...)
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	return s
}

func defaultState() State {
	return State{History: []HistoryEntry{}}
}

// sanitize bounds a state read from storage.
func sanitize(s State, milestones *Table) State {
	s.CurrentProgress = money.Clamp(s.CurrentProgress, decimal.Zero, MaxProgress)
	s.Overflow = money.NonNegative(s.Overflow)
	s.Credits = money.NonNegative(s.Credits)
	s.LastProgressAdded = money.NonNegative(s.LastProgressAdded)
	if s.GuaranteedPulls < 0 {
		s.GuaranteedPulls = 0
	}
	s.CurrentMilestoneIndex = milestones.clampIndex(s.CurrentMilestoneIndex)
	if len(s.History) > HistoryLimit {
		s.History = s.History[len(s.History)-HistoryLimit:]
	}
	return s.clone()
}
