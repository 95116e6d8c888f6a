package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/game"
	"github.com/xtding233/luckyboost/internal/luckyboost"
	"github.com/xtding233/luckyboost/internal/odds"
	"github.com/xtding233/luckyboost/internal/sim"
)

type Handlers struct {
	store        *game.Store
	maxSimTrials int
	maxSimBudget int
}

func NewHandlers(st *game.Store, maxSimTrials, maxSimBudget int) *Handlers {
	if maxSimTrials <= 0 {
		maxSimTrials = 100000
	}
	if maxSimBudget <= 0 {
		maxSimBudget = 10000
	}
	return &Handlers{store: st, maxSimTrials: maxSimTrials, maxSimBudget: maxSimBudget}
}

func (h *Handlers) State() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.store.State())
	}
}

// Packs lists the catalog, optionally filtered by ?theme=.
func (h *Handlers) Packs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := h.store.Packs()
		items := table.List()
		if theme := r.URL.Query().Get("theme"); theme != "" {
			if !odds.Theme(theme).Valid() {
				writeHTTPError(w, http.StatusBadRequest, "invalid_theme")
				return
			}
			items = table.ByTheme(odds.Theme(theme))
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

type packResponse struct {
	odds.Pack
	NormalizedOdds []odds.Bucket `json:"normalizedOdds"`
}

func (h *Handlers) Pack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.store.Packs().Lookup(chi.URLParam(r, "pack_id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, packResponse{Pack: p, NormalizedOdds: p.NormalizedOdds()})
	}
}

func (h *Handlers) SelectPack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.SelectPack(chi.URLParam(r, "pack_id")); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.store.State())
	}
}

// OpenPack buys a pack; ?seed= replays a card deterministically.
func (h *Handlers) OpenPack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var seed *uint64
		if s := r.URL.Query().Get("seed"); s != "" {
			v, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				writeHTTPError(w, http.StatusBadRequest, "invalid_seed")
				return
			}
			seed = &v
		}
		res, err := h.store.OpenPack(chi.URLParam(r, "pack_id"), seed)
		if err != nil {
			writeErr(w, err)
			return
		}
		st := h.store.State()
		writeJSON(w, http.StatusOK, map[string]any{
			"result":                  res,
			"pendingLuckyBoostUpdate": st.Pending,
			"luckyBoostProgress":      st.LuckyBoostProgress,
			"usdcBalance":             st.USDCBalance,
		})
	}
}

type luckyBoostResponse struct {
	luckyboost.State
	Phase       luckyboost.Phase       `json:"phase"`
	Percentage  float64                `json:"percentage"`
	MaxProgress decimal.Decimal        `json:"maxProgress"`
	RewardMin   decimal.Decimal        `json:"rewardMin"`
	RewardMax   decimal.Decimal        `json:"rewardMax"`
	Milestones  []luckyboost.Milestone `json:"milestones"`
}

func (h *Handlers) LuckyBoost() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		boost := h.store.LuckyBoost()
		st := boost.State()
		table := boost.Milestones()
		lo, hi := table.RewardRange()
		writeJSON(w, http.StatusOK, luckyBoostResponse{
			State:       st,
			Phase:       st.Phase(),
			Percentage:  st.Percentage(),
			MaxProgress: luckyboost.MaxProgress,
			RewardMin:   lo,
			RewardMax:   hi,
			Milestones:  table.All(),
		})
	}
}

func (h *Handlers) ApplyLuckyBoost() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		out, applied := h.store.ApplyPendingLuckyBoostUpdate()
		resp := map[string]any{"applied": applied}
		if applied {
			resp["outcome"] = out
		}
		resp["state"] = h.store.State()
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *Handlers) KeepCard() http.HandlerFunc {
	return h.settle(h.store.KeepCard)
}

func (h *Handlers) SellCard() http.HandlerFunc {
	return h.settle(h.store.SellCard)
}

func (h *Handlers) settle(fn func(stay bool) (game.PackOpenResult, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := fn(queryBool(r, "stay"))
		if !ok {
			writeHTTPError(w, http.StatusConflict, "nothing_to_settle")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"result": res, "state": h.store.State()})
	}
}

// ClaimReward moves credits into the balance. Without ?kind= the screen is
// left as is.
func (h *Handlers) ClaimReward() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var moved decimal.Decimal
		switch kind := luckyboost.RewardKind(r.URL.Query().Get("kind")); {
		case kind == "":
			moved = h.store.ClaimRewardCreditsOnly()
		case kind.Valid():
			moved = h.store.ClaimReward(kind)
		default:
			writeHTTPError(w, http.StatusBadRequest, "invalid_kind")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"moved":           moved,
			"creditsIncrease": h.store.CreditsIncrease(),
			"state":           h.store.State(),
		})
	}
}

func (h *Handlers) ClearCreditsDropdown() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.store.ClearCreditsDropdown()
		writeJSON(w, http.StatusOK, h.store.State())
	}
}

func (h *Handlers) TopUp() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"usdcBalance": h.store.TopUp()})
	}
}

func (h *Handlers) Navigate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen := game.Screen(r.URL.Query().Get("screen"))
		if !screen.Valid() {
			writeHTTPError(w, http.StatusBadRequest, "invalid_screen")
			return
		}
		h.store.NavigateTo(screen)
		writeJSON(w, http.StatusOK, h.store.State())
	}
}

// Simulate runs a Monte Carlo estimate for one pack with the live tuning.
func (h *Handlers) Simulate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		p, err := h.store.Packs().Lookup(q.Get("pack"))
		if err != nil {
			writeErr(w, err)
			return
		}
		trials, ok := queryInt(r, "trials", min(1000, h.maxSimTrials))
		if !ok || trials <= 0 || trials > h.maxSimTrials {
			writeHTTPError(w, http.StatusBadRequest, "invalid_trials")
			return
		}
		budget, ok := queryInt(r, "budget", min(100, h.maxSimBudget))
		if !ok || budget < 0 || budget > h.maxSimBudget {
			writeHTTPError(w, http.StatusBadRequest, "invalid_budget")
			return
		}
		var seed uint64
		if s := q.Get("seed"); s != "" {
			if seed, err = strconv.ParseUint(s, 10, 64); err != nil {
				writeHTTPError(w, http.StatusBadRequest, "invalid_seed")
				return
			}
		}
		goal := sim.TrialGoal(q.Get("goal"))
		if goal == "" {
			goal = sim.GoalFirstMilestone
		}

		params := sim.SimParams{Pack: p, Cards: h.store.CardConfig(), Seed: seed}
		stats, err := sim.RunMonteCarlo(params, goal, trials, &sim.SimBudget{NumOpens: budget})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"pack":   p.ID,
			"goal":   goal,
			"trials": trials,
			"budget": budget,
			"stats":  stats,
			"rtp":    sim.ReturnToPlayer(params, trials),
		})
	}
}

func (h *Handlers) SimulatePackOpen() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		price, err1 := decimal.NewFromString(r.URL.Query().Get("price"))
		value, err2 := decimal.NewFromString(r.URL.Query().Get("value"))
		if err1 != nil || err2 != nil || !price.IsPositive() || value.IsNegative() {
			writeHTTPError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		res := h.store.SimulatePackOpen(price, value)
		writeJSON(w, http.StatusOK, map[string]any{"result": res, "state": h.store.State()})
	}
}

func (h *Handlers) SetProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dollars, err := decimal.NewFromString(r.URL.Query().Get("dollars"))
		if err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		h.store.LuckyBoost().SetProgress(dollars)
		writeJSON(w, http.StatusOK, h.store.LuckyBoost().State())
	}
}

func (h *Handlers) Reset() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.store.LuckyBoost().Reset()
		h.store.Reset()
		writeJSON(w, http.StatusOK, h.store.State())
	}
}
