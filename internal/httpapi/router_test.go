package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/luckyboost/internal/catalog"
	"github.com/xtding233/luckyboost/internal/config"
	"github.com/xtding233/luckyboost/internal/game"
	"github.com/xtding233/luckyboost/internal/storage"
)

type lossRNG struct{}

func (lossRNG) Float64() float64 { return 0.1 }

func newServer(t *testing.T, opts ...game.Option) (*httptest.Server, *game.Store) {
	t.Helper()
	opts = append([]game.Option{game.WithRNG(lossRNG{})}, opts...)
	st := game.NewStore(storage.NewMemory(), catalog.MustDefault(), nil, zerolog.Nop(), opts...)
	cfg := config.ServerConfig{AllowedOrigins: []string{"*"}, MaxSimTrials: 500, MaxSimBudget: 50}
	srv := httptest.NewServer(NewRouter(st, cfg, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, srv *httptest.Server, method, path string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestPacks(t *testing.T) {
	srv, _ := newServer(t)

	status, body := do(t, srv, http.MethodGet, "/packs")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["items"], 8)

	status, body = do(t, srv, http.MethodGet, "/packs?theme=onepiece")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["items"], 4)

	status, _ = do(t, srv, http.MethodGet, "/packs?theme=digimon")
	require.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, srv, http.MethodGet, "/packs/pokemon-master")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "250", body["price"])
	require.Len(t, body["normalizedOdds"], 3)

	status, body = do(t, srv, http.MethodGet, "/packs/nope")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "pack_not_found", body["error"])
}

func TestOpenApplySellFlow(t *testing.T) {
	srv, st := newServer(t)

	status, body := do(t, srv, http.MethodPost, "/packs/pokemon-starter/open")
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, body["pendingLuckyBoostUpdate"])
	require.Equal(t, "4975", body["usdcBalance"])

	status, body = do(t, srv, http.MethodPost, "/lucky-boost/apply")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["applied"])

	status, body = do(t, srv, http.MethodPost, "/lucky-boost/apply")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, false, body["applied"])

	value := st.State().LastResult.Card.Value
	status, _ = do(t, srv, http.MethodPost, "/cards/sell")
	require.Equal(t, http.StatusOK, status)
	require.True(t, st.State().USDCBalance.Equal(decimal.NewFromInt(4975).Add(value)))

	status, body = do(t, srv, http.MethodPost, "/cards/sell")
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "nothing_to_settle", body["error"])

	status, body = do(t, srv, http.MethodGet, "/lucky-boost")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "accumulating", body["phase"])
	require.Equal(t, "1000", body["maxProgress"])
	require.Equal(t, "25", body["rewardMin"])
	require.Equal(t, "200", body["rewardMax"])
}

func TestOpenPackErrors(t *testing.T) {
	srv, _ := newServer(t, game.WithStartingBalance(decimal.NewFromInt(10)))

	status, body := do(t, srv, http.MethodPost, "/packs/pokemon-starter/open")
	require.Equal(t, http.StatusPaymentRequired, status)
	require.Equal(t, "insufficient_funds", body["error"])

	status, _ = do(t, srv, http.MethodPost, "/packs/pokemon-starter/open?seed=abc")
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, srv, http.MethodPost, "/packs/missing/open")
	require.Equal(t, http.StatusNotFound, status)

	status, body = do(t, srv, http.MethodPost, "/wallet/top-up")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "5010", body["usdcBalance"])
}

func TestSeededOpenIsReproducible(t *testing.T) {
	srvA, _ := newServer(t)
	srvB, _ := newServer(t)

	_, a := do(t, srvA, http.MethodPost, "/packs/onepiece-elite/open?seed=12345")
	_, b := do(t, srvB, http.MethodPost, "/packs/onepiece-elite/open?seed=12345")
	cardA := a["result"].(map[string]any)["card"].(map[string]any)
	cardB := b["result"].(map[string]any)["card"].(map[string]any)
	for _, field := range []string{"name", "rarity", "value"} {
		require.Equal(t, cardA[field], cardB[field], field)
	}
	require.NotEqual(t, cardA["id"], cardB["id"])
}

func TestRewardClaim(t *testing.T) {
	srv, st := newServer(t)
	status, _ := do(t, srv, http.MethodPost, "/debug/lucky-boost/progress?dollars=990")
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, srv, http.MethodPost, "/debug/pack-open?price=50&value=10")
	require.Equal(t, http.StatusOK, status)
	status, body := do(t, srv, http.MethodPost, "/lucky-boost/apply")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "25", body["outcome"].(map[string]any)["creditsAwarded"])

	status, _ = do(t, srv, http.MethodPost, "/rewards/claim?kind=bogus")
	require.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, srv, http.MethodPost, "/rewards/claim?kind=credits")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "25", body["moved"])
	require.Equal(t, "25", body["creditsIncrease"])
	require.True(t, st.State().ShowCreditsDropdown)

	status, _ = do(t, srv, http.MethodPost, "/rewards/dismiss")
	require.Equal(t, http.StatusOK, status)
	require.False(t, st.State().ShowCreditsDropdown)
}

func TestNavigateAndReset(t *testing.T) {
	srv, st := newServer(t)

	status, _ := do(t, srv, http.MethodPost, "/navigate?screen=reward")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, game.ScreenReward, st.State().Screen)

	status, _ = do(t, srv, http.MethodPost, "/navigate?screen=attic")
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, srv, http.MethodPost, "/packs/onepiece-master/select")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "onepiece-master", st.State().SelectedPack)

	status, body := do(t, srv, http.MethodPost, "/debug/reset")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "home", body["currentScreen"])
	require.Empty(t, st.State().SelectedPack)
}

func TestSimulate(t *testing.T) {
	srv, _ := newServer(t)

	status, body := do(t, srv, http.MethodGet, "/simulate?pack=pokemon-elite&trials=50&goal=wins_in_budget&budget=20&seed=7")
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	require.GreaterOrEqual(t, stats["mean"].(float64), 0.0)
	require.LessOrEqual(t, stats["mean"].(float64), 20.0)

	status, _ = do(t, srv, http.MethodGet, "/simulate?pack=pokemon-elite&trials=501")
	require.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, srv, http.MethodGet, "/simulate?pack=pokemon-elite&trials=10&goal=wins_in_budget&budget=1000000000")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid_budget", body["error"])

	status, body = do(t, srv, http.MethodGet, "/simulate?pack=pokemon-elite&trials=10&goal=wins_in_budget")
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 50, body["budget"])

	status, body = do(t, srv, http.MethodGet, "/simulate?pack=pokemon-elite&goal=first_hit")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid_goal", body["error"])

	status, _ = do(t, srv, http.MethodGet, "/simulate?pack=nope")
	require.Equal(t, http.StatusNotFound, status)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newServer(t)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/packs", strings.NewReader(""))
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
