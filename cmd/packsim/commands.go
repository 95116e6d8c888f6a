package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/luckyboost/internal/catalog"
	"github.com/xtding233/luckyboost/internal/money"
	"github.com/xtding233/luckyboost/internal/odds"
	"github.com/xtding233/luckyboost/internal/sim"
)

func loadCatalog(c *cli.Context) (catalog.Catalog, error) {
	return catalog.NewLoader(c.String("catalog")).Load()
}

func packArg(c *cli.Context, cat catalog.Catalog) (odds.Pack, error) {
	if c.NArg() != 1 {
		return odds.Pack{}, fmt.Errorf("expected exactly one pack id, got %d", c.NArg())
	}
	return cat.Packs.Lookup(c.Args().First())
}

func listPacks(c *cli.Context, _ zerolog.Logger) error {
	cat, err := loadCatalog(c)
	if err != nil {
		return err
	}
	fmt.Printf("catalog %s\n", cat.Version)
	for _, p := range cat.Packs.List() {
		fmt.Printf("  %-28s %-10s %-9s %s\n", p.ID, p.Theme, p.Tier, money.Format(p.Price))
	}
	return nil
}

func runSim(c *cli.Context, logger zerolog.Logger) error {
	cat, err := loadCatalog(c)
	if err != nil {
		return err
	}
	pack, err := packArg(c, cat)
	if err != nil {
		return err
	}

	goal := sim.TrialGoal(c.String("goal"))
	params := sim.SimParams{
		Pack:          pack,
		Cards:         cat.Cards,
		StartProgress: money.USD(c.Float64("start-progress")),
		Seed:          c.Uint64("seed"),
	}
	budget := &sim.SimBudget{NumOpens: c.Int("budget")}

	logger.Info().
		Str("pack", pack.ID).
		Str("price", money.Format(pack.Price)).
		Str("goal", string(goal)).
		Int("trials", c.Int("trials")).
		Msg("simulating")

	stats, err := sim.RunMonteCarlo(params, goal, c.Int("trials"), budget)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	fmt.Printf("mean %.2f  stddev %.2f  p50 %.0f  p90 %.0f  p99 %.0f\n",
		stats.Mean, stats.StdDev, stats.P50, stats.P90, stats.P99)
	if goal == sim.GoalFirstMilestone {
		spend := pack.Price.Mul(money.USD(stats.Mean))
		fmt.Printf("expected spend to first milestone %s\n", money.Format(spend))
	}
	return nil
}

func runRTP(c *cli.Context, logger zerolog.Logger) error {
	cat, err := loadCatalog(c)
	if err != nil {
		return err
	}
	opens := c.Int("opens")
	if opens <= 0 {
		return fmt.Errorf("opens must be positive, got %d", opens)
	}

	packs := cat.Packs.List()
	if c.NArg() > 0 {
		pack, err := packArg(c, cat)
		if err != nil {
			return err
		}
		packs = []odds.Pack{pack}
	}

	// Each pack gets its own generator, so the estimates run side by side.
	rtps := make([]float64, len(packs))
	g, _ := errgroup.WithContext(c.Context)
	g.SetLimit(runtime.NumCPU())
	for i, pack := range packs {
		g.Go(func() error {
			rtps[i] = sim.ReturnToPlayer(sim.SimParams{Pack: pack, Cards: cat.Cards, Seed: c.Uint64("seed")}, opens)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, pack := range packs {
		logger.Debug().Str("pack", pack.ID).Int("opens", opens).Float64("rtp", rtps[i]).Msg("return to player")
		fmt.Printf("  %-28s %9s  rtp %.2f%%\n", pack.ID, money.Format(pack.Price), rtps[i]*100)
	}
	return nil
}
