package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/xtding233/luckyboost/internal/config"
	"github.com/xtding233/luckyboost/internal/logging"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		logCfg = config.LogConfig{Level: "info"}
	}
	logCfg.Pretty = true
	logger := logging.New(logCfg)

	app := cli.NewApp()
	app.Name = "packsim"
	app.Usage = "Monte Carlo estimates for card packs and the Lucky Boost meter"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "catalog",
			Usage:   "catalog override file merged over the built-in catalog",
			EnvVars: []string{"CATALOG_PATH"},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "packs",
			Usage:  "List the packs in the catalog",
			Action: func(c *cli.Context) error { return listPacks(c, logger) },
		},
		{
			Name:      "run",
			Usage:     "Simulate opening one pack repeatedly",
			ArgsUsage: "<pack-id>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "goal", Value: "first_milestone", Usage: "first_milestone, milestones_in_budget or wins_in_budget"},
				&cli.IntFlag{Name: "trials", Value: 10000},
				&cli.IntFlag{Name: "budget", Value: 100, Usage: "opens per trial for the budget goals"},
				&cli.Uint64Flag{Name: "seed", Usage: "seed for a reproducible run"},
				&cli.Float64Flag{Name: "start-progress", Usage: "meter progress in dollars at the start of each trial"},
				&cli.BoolFlag{Name: "json", Usage: "print the stats as JSON"},
			},
			Action: func(c *cli.Context) error { return runSim(c, logger) },
		},
		{
			Name:      "rtp",
			Usage:     "Estimate the return to player of one pack, or of every pack",
			ArgsUsage: "[pack-id]",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "opens", Value: 100000},
				&cli.Uint64Flag{Name: "seed"},
			},
			Action: func(c *cli.Context) error { return runRTP(c, logger) },
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("packsim failed")
		os.Exit(1)
	}
}
