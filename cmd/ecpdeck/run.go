package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paulromano/ecp-benchmarks/internal/server"
	"github.com/paulromano/ecp-benchmarks/pkg/analytics"
	"github.com/paulromano/ecp-benchmarks/pkg/config"
	"github.com/paulromano/ecp-benchmarks/pkg/deck"
	"github.com/paulromano/ecp-benchmarks/pkg/depletion"
	"github.com/paulromano/ecp-benchmarks/pkg/export"
	"github.com/paulromano/ecp-benchmarks/pkg/models"
	"github.com/paulromano/ecp-benchmarks/pkg/validation"
)

// loadConfig reads the deck file and applies the model argument and any
// flags set on the command line. Depletion runs default to one ring and
// one axial slice unless a deck file or flag says otherwise.
func loadConfig(cmd *cobra.Command, args []string, depleting bool) (*config.Config, error) {
	cfg := config.Defaults()
	if global.config != "" {
		var err error
		if info, statErr := os.Stat(global.config); statErr == nil && info.IsDir() {
			cfg, err = config.LoadProject(global.config)
		} else {
			cfg, err = config.Load(global.config)
		}
		if err != nil {
			return nil, fmt.Errorf("loading deck file: %w", err)
		}
	} else if depleting {
		cfg.Options.Rings, cfg.Options.Axial = 1, 1
	}

	if len(args) > 0 {
		cfg.Model = args[0]
	}
	f := cmd.Flags()
	if f.Changed("tallies") {
		mode, err := deck.ParseTallyMode(global.tallies)
		if err != nil {
			return nil, err
		}
		cfg.Options.Tallies = mode
	}
	if f.Changed("rings") {
		cfg.Options.Rings = global.rings
	}
	if f.Changed("axial") {
		cfg.Options.Axial = global.axial
	}
	if f.Changed("depleted") {
		cfg.Options.Depleted = global.depleted
	}
	if f.Changed("multipole") {
		cfg.Options.Multipole = global.multipole
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = global.outputDir
	}

	report := cfg.Validate()
	if !report.Valid {
		printValidationReport(report)
		return nil, fmt.Errorf("deck file has validation errors")
	}
	return cfg, nil
}

// buildDeck builds the configured model with its settings overrides.
func buildDeck(cfg *config.Config) (*deck.Deck, error) {
	m, err := models.Get(cfg.Model)
	if err != nil {
		return nil, err
	}
	d, err := m.Build(cfg.Options, logger)
	if err != nil {
		return nil, err
	}
	cfg.ApplySettings(d.Settings)
	return d, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, false)
	if err != nil {
		return err
	}
	d, err := buildDeck(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	paths, err := export.Write(ctx, cfg.Output(), d, logger)
	if err != nil {
		return err
	}

	summary, report := analytics.Summarize(d)
	printSummary(summary)
	fmt.Println()
	for _, p := range paths {
		fmt.Printf("  wrote %s\n", p)
	}
	if len(report.Errors) > 0 || len(report.Warnings) > 0 {
		fmt.Println()
		printValidationReport(report)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, false)
	if err != nil {
		return err
	}
	d, err := buildDeck(cfg)
	if err != nil {
		return err
	}

	report := validation.NewReport()
	if err := d.Finalize(); err != nil {
		return err
	}
	report.Merge(d.Validate())
	_, analyticsReport := analytics.Summarize(d)
	report.Merge(analyticsReport)

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runDeplete(cmd *cobra.Command, args []string, dryRun bool, mpi string) error {
	cfg, err := loadConfig(cmd, args, true)
	if err != nil {
		return err
	}
	m, err := models.Get(cfg.Model)
	if err != nil {
		return err
	}
	d, plan, err := m.Deplete(cfg.Options, logger)
	if err != nil {
		return err
	}
	cfg.ApplyPlan(&plan)
	if cmd.Flags().Changed("mpi") {
		plan.Command = solverCommand(mpi)
	}

	driver := &depletion.Driver{
		Deck:   d,
		Plan:   plan,
		Runner: depletion.ExecRunner{Logger: logger},
		DryRun: dryRun,
		Logger: logger,
	}
	if report := driver.Validate(); !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("depletion plan has validation errors")
	}

	ctx, cancel := signalContext()
	defer cancel()
	man, err := driver.Run(ctx)
	if man != nil {
		printManifest(man)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("depletion interrupted; completed steps are recorded in %s", plan.OutputDir)
	}
	return err
}

// solverCommand puts the solver behind launcher.
func solverCommand(launcher string) []string {
	if launcher == "" {
		return []string{"openmc"}
	}
	return []string{launcher, "openmc"}
}

func runSolver(_ *cobra.Command, dir string, mpi string) error {
	ctx, cancel := signalContext()
	defer cancel()

	runner := depletion.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
	command := solverCommand(mpi)
	logger.Info("Running solver", zap.String("dir", dir), zap.Strings("command", command))
	return runner.Run(ctx, dir, command)
}

func runServe(cmd *cobra.Command, args []string, port int) error {
	cfg, err := loadConfig(cmd, args, false)
	if err != nil {
		return err
	}
	d, err := buildDeck(cfg)
	if err != nil {
		return err
	}
	srv, err := server.New(d, port, logger)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return srv.Start(ctx)
}
