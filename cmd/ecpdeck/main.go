package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// flags shared by every subcommand.
type flags struct {
	config    string
	verbose   bool
	tallies   string
	rings     int
	axial     int
	depleted  bool
	multipole bool
	outputDir string
}

var (
	global flags
	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ecpdeck",
		Short: "Generate Monte Carlo input decks for the SMR and colorset benchmarks",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			config := zap.NewProductionConfig()
			if global.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&global.config, "config", "", "deck file, or a directory holding deck.yaml")
	pf.BoolVarP(&global.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&global.tallies, "tallies", "mat", "depletion tally mode: cell or mat")
	pf.IntVar(&global.rings, "rings", 10, "equal-area fuel rings")
	pf.IntVar(&global.axial, "axial", 196, "axial fuel slices")
	pf.BoolVar(&global.depleted, "depleted", false, "use fuel compositions with fission products")
	pf.BoolVar(&global.multipole, "multipole", false, "use windowed multipole data")
	pf.StringVarP(&global.outputDir, "output-dir", "o", "", "directory for the input files")

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(depleteCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [model]",
		Short: "Build a model and write its input files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args)
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [model]",
		Short: "Build a model and validate it without writing files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}
}

func depleteCmd() *cobra.Command {
	var dryRun bool
	var mpi string

	cmd := &cobra.Command{
		Use:   "deplete [model]",
		Short: "Run a depletion schedule with the external solver",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeplete(cmd, args, dryRun, mpi)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "write every step's inputs without running the solver")
	cmd.Flags().StringVar(&mpi, "mpi", "mpirun", "MPI launcher in front of the solver; empty runs it directly")
	return cmd
}

func runCmd() *cobra.Command {
	var mpi string

	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Run the solver on a directory of input files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolver(cmd, args[0], mpi)
		},
	}
	cmd.Flags().StringVar(&mpi, "mpi", "", "MPI launcher in front of the solver")
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the available models",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			printModels()
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [model]",
		Short: "Build a model and serve its summary and input files over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
