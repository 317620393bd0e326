package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"templegraph/backend/internal/constants"
	"templegraph/backend/internal/graph"
	"templegraph/backend/pkg/config"
	"templegraph/backend/pkg/logger"
)

var (
	cfg        *config.Config
	dataFile   string
	formatFlag string
	skipPrompt bool
)

var rootCmd = &cobra.Command{
	Use:   "templegraph",
	Short: "Build and query a knowledge graph of Hindu temples",
	Long: `templegraph reads a JSON document of temples grouped by region,
extracts deities, scriptures, architectural styles and festivals from the
prose fields, and writes the result into Neo4j as a property graph.`,
	PersistentPreRunE: initApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load the temple document, then print statistics and sample queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(cmd.Context(), func(repo *graph.Repository) error {
			return runPipeline(cmd.Context(), repo, cmd.OutOrStdout(), pipelineOptions{
				DataFile: resolveDataFile(),
				Format:   resolveFormat(),
				Load:     true,
				Queries:  true,
			})
		})
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Clear the graph and load the temple document",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(cmd.Context(), func(repo *graph.Repository) error {
			return runPipeline(cmd.Context(), repo, cmd.OutOrStdout(), pipelineOptions{
				DataFile: resolveDataFile(),
				Format:   resolveFormat(),
				Load:     true,
			})
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print statistics and sample queries for the current graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(cmd.Context(), func(repo *graph.Repository) error {
			return runPipeline(cmd.Context(), repo, cmd.OutOrStdout(), pipelineOptions{
				Format:  resolveFormat(),
				Queries: true,
			})
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every node and re-declare constraints",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !skipPrompt && !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
			logger.Get().Info("Aborted")
			return nil
		}
		return withRepository(cmd.Context(), func(repo *graph.Repository) error {
			return resetGraph(cmd.Context(), repo)
		})
	},
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer logger.Sync()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, loadCmd} {
		cmd.Flags().StringVarP(&dataFile, "file", "f", "",
			fmt.Sprintf("temple JSON document (default $TEMPLE_DATA_FILE or %s)", constants.DefaultDataFile))
	}
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "",
		"report format: text, json or yaml (default $REPORT_FORMAT or text)")
	resetCmd.Flags().BoolVarP(&skipPrompt, "yes", "y", false, "skip the confirmation prompt")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)
}

// initApp loads configuration and starts the logger before any subcommand runs
func initApp(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if formatFlag != "" && !config.ValidFormat(formatFlag) {
		return fmt.Errorf("unsupported output format: %s (use text, json or yaml)", formatFlag)
	}
	if err := logger.Init(loaded.Env, loaded.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	cfg = loaded
	return nil
}

// withRepository connects to Neo4j, runs fn and closes the driver on every path.
// Failures are logged together with a hint on how to reach the server.
func withRepository(ctx context.Context, fn func(repo *graph.Repository) error) error {
	log := logger.Get()
	hint := fmt.Sprintf(constants.ConnectionHint, cfg.Neo4jURI)

	driver, err := graph.Connect(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to Neo4j", zap.Error(err), zap.String("hint", hint))
		return err
	}
	log.Info("Connected to Neo4j", zap.String("uri", cfg.Neo4jURI))

	repo := graph.NewRepository(driver).WithDatabase(cfg.Neo4jDatabase)
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			log.Warn("Failed to close Neo4j driver", zap.Error(err))
		}
	}()

	if err := fn(repo); err != nil {
		log.Error("Command failed", zap.Error(err), zap.String("hint", hint))
		return err
	}
	return nil
}

func resolveDataFile() string {
	if dataFile != "" {
		return dataFile
	}
	return cfg.DataFile
}

func resolveFormat() string {
	if formatFlag != "" {
		return formatFlag
	}
	return cfg.ReportFormat
}
