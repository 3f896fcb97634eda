package commands

// Root command for the chart service CLI.
// Registers the serve, render and export subcommands and the shared dataset flags.

import (
	"ChartService/internal/config"
	"ChartService/internal/data"
	"ChartService/internal/render"
	"ChartService/internal/service"
	"ChartService/pkg/logger"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "chart-service",
	Short: "Chart Service - validate chart requests and render figures from a tabular dataset",
	Long: `Chart Service validates chart requests against per-type rules and turns them into
Plotly figures or PNG images. The dataset is generated sample financial data or an xlsx file.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")
	flags.Int("days", 365, "days of sample data to generate")
	flags.Int64("seed", 42, "random seed for sample data")
	flags.String("data-file", "", "load the dataset from this xlsx file instead of generating it")
	flags.String("sheet", data.SheetName, "worksheet to read from --data-file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
}

// app holds everything a subcommand needs
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *data.InMemoryDatasetStore
	service *service.ChartService
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	ds, source, err := service.LoadDataset(service.DatasetSource{
		File:  cfg.Dataset.File,
		Sheet: cfg.Dataset.Sheet,
		Days:  cfg.Dataset.Days,
		Seed:  cfg.Dataset.Seed,
	}, log)
	if err != nil {
		log.Error("failed to load dataset", zap.Error(err))
		return nil, err
	}

	store := data.NewInMemoryDatasetStoreWithConfig(data.StoreConfig{
		DefaultPreviewRows: cfg.Preview.DefaultLimit,
		MaxPreviewRows:     cfg.Preview.MaxLimit,
	})
	if err := store.Replace(ds, source); err != nil {
		return nil, err
	}

	renderer := render.NewGuardedRenderer(
		render.NewPNGRenderer(cfg.Render.Width, cfg.Render.Height),
		render.BreakerConfig{
			MaxFailures: cfg.Render.MaxFailures,
			Timeout:     cfg.Render.BreakerTimeout,
			Interval:    render.DefaultBreakerConfig().Interval,
		},
		log,
	)

	return &app{
		cfg:     cfg,
		logger:  log,
		store:   store,
		service: service.NewChartService(store, renderer, log),
	}, nil
}
