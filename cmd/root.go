package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tread-bot/config"
	"tread-bot/internal/container"
	"tread-bot/internal/infrastructure/storage"
	"tread-bot/internal/infrastructure/vision"
	"tread-bot/internal/logging"
)

// NewRootCmd создаёт корневую команду tread-bot
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tread-bot",
		Short: "Tyre tread wear estimation from photos",
		Long: `tread-bot checks that a photo shows a tyre, estimates tread wear
and renders a comparison panel with reference wear levels.

Run "tread-bot bot" to start the Telegram bot, or process local files
with the crop, classify and wear commands.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewBotCmd())
	cmd.AddCommand(NewCropCmd())
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewWearCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute запускает корневую команду
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliEnv хранит то, что нужно каждой команде: конфигурация, логгер и сервисы.
type cliEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	app    *container.Container
}

// setup загружает конфигурацию и собирает контейнер.
// tweak позволяет команде поправить параметры анализа до сборки.
func setup(cmd *cobra.Command, tweak func(*config.Analysis)) (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}

	logger := logging.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	if tweak != nil {
		tweak(cfg.Analysis)
		if err := cfg.Analysis.Validate(); err != nil {
			return nil, err
		}
	}

	appContainer := container.New(
		storage.NewMemoryUserRepository(),
		container.NewAnalyzers(cfg.Analysis),
		logger,
	)

	return &cliEnv{cfg: cfg, logger: logger, app: appContainer}, nil
}

// warnNoVision предупреждает, что классификатор и оценка износа не собраны.
func (e *cliEnv) warnNoVision() {
	if !vision.Enabled {
		e.logger.Warn("built without the gocv tag: every photo will be rejected and wear analysis is unavailable")
	}
}
