package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	telegram "tread-bot/internal/api"
)

// NewBotCmd создаёт команду запуска Telegram-бота
func NewBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Run the Telegram bot. The token is read from TELEGRAM_TOKEN
(environment or .env file).`,
		Args: cobra.NoArgs,
		RunE: runBotCmd,
	}
}

func runBotCmd(cmd *cobra.Command, _ []string) error {
	rt, err := setup(cmd, nil)
	if err != nil {
		return err
	}

	if rt.cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	rt.warnNoVision()

	bot, err := telegram.NewBot(rt.cfg.TelegramToken, rt.app, rt.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt.logger.Info("bot is running")
	return bot.Run(ctx)
}
