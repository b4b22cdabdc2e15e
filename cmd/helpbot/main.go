package main

//  _          _       _           _
// | |__   ___| |_ __ | |__   ___ | |_
// | '_ \ / _ \ | '_ \| '_ \ / _ \| __|
// | | | |  __/ | |_) | |_) | (_) | |_
// |_| |_|\___|_| .__/|_.__/ \___/ \__|
//              |_|

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"pkdindustries/helpbot/internal/bot"
	"pkdindustries/helpbot/internal/config"
)

func main() {
	fmt.Printf("%s\n", bot.GetBanner(bot.Version))

	cmd := &cli.Command{
		Name:    "helpbot",
		Usage:   "keeps the help topics of a community channel",
		Version: bot.Version,
		Flags:   config.GetFlags(),
		Action:  runBot,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runBot(ctx context.Context, c *cli.Command) error {
	cfg := config.NewConfiguration(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return bot.Run(ctx, cfg)
}
