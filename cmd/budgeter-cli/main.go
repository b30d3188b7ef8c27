package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"budgeter/internal/client"
	"budgeter/internal/session"
)

var (
	flagServer     string
	flagTimeout    time.Duration
	flagSkipAdvice bool
	flagConfig     string
	flagAccessible bool
)

var rootCmd = &cobra.Command{
	Use:          "budgeter-cli",
	Short:        "Interactive paycheck budgeter",
	Long:         "Collect a paycheck and spending categories, ask for investment advice, and compute a budget on the budgeter server.",
	SilenceUsage: true,
	RunE:         runSession,
}

func init() {
	rootCmd.Flags().StringVar(&flagServer, "server", "", "Budgeter server URL (default from config file or "+client.DefaultServerURL+")")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout (default from config file or 5s)")
	rootCmd.Flags().BoolVar(&flagSkipAdvice, "skip-advice", false, "Skip the investment questions and AI advice")
	rootCmd.Flags().StringVar(&flagConfig, "config", client.ConfigPath(), "Config file path")
	rootCmd.Flags().BoolVar(&flagAccessible, "accessible", os.Getenv("ACCESSIBLE") != "", "Use plain line-based prompts")
}

func runSession(cmd *cobra.Command, _ []string) error {
	cfg, err := client.LoadConfig(flagConfig)
	if err != nil {
		return err
	}

	server := cfg.Server.URL
	if flagServer != "" {
		server = flagServer
	}
	timeout := cfg.TimeoutDuration()
	if flagTimeout > 0 {
		timeout = flagTimeout
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := session.New(
		session.HuhPrompter{Accessible: flagAccessible},
		client.New(server, timeout),
		cmd.OutOrStdout(),
		session.Options{SkipAdvice: flagSkipAdvice},
	)
	err = s.Run(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
		return nil
	}
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
