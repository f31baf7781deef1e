// shoplist is the terminal client for the shopping list service.
//
// With no arguments it opens the interactive list manager. The watch
// subcommand prints the server's change feed, one line per change,
// until interrupted.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/dukerupert/shoplist/internal/api"
	"github.com/dukerupert/shoplist/internal/config"
	"github.com/dukerupert/shoplist/internal/logging"
	"github.com/dukerupert/shoplist/internal/tui"
	"github.com/dukerupert/shoplist/internal/watch"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := "tui"
	if len(args) > 0 && args[0] == "watch" {
		command, args = "watch", args[1:]
	}

	flagSet := pflag.NewFlagSet("shoplist", pflag.ContinueOnError)
	flags := config.RegisterFlags(flagSet)
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := config.Resolve(flagSet, flags, os.Getenv)
	if err != nil {
		return err
	}

	if command == "watch" {
		return runWatch(cfg)
	}
	return runTUI(cfg)
}

// openLog returns the log destination: the configured file, or fallback
// when none is set.
func openLog(cfg *config.Config, fallback io.Writer) (io.Writer, func(), error) {
	if cfg.LogFile == "" {
		return fallback, func() {}, nil
	}
	f, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func runTUI(cfg *config.Config) error {
	// Anything on stderr would corrupt the alt screen.
	w, closeLog, err := openLog(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := logging.Setup(cfg.LogLevel, w)

	client := api.NewClient(api.Config{
		BaseURL: cfg.APIURL,
		UserID:  cfg.UserID,
		Logger:  logger.With("component", "api"),
	})
	logger.Info("starting", "api_url", client.BaseURL(), "user_id", client.UserID())

	program := tea.NewProgram(tui.NewModel(client, logger.With("component", "tui")), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func runWatch(cfg *config.Config) error {
	w, closeLog, err := openLog(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := logging.Setup(cfg.LogLevel, w)

	feedURL, err := watch.FeedURL(cfg.APIURL)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := watch.NewPrinter(os.Stdout)
	return watch.Subscribe(ctx, feedURL, logger.With("component", "watch"), printer.Print)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `shoplist manages shopping lists from the terminal.

Usage:
  shoplist [flags]         open the interactive list manager
  shoplist watch [flags]   print live changes from the server

Configuration is read from %s (or --config),
then SHOPLIST_* environment variables, then flags.

Examples:
  # Use a remote server
  shoplist --api-url https://lists.example.com/api/v1

  # Debug API calls without disturbing the screen
  shoplist --log-level debug --log-file /tmp/shoplist.log

Flags:
`, config.DefaultPath())
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
