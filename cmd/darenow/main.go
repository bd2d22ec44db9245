// The `darenow` CLI signs operators in and out of the DareNow API and works with the
// restaurant bookings of the signed-in place. Sessions are shared with the console server
// through the configured session store.
//
// Usage:
//
//	darenow login admin|restaurant     sign in (prompts for the password)
//	darenow logout admin|restaurant|all
//	darenow whoami [--json]            show both sessions
//	darenow passwd                     change the admin password
//	darenow bookings [list|cancel <id>]
//	darenow slots --date YYYY-MM-DD --meal lunch
//	darenow search [term]
//	darenow status                     configuration and store summary
//	darenow watch                      follow session changes
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dareNowConsole/internal/config"
	"dareNowConsole/internal/shared/logging"
)

var version = "dev"

type command func(ctx context.Context, a *app, args []string, out io.Writer) error

var commands = map[string]command{
	"login":    runLogin,
	"logout":   runLogout,
	"whoami":   runWhoAmI,
	"me":       runWhoAmI,
	"passwd":   runPasswd,
	"bookings": runBookings,
	"slots":    runSlots,
	"search":   runSearch,
	"status":   runStatus,
	"watch":    runWatch,
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	name := os.Args[1]
	switch name {
	case "help", "--help", "-h":
		printUsage(os.Stdout)
		return
	case "version":
		fmt.Printf("darenow %s\n", version)
		return
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := godotenv.Overload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	level := cfg.Logging.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	if _, _, err := logging.Setup(os.Stderr, logging.Config{Level: level, Format: cfg.Logging.Format}); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		fatal(err)
	}
	err = cmd(ctx, a, os.Args[2:], os.Stdout)
	a.Close()
	if err != nil {
		fatal(err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `darenow — DareNow restaurant console

Usage:
  darenow login admin [--user NAME] [--password-stdin]
  darenow login restaurant [--email ADDR] [--password-stdin]
  darenow logout admin|restaurant|all
  darenow whoami [--json]          Show both sessions and token claims
  darenow passwd                   Change the admin password
  darenow bookings [--page N] [--size N]
  darenow bookings cancel <id>
  darenow slots --date YYYY-MM-DD --meal breakfast|lunch|dinner
  darenow search [term] [--page N]
  darenow status                   Configuration and session summary
  darenow watch                    Follow session changes until interrupted
  darenow version`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "❌ %s\n", userMessage(err))
	os.Exit(1)
}
