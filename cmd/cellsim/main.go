package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slog"
)

const appName = "cellsim"

type environment struct {
	config *Config
	logger *slog.Logger
	out    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	env := &environment{out: stdout}

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "load settings from a yaml `FILE`",
	}
	logLevelFlag := &cli.StringFlag{
		Name:  "log-level",
		Usage: "one of debug, info, warn or error",
	}

	return &cli.App{
		Name:      appName,
		Usage:     "simulate placement strategies over a linear address space",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     []cli.Flag{configFlag, logLevelFlag},
		Before: func(c *cli.Context) error {
			config, err := LoadConfig(c.String(configFlag.Name))
			if err != nil {
				return err
			}

			if c.IsSet(logLevelFlag.Name) {
				config.LogLevel = c.String(logLevelFlag.Name)
			}

			if err := config.Validate(); err != nil {
				return err
			}

			level, err := config.Level()
			if err != nil {
				return err
			}

			env.config = config
			env.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
		Commands: []*cli.Command{
			runCommand(env),
			compareCommand(env),
			layoutCommand(env),
		},
	}
}
