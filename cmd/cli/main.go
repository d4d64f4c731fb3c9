package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Philanthropists/outcome/internal/logging"
)

var GitCommit string

// errFailedOutcome reports that the command ran but its outcome was a
// failure; the outcome itself has already been printed.
var errFailedOutcome = errors.New("outcome is a failure")

func version() string {
	if len(GitCommit) >= 7 {
		return GitCommit[:7]
	}

	return "dev"
}

func configureLogger(debug bool) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	logging.SetGlobalLogger(logger.With(zap.String("version", version())))

	return nil
}

func makeApp() *cli.Command {
	return &cli.Command{
		Name:    "outcome",
		Usage:   "Query Toshl autosync services and print their outcomes",
		Version: version(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "credentials",
				Usage:   "path to the JSON credentials file",
				Sources: cli.EnvVars("OUTCOME_CREDENTIALS"),
				Value:   "credentials.json",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "output debug logs",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, configureLogger(cmd.Bool("debug"))
		},
		Commands: []*cli.Command{
			userCommand(),
			accountsCommand(),
			categoryCommand(),
			mailboxCommand(),
			smsCommand(),
			processedCommand(),
		},
	}
}

func main() {
	err := makeApp().Run(context.Background(), os.Args)
	_ = logging.New().Sync()

	switch {
	case err == nil:
	case errors.Is(err, errFailedOutcome):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, badColor("error:"), err)
		os.Exit(1)
	}
}
