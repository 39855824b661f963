package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/lines/internal"
	pkgconfig "github.com/starford/lines/pkg/config"
)

func options(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cmd.Bool("no-clear") {
		cfg.Session.ClearScreen = false
	}

	return []internal.Option{
		internal.WithConfig(cfg),
	}, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, cmd.Args().First(), opts...); err != nil {
		return fmt.Errorf("lines: %w", err)
	}
	return nil
}

func files(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.Files(ctx, cmd.Args().First(), opts...)
}

func followNote(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.Follow(ctx, cmd.Args().First(), opts...)
}

func check(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.Check(ctx, opts...)
}

func recoverNote(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.Recover(ctx, cmd.Args().First(), opts...)
}

func main() {
	cmd := &cli.Command{
		Name:      "lines",
		Usage:     "Append-only journal: type a line, it is safely appended to today's note",
		ArgsUsage: "[path-or-name]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (optional)",
				Sources: cli.EnvVars("LINES_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "no-clear",
				Usage: "Do not clear the screen between entries",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "files",
				Usage:     "Open the notes directory (or dir) in the file manager",
				ArgsUsage: "[dir]",
				Action:    files,
			},
			{
				Name:      "follow",
				Usage:     "Print a note's tail and refresh it whenever the note changes",
				ArgsUsage: "[path-or-name]",
				Action:    followNote,
			},
			{
				Name:   "check",
				Usage:  "List notes and report backups left by interrupted writes",
				Action: check,
			},
			{
				Name:      "recover",
				Usage:     "Restore a note from the backup left by an interrupted write",
				ArgsUsage: "[path-or-name]",
				Action:    recoverNote,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
