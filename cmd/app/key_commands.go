package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/attendance/cmd/app/commands"
	"github.com/allisson/attendance/internal/app"
	"github.com/allisson/attendance/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "export-keys",
			Usage: "Print the key sheet of a course for offline archival",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "course",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Course name (e.g., CS101)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				resolver, err := container.KeyResolver()
				if err != nil {
					return err
				}

				return commands.RunExportKeys(
					ctx,
					resolver,
					container.Logger(),
					cmd.String("course"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "verify-ledger",
			Usage: "Verify the cryptographic digest chain of a course's ledger",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "course",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Course name (e.g., CS101)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				ledger, err := container.Ledger()
				if err != nil {
					return err
				}

				return commands.RunVerifyLedger(
					ctx,
					ledger,
					container.Logger(),
					cmd.String("course"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
