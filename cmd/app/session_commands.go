package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/attendance/cmd/app/commands"
	"github.com/allisson/attendance/internal/app"
	"github.com/allisson/attendance/internal/config"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

func getSessionCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "register",
			Usage: "Run an interactive registration session for a course",
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

				recorder, err := container.Recorder()
				if err != nil {
					return err
				}

				return commands.RunRegister(
					ctx,
					recorder,
					container.Logger(),
					cmd.String("course"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "lesson",
			Usage: "Run an interactive check-in session for a lesson",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "course",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Course name (e.g., CS101)",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Lesson name (e.g., 'Lecture 5')",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				recorder, err := container.Recorder()
				if err != nil {
					return err
				}

				op := keysDomain.Operation{
					Kind:      keysDomain.KindLesson,
					Course:    cmd.String("course"),
					Qualifier: cmd.String("name"),
				}

				return commands.RunPresenceSession(
					ctx,
					recorder,
					container.Logger(),
					op,
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "exam",
			Usage: "Run an interactive check-in session for an exam",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "course",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Course name (e.g., CS101)",
				},
				&cli.StringFlag{
					Name:     "date",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Exam date in dd-mm-yyyy format (e.g., 15-06-2026)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				recorder, err := container.Recorder()
				if err != nil {
					return err
				}

				op := keysDomain.Operation{
					Kind:      keysDomain.KindExam,
					Course:    cmd.String("course"),
					Qualifier: cmd.String("date"),
				}

				return commands.RunPresenceSession(
					ctx,
					recorder,
					container.Logger(),
					op,
					commands.DefaultIO(),
				)
			},
		},
	}
}
