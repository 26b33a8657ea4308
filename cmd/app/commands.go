package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dspace-credstore/cmd/app/commands"
	"github.com/allisson/dspace-credstore/internal/app"
	"github.com/allisson/dspace-credstore/internal/config"
	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
)

// withCredentials builds the container for one invocation, hands the credential use case
// to run and flushes metrics and keeper resources afterwards.
func withCredentials(
	ctx context.Context,
	run func(container *app.Container, useCase credstoreUseCase.CredentialUseCase) error,
) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	container := app.NewContainer(cfg)
	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			container.Logger().Error("failed to shutdown container", slog.Any("error", err))
		}
	}()

	useCase, err := container.CredentialUseCase(ctx)
	if err != nil {
		return err
	}
	return run(container, useCase)
}

func requireName(cmd *cli.Command) (string, error) {
	name := cmd.Args().First()
	if name == "" {
		return "", errors.New("a secret name is required")
	}
	return name, nil
}

func getCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "get",
			Usage:     "Print the value stored under a name",
			ArgsUsage: "<name>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				name, err := requireName(cmd)
				if err != nil {
					return err
				}
				return withCredentials(ctx, func(c *app.Container, uc credstoreUseCase.CredentialUseCase) error {
					return commands.RunGet(ctx, uc, c.Logger(), commands.DefaultIO().Writer, name, cmd.String("format"))
				})
			},
		},
		{
			Name:      "set",
			Usage:     "Store a JSON value under a name",
			ArgsUsage: "<name> [json]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "value-file",
					Usage: "Read the value from a file, '-' for stdin",
				},
				&cli.BoolFlag{
					Name:  "string",
					Usage: "Store the value as a JSON string instead of parsing it",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				name, err := requireName(cmd)
				if err != nil {
					return err
				}
				input := commands.SetInput{
					Name:      name,
					Value:     cmd.Args().Get(1),
					ValueFile: cmd.String("value-file"),
					AsString:  cmd.Bool("string"),
				}
				return withCredentials(ctx, func(c *app.Container, uc credstoreUseCase.CredentialUseCase) error {
					return commands.RunSet(ctx, uc, c.Logger(), commands.DefaultIO(), input)
				})
			},
		},
		{
			Name:      "delete",
			Usage:     "Remove the value stored under a name",
			ArgsUsage: "<name>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				name, err := requireName(cmd)
				if err != nil {
					return err
				}
				return withCredentials(ctx, func(c *app.Container, uc credstoreUseCase.CredentialUseCase) error {
					return commands.RunDelete(ctx, uc, c.Logger(), commands.DefaultIO().Writer, name)
				})
			},
		},
		{
			Name:  "list",
			Usage: "List stored names",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCredentials(ctx, func(c *app.Container, uc credstoreUseCase.CredentialUseCase) error {
					return commands.RunList(ctx, uc, commands.DefaultIO().Writer, cmd.String("format"))
				})
			},
		},
		{
			Name:  "status",
			Usage: "Show whether the store exists and whether a key is cached",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCredentials(ctx, func(c *app.Container, uc credstoreUseCase.CredentialUseCase) error {
					return commands.RunStatus(ctx, uc, commands.DefaultIO().Writer, cmd.String("format"))
				})
			},
		},
		{
			Name:  "logout",
			Usage: "Forget the cached store key",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCredentials(ctx, func(c *app.Container, uc credstoreUseCase.CredentialUseCase) error {
					return commands.RunLogout(ctx, uc, commands.DefaultIO().Writer)
				})
			},
		},
		{
			Name:  "reset",
			Usage: "Delete the store and the cached key",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "force",
					Usage: "Do not ask for confirmation",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCredentials(ctx, func(c *app.Container, uc credstoreUseCase.CredentialUseCase) error {
					return commands.RunReset(
						ctx,
						uc,
						c.Prompter(),
						c.Logger(),
						commands.DefaultIO().Writer,
						cmd.Bool("force"),
					)
				})
			},
		},
	}
}
