package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yigit/ratemyteacher/internal/bootstrap"
	"github.com/yigit/ratemyteacher/internal/config"
	"github.com/yigit/ratemyteacher/internal/seed"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errEmptySecret = errors.New("no value entered")
)

// storeOpener loads the configuration and opens a migrated store
type storeOpener func(ctx context.Context) (*config.Config, *bootstrap.Store, error)

type commandLine struct {
	open   storeOpener
	out    io.Writer
	logger zerolog.Logger
}

func (cl *commandLine) app() *cli.App {
	return &cli.App{
		Name:      "admin",
		Usage:     "operator tasks for the Rate My Teacher backend",
		Writer:    cl.out,
		ErrWriter: cl.out,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: cl.migrate,
			},
			{
				Name:   "reset-admin-secret",
				Usage:  "replace the admin secret, the new value is prompted",
				Action: cl.resetAdminSecret,
			},
			{
				Name:  "reset-password",
				Usage: "replace a student's password, the new value is prompted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "account to reset", Required: true},
				},
				Action: cl.resetPassword,
			},
			{
				Name:   "seed-demo",
				Usage:  "fill an empty catalog with demo schools, classes and teachers",
				Action: cl.seedDemo,
			},
		},
	}
}

func (cl *commandLine) run(ctx context.Context, args []string) error {
	return cl.app().RunContext(ctx, args)
}

// withDependencies opens the store, builds the services and runs fn
func (cl *commandLine) withDependencies(ctx context.Context, fn func(cfg *config.Config, deps *bootstrap.Dependencies) error) error {
	cfg, store, err := cl.open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	deps, err := bootstrap.BuildDependencies(cfg, store.Repos, cl.logger)
	if err != nil {
		return err
	}
	return fn(cfg, deps)
}

func (cl *commandLine) migrate(c *cli.Context) error {
	_, store, err := cl.open(c.Context)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(cl.out, "schema is up to date (%d migration(s) applied)\n", store.Applied)
	return nil
}

func (cl *commandLine) resetAdminSecret(c *cli.Context) error {
	secret, err := cl.prompt("Enter new admin secret: ")
	if err != nil {
		return err
	}

	return cl.withDependencies(c.Context, func(cfg *config.Config, deps *bootstrap.Dependencies) error {
		if err := bootstrap.EnsureDefaults(c.Context, cfg, deps); err != nil {
			return err
		}
		if err := deps.AdminConfigService.ChangeSecret(c.Context, secret); err != nil {
			return err
		}
		fmt.Fprintln(cl.out, "admin secret updated")
		return nil
	})
}

func (cl *commandLine) resetPassword(c *cli.Context) error {
	username := strings.TrimSpace(c.String("username"))
	password, err := cl.prompt("Enter new password: ")
	if err != nil {
		return err
	}

	return cl.withDependencies(c.Context, func(_ *config.Config, deps *bootstrap.Dependencies) error {
		if err := deps.UserService.ResetPasswordByUsername(c.Context, username, password); err != nil {
			return err
		}
		fmt.Fprintf(cl.out, "password of %s updated\n", username)
		return nil
	})
}

func (cl *commandLine) seedDemo(c *cli.Context) error {
	return cl.withDependencies(c.Context, func(_ *config.Config, deps *bootstrap.Dependencies) error {
		created, err := seed.CreateDemoData(c.Context, deps.CatalogService, deps.TeacherService, cl.logger)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintln(cl.out, "demo data created")
		} else {
			fmt.Fprintln(cl.out, "catalog already has schools, nothing to do")
		}
		return nil
	})
}

// prompt reads a value from the terminal without echoing it
func (cl *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cl.out, label)
	value, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cl.out)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(value) == 0 {
		return "", errEmptySecret
	}
	return string(value), nil
}
