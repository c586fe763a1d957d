// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/oliverandrich/tokenapi/internal/config"
	"codeberg.org/oliverandrich/tokenapi/internal/database"
	"codeberg.org/oliverandrich/tokenapi/internal/repository"
	"codeberg.org/oliverandrich/tokenapi/internal/services/auth"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Terminal access, stubbed in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

func userCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage API users",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user that can request tokens",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Login name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Usage:   "Password (prompted when omitted)",
						Sources: cli.EnvVars("USER_PASSWORD"),
					},
				},
				Action: createUser,
			},
		},
	}
}

func createUser(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	out := cmd.Root().Writer

	password := cmd.String("password")
	if password == "" {
		var err error
		password, err = promptPassword(out, cmd.Root().Reader)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	db, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	svc := auth.NewService(repository.New(db))
	user, err := svc.CreateUser(ctx, cmd.String("name"), password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "created user %q (id %d)\n", user.Name, user.ID)
	return err
}

// promptPassword reads the password without echo from a terminal, or as a
// single line from in otherwise.
func promptPassword(w io.Writer, in io.Reader) (string, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return "", err
	}

	fd := int(os.Stdin.Fd())
	if in == os.Stdin && isTerminal(fd) {
		pw, err := readPassword(fd)
		_, _ = fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
