package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"coursetracker/internal/models"
	"coursetracker/internal/service"
)

func (cli *commandLine) addUser(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("adduser")
	email := cmd.String("email", "", "The user's email address (required)")
	name := cmd.String("name", "", "The user's display name (required)")
	admin := cmd.Bool("admin", false, "Create an administrator")
	withPassword := cmd.Bool("password", false, "Prompt for a password instead of leaving the account pending validation")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		cmd.Usage()
		return errHelp
	}

	input := service.NewUserInput{Email: *email, Name: *name, Admin: *admin}

	count, err := cli.store.Users().Count(ctx)
	if err != nil {
		return err
	}

	var user *models.User
	if count == 0 {
		// the first account is always the bootstrap administrator
		user, err = cli.users.Bootstrap(ctx, input)
	} else {
		var actor *models.User
		if actor, err = cli.operator(ctx); err != nil {
			return err
		}
		user, err = cli.users.AddUser(ctx, actor, input)
	}
	if err != nil {
		return err
	}

	if *withPassword {
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(strings.TrimSpace(string(pwd))) == 0 {
			return fmt.Errorf("empty password; %s was left pending validation", user.Email)
		}
		if err := cli.auth.ValidateUser(ctx, user.Identity, string(pwd)); err != nil {
			return err
		}
	}

	role := "member"
	if user.IsAdmin {
		role = "administrator"
	}
	fmt.Fprintf(cli.out, "created %s %s (identity %s)\n", role, user.Email, user.Identity)
	if !user.Validated() && !*withPassword {
		fmt.Fprintf(cli.out, "validate with identity %s to set a password\n", user.Identity)
	}
	return nil
}
