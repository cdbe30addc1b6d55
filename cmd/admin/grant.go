package main

import (
	"context"
	"fmt"
	"strings"

	"coursetracker/internal/security"
	"coursetracker/internal/service"
)

func (cli *commandLine) grant(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("grant")
	email := cmd.String("email", "", "The user's email address (required)")
	categories := cmd.String("categories", "", "Comma-separated category names, or * for every current category")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		cmd.Usage()
		return errHelp
	}

	actor, err := cli.operator(ctx)
	if err != nil {
		return err
	}

	names := splitList(*categories)
	granted, err := cli.rights.Grant(ctx, actor, security.Identity(*email), names)
	if err != nil {
		return err
	}

	list := make([]string, 0, len(granted))
	for _, c := range granted {
		list = append(list, c.Name)
	}
	if len(list) == 0 {
		fmt.Fprintf(cli.out, "%s now has no category rights\n", *email)
		return nil
	}
	fmt.Fprintf(cli.out, "%s may now work on: %s\n", *email, strings.Join(list, ", "))
	return nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == service.AllCategories {
		return []string{service.AllCategories}
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
