package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"golang.org/x/term"

	"coursetracker/internal/models"
	"coursetracker/internal/repository"
	"coursetracker/internal/security"
	"coursetracker/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp    = errors.New("help provided")
	errNoAdmin = errors.New("no administrator exists; run adduser first")
)

// migrator is the schema control surface of database.DB
type migrator interface {
	RunMigrations() error
	RollbackMigration() error
	MigrationVersion() (uint, bool, error)
}

type commandLine struct {
	migrator migrator
	store    repository.Store
	out      io.Writer

	auth    *service.AuthService
	users   *service.UserService
	rights  *service.RightsService
	catalog *service.CatalogService
	exports *service.ExportService
}

func newCommandLine(m migrator, deps service.Deps, hasher *security.Hasher, ttl time.Duration, out io.Writer) *commandLine {
	rights := service.NewRightsService(deps)
	archive := service.NewArchiveService(deps)
	return &commandLine{
		migrator: m,
		store:    deps.Store,
		out:      out,
		auth:     service.NewAuthService(deps, hasher, ttl),
		users:    service.NewUserService(deps, archive),
		rights:   rights,
		catalog:  service.NewCatalogService(deps, rights, archive),
		exports:  service.NewExportService(deps, archive, service.NewReportService(deps)),
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate up|down|version                          - manage the database schema")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME [-admin] [-password] - create an account")
	fmt.Fprintln(cli.out, "  grant -email EMAIL -categories A,B|*             - replace a user's category rights")
	fmt.Fprintln(cli.out, "  seed -categories FILE [-courses FILE.csv]        - populate categories and courses")
	fmt.Fprintln(cli.out, "  reap-sessions                                    - delete expired login sessions")
	fmt.Fprintln(cli.out, "  export [-format json|xlsx] [-output FILE]        - write archive and leaderboard")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()
	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])
	case "adduser":
		return cli.addUser(ctx, args[2:])
	case "grant":
		return cli.grant(ctx, args[2:])
	case "seed":
		return cli.seed(ctx, args[2:])
	case "reap-sessions":
		return cli.reapSessions(ctx)
	case "export":
		return cli.export(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// operator returns the administrator on whose behalf CLI changes are made
func (cli *commandLine) operator(ctx context.Context) (*models.User, error) {
	users, err := cli.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].IsAdmin {
			return &users[i], nil
		}
	}
	return nil, errNoAdmin
}

func (cli *commandLine) reapSessions(ctx context.Context) error {
	n, err := cli.auth.ReapExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "removed %d expired session(s)\n", n)
	return nil
}
