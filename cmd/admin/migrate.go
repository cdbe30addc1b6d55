package main

import "fmt"

func (cli *commandLine) migrate(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "up":
		if err := cli.migrator.RunMigrations(); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "migrations applied")
	case "down":
		if err := cli.migrator.RollbackMigration(); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "rolled back one migration")
	case "version":
		version, dirty, err := cli.migrator.MigrationVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "version %d (dirty: %t)\n", version, dirty)
	default:
		return fmt.Errorf("%q: no such command", args[0])
	}
	return nil
}
