package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"coursetracker/internal/service"
)

func (cli *commandLine) export(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("export")
	format := cmd.String("format", "json", "Output format: json or xlsx")
	output := cmd.String("output", "", "Output file path (default: export_YYYYMMDD_HHMMSS.<format>)")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	write := service.WriteJSON
	switch *format {
	case "json":
	case "xlsx":
		write = service.WriteXLSX
	default:
		return fmt.Errorf("unsupported export format %q", *format)
	}

	actor, err := cli.operator(ctx)
	if err != nil {
		return err
	}
	data, err := cli.exports.Export(ctx, actor)
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = fmt.Sprintf("export_%s.%s", time.Now().Format("20060102_150405"), *format)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f, data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "exported %d archived entries and %d leaderboard rows to %s\n", len(data.Archive), len(data.Leaderboard), path)
	return nil
}
