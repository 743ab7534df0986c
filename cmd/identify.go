package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmiller/grimoire/internal/config"
	"github.com/jmiller/grimoire/internal/metadata"
	"github.com/jmiller/grimoire/internal/source"
	"github.com/jmiller/grimoire/internal/tui"
)

// IdentifyCmd represents the identify command
type IdentifyCmd struct {
	Title         string   `short:"t" help:"Book title to search for"`
	Author        []string `short:"a" help:"Author name (repeatable)"`
	Identifier    string   `short:"i" help:"Known identifier as site:id, skips the search for that site"`
	Limit         int      `short:"n" help:"Maximum number of results to print" default:"10"`
	Format        string   `short:"f" help:"Output format" enum:"json,yaml" default:"json"`
	NoInteractive bool     `help:"Print the ranked list instead of opening the result picker"`
}

func (i *IdentifyCmd) Run() error {
	query := source.Query{
		Title:   i.Title,
		Authors: i.Author,
	}

	if i.Identifier != "" {
		parts := strings.SplitN(i.Identifier, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("identifier must be site:id, got %q", i.Identifier)
		}
		query.Identifiers = map[string]string{parts[0]: parts[1]}
	}

	if query.Title == "" && len(query.Identifiers) == 0 {
		return fmt.Errorf("a title or an identifier is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout())
	defer cancel()

	catalog := source.FromConfig()

	results, err := catalog.Identify(ctx, query)
	if err != nil {
		return err
	}

	var records []*metadata.Record
	for record := range results {
		records = append(records, record)
	}

	if len(records) == 0 {
		slog.Info("No results found")
		return nil
	}

	if i.Limit > 0 && len(records) > i.Limit {
		records = records[:i.Limit]
	}

	// A single hit needs no picker
	if !i.NoInteractive && len(records) > 1 {
		selection, err := tui.Select(i.Title, records)
		if err != nil {
			return err
		}
		if selection.Action != tui.ActionSelected {
			return nil
		}
		records = []*metadata.Record{selection.Selection}
	}

	return printRecords(records, i.Format)
}

func printRecords(records []*metadata.Record, format string) error {
	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer func() { _ = encoder.Close() }()
		return encoder.Encode(records)
	default:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}
}
