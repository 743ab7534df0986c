package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmiller/grimoire/internal/config"
	"github.com/jmiller/grimoire/internal/fileutil"
	"github.com/jmiller/grimoire/internal/source"
)

// CoverCmd represents the cover download command
type CoverCmd struct {
	Identifier string `arg:"" help:"Product identifier as site:id (e.g. dmsguild:17003)"`
	Output     string `short:"o" help:"Path to write the cover to (defaults to '<id> - cover.jpg')"`
	MaxWidth   int    `help:"Resize covers wider than this many pixels (0 disables resizing)" default:"1000"`
	Force      bool   `help:"Overwrite an existing cover file"`
}

func (c *CoverCmd) Run() error {
	parts := strings.SplitN(c.Identifier, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("identifier must be site:id, got %q", c.Identifier)
	}
	site, id := parts[0], parts[1]

	output := c.Output
	if output == "" {
		output = fileutil.BuildCoverFilename(id)
	}

	if !c.Force && fileutil.FileExists(output) {
		return fmt.Errorf("%s already exists, use --force to overwrite", output)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout())
	defer cancel()

	catalog := source.FromConfig()

	data, err := catalog.DownloadCover(ctx, site, id)
	if err != nil {
		return err
	}

	if err := fileutil.SaveCover(data, output, c.MaxWidth); err != nil {
		return err
	}

	slog.Info("Downloaded cover", "site", site, "id", id, "path", output)
	return nil
}
