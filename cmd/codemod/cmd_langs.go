package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/codemod-rs/codemod-go/internal/parserloader"
)

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "Manage dynamically-loaded tree-sitter grammars",
}

var langsDownloadCmd = &cobra.Command{
	Use:   "download [names...]",
	Short: "Fetch and register dynamic grammars ahead of time",
	RunE:  runLangsDownload,
}

func init() {
	langsCmd.AddCommand(langsDownloadCmd)
}

func runLangsDownload(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		for _, l := range parserloader.Registry {
			names = append(names, l.Name)
		}
	}

	for _, name := range names {
		if _, ok := parserloader.Find(name); !ok {
			return fmt.Errorf("langs download: %q is not a known dynamic language", name)
		}
	}

	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription("fetching grammar"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
	progress := func(downloaded, total int64) {
		if total > 0 && bar.GetMax64() != total {
			bar.ChangeMax64(total)
		}
		bar.Set64(downloaded)
		if downloaded >= total && total > 0 {
			bar.Finish()
		}
	}

	// parserloader.Load registers its downloads behind a process-wide
	// sync.Once, so every requested language is passed in a single call
	// rather than looped one at a time (a second call would be a no-op).
	if err := parserloader.Load(names, progress); err != nil {
		return fmt.Errorf("langs download: %w", err)
	}
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ready\n", name)
	}
	return nil
}
