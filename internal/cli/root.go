// Package cli implements catalogctl, an offline tool for inspecting category
// trees and drag results from a JSON export, and for running migrations.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Inspect category trees and reorder batches",
		Long: `catalogctl works on a JSON array of category records, the same shape the
back-office API returns:

  [{"id":"a","name":"Apparel","parentId":null,"order":0,"isActive":true}, ...]

Pass "-" as the file to read from stdin.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newTreeCommand())
	root.AddCommand(newReorderCommand())
	root.AddCommand(newMigrateCommand())
	return root
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadRecords(cmd *cobra.Command, path string) ([]tree.Record, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open records: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []tree.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records from %s: %w", path, err)
	}
	return records, nil
}
