package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fekuna/omnipos-backoffice/internal/category/expanded"
	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
)

type treeOptions struct {
	query    string
	expanded []string
	all      bool
	asJSON   bool
}

func newTreeCommand() *cobra.Command {
	opts := &treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree <records.json>",
		Short: "Print the category tree as the back-office shows it",
		Long: `Print the visible rows of the category tree.

Only children of expanded nodes are shown. A --query keeps matching categories
and their ancestors, and expands every ancestor of a match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(cmd, args[0])
			if err != nil {
				return err
			}
			return runTree(cmd.Context(), cmd.OutOrStdout(), records, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Filter by name or description")
	cmd.Flags().StringSliceVarP(&opts.expanded, "expanded", "e", nil, "Ids of expanded categories")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Expand every category")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the filtered forest as JSON")
	return cmd
}

func runTree(ctx context.Context, out io.Writer, records []tree.Record, opts *treeOptions) error {
	set, err := expandedSet(ctx, records, opts.query, opts.expanded, opts.all)
	if err != nil {
		return err
	}

	forest := tree.BuildFilteredTree(records, opts.query, nil, 0)
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(forest)
	}

	for _, n := range tree.Flatten(forest, set) {
		marker := " "
		if len(n.Children) > 0 {
			marker = "+"
			if set.Has(n.ID) {
				marker = "-"
			}
		}
		line := fmt.Sprintf("%s%s %s (%s)", strings.Repeat("  ", n.Level), marker, n.Name, n.ID)
		if !n.IsActive {
			line += " [inactive]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// expandedSet runs the same state transitions the service applies for a
// user: the explicit set, then the auto-expansion for the query.
func expandedSet(ctx context.Context, records []tree.Record, query string, ids []string, all bool) (tree.ExpandedSet, error) {
	state := expanded.NewState(expanded.NewMemoryKV(), "local", "catalogctl")

	set := tree.NewExpandedSet(ids...)
	if all {
		set.Add(tree.ParentIDs(records)...)
	}
	if err := state.Save(ctx, set); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return set, nil
	}
	return state.Merge(ctx, tree.AutoExpandForQuery(records, query, set))
}
