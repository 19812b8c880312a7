package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
)

type reorderOptions struct {
	active   string
	over     string
	query    string
	expanded []string
	output   string
}

func newReorderCommand() *cobra.Command {
	opts := &reorderOptions{}
	cmd := &cobra.Command{
		Use:   "reorder <records.json>",
		Short: "Print the instructions a drag of --active onto --over produces",
		Long: `Compute the order and parent updates for dropping one category onto another.

The drag is resolved against the visible rows, so pass the same --expanded ids
and --query the user had on screen. Nothing is written anywhere.`,
		Example: `  catalogctl reorder categories.json --active shoes --over apparel -e apparel
  catalogctl reorder - --active a --over b -o yaml < export.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.active == "" || opts.over == "" {
				return fmt.Errorf("--active and --over are required")
			}
			if opts.output != "json" && opts.output != "yaml" {
				return fmt.Errorf("unsupported output %q, use json or yaml", opts.output)
			}
			records, err := loadRecords(cmd, args[0])
			if err != nil {
				return err
			}
			return runReorder(cmd.OutOrStdout(), records, opts)
		},
	}

	cmd.Flags().StringVar(&opts.active, "active", "", "Id of the dragged category")
	cmd.Flags().StringVar(&opts.over, "over", "", "Id of the category it is dropped onto")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Search query active during the drag")
	cmd.Flags().StringSliceVarP(&opts.expanded, "expanded", "e", nil, "Ids of expanded categories")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "Output format (json, yaml)")
	return cmd
}

func runReorder(out io.Writer, records []tree.Record, opts *reorderOptions) error {
	set := tree.NewExpandedSet(opts.expanded...)
	if opts.query != "" {
		set = tree.AutoExpandForQuery(records, opts.query, set)
	}
	visible := tree.Flatten(tree.BuildFilteredTree(records, opts.query, nil, 0), set)

	batch := tree.ComputeReorder(records, visible, opts.active, opts.over)
	if batch == nil {
		batch = []tree.Instruction{}
	}

	if opts.output == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(yamlInstructions(batch))
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(batch)
}

// yamlInstructions keeps the JSON shape: newParentId appears only for a
// reparent, and a null value means the root.
func yamlInstructions(batch []tree.Instruction) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(batch))
	for _, in := range batch {
		m := map[string]interface{}{
			"categoryId": in.CategoryID,
			"newOrder":   in.NewOrder,
		}
		if in.Reparent {
			var parent interface{}
			if in.NewParentID != nil {
				parent = *in.NewParentID
			}
			m["newParentId"] = parent
		}
		out = append(out, m)
	}
	return out
}
