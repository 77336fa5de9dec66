package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/rulekit/pkg/rulekit/rule"
)

// ErrNoMatch is returned by eval --fail-on-false when the result is falsy.
var ErrNoMatch = errors.New("rule did not match")

type EvalArgs struct {
	Root        *RootArgs
	TreePath    string
	DataPath    string
	Output      string
	FailOnFalse bool
}

func NewEvalCmd(root *RootArgs) *cobra.Command {
	args := &EvalArgs{Root: root}

	cmd := &cobra.Command{
		Use:   "eval --tree FILE --data FILE",
		Short: "Evaluate a rule tree against a record",
		Long: `Evaluate a rule tree against a record.

Both files may be JSON or YAML. Pass "-" to read one of them from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if args.TreePath == "-" && args.DataPath == "-" {
				return errors.New("only one of --tree and --data may read stdin")
			}

			var tree rule.PlainTree
			if err := loadDocument(cmd, args.TreePath, &tree); err != nil {
				return fmt.Errorf("read tree: %w", err)
			}
			var data map[string]any
			if err := loadDocument(cmd, args.DataPath, &data); err != nil {
				return fmt.Errorf("read data: %w", err)
			}

			result, err := root.NewEngine().Evaluate(cmd.Context(), &tree, data)
			if err != nil {
				return err
			}
			if err := writeValue(cmd.OutOrStdout(), args.Output, map[string]any{"result": result.Interface()}); err != nil {
				return err
			}
			if args.FailOnFalse && !result.Truthy() {
				return ErrNoMatch
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&args.TreePath, "tree", "", "Rule tree file, or - for stdin")
	cmd.Flags().StringVar(&args.DataPath, "data", "", "Record file, or - for stdin")
	cmd.Flags().BoolVar(&args.FailOnFalse, "fail-on-false", false, "Exit non-zero when the result is falsy")
	addOutputFlag(cmd, &args.Output)

	for _, name := range []string{"tree", "data"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	return cmd
}

func loadDocument(cmd *cobra.Command, path string, v any) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	return decodeDocument(data, v)
}
