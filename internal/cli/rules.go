package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/rulekit/pkg/rulekit/rule"
)

type ParseArgs struct {
	Root   *RootArgs
	Output string
	Tokens bool
}

func NewParseCmd(root *RootArgs) *cobra.Command {
	args := &ParseArgs{Root: root}

	cmd := &cobra.Command{
		Use:   "parse RULE",
		Short: "Parse one rule and print its tree",
		Long: `Parse one rule and print its tree.

A rule given as several arguments is joined with spaces, so
"rulekit parse age '>' 30" and "rulekit parse 'age > 30'" are the same.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			text := strings.Join(argv, " ")
			if args.Tokens {
				return writeValue(cmd.OutOrStdout(), args.Output, rule.Tokenize(text))
			}

			tree, err := root.NewEngine().Create(cmd.Context(), text)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), args.Output, tree)
		},
	}

	addOutputFlag(cmd, &args.Output)
	cmd.Flags().BoolVar(&args.Tokens, "tokens", false, "Print the tokens instead of the tree")

	return cmd
}

type CombineArgs struct {
	Root   *RootArgs
	Output string
}

func NewCombineCmd(root *RootArgs) *cobra.Command {
	args := &CombineArgs{Root: root}

	cmd := &cobra.Command{
		Use:   "combine RULE [RULE...]",
		Short: "Combine rules with AND and print the tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			tree, err := root.NewEngine().Combine(cmd.Context(), argv)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), args.Output, tree)
		},
	}

	addOutputFlag(cmd, &args.Output)

	return cmd
}
