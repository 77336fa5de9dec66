// Package cli implements the rulekit command line.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	"github.com/randalmurphal/rulekit/pkg/rulekit/config"
	"github.com/randalmurphal/rulekit/pkg/rulekit/observability"
)

const (
	cmdName     = "rulekit"
	cmdDesc     = `Parse, combine and evaluate comparison rules.`
	cmdExamples = `
	# Print the tree for one rule.
	rulekit parse "age > 30"

	# Combine rules with AND.
	rulekit combine "age > 30" "status == active"

	# Evaluate a saved tree against a record.
	rulekit combine "age > 30" "status == active" > tree.json
	echo '{"age": 35, "status": "active"}' | rulekit eval --tree tree.json --data -

	# Serve the HTTP API.
	rulekit serve --config rulekit.yaml
`
)

// RootArgs holds flags shared by every subcommand.
type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string

	// Settings is resolved before any subcommand runs.
	Settings config.Settings
}

func NewRootArgs() *RootArgs {
	return &RootArgs{Settings: config.DefaultSettings()}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info",
			fmt.Sprintf("Log level, one of: %s", strings.Join(config.LogLevels, ", ")))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text",
			fmt.Sprintf("Log format, one of: %s", strings.Join(config.LogFormats, ", ")))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to a YAML or JSON config file")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(config.LogFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(config.LogLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

// NewEngine builds an engine from the resolved settings.
func (ra *RootArgs) NewEngine(opts ...rulekit.Option) *rulekit.Engine {
	base := []rulekit.Option{
		rulekit.WithLogger(slog.Default()),
		rulekit.WithMaxRules(ra.Settings.MaxRules),
		rulekit.WithMaxDepth(ra.Settings.MaxDepth),
	}
	return rulekit.New(append(base, opts...)...)
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		SilenceUsage:      true,
		PersistentPreRunE: setup(args),
	}

	args.AddFlags(cmd)
	cmd.AddCommand(
		NewParseCmd(args),
		NewCombineCmd(args),
		NewEvalCmd(args),
		NewServeCmd(args),
	)

	return cmd
}

// setup resolves settings (defaults, config file, RULEKIT_* environment,
// then explicit flags) and installs the default logger.
func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		settings, err := config.ResolveSettings(ra.ConfigPath)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			settings.LogLevel = ra.LogLevel
		}
		if flags.Changed("log-format") {
			settings.LogFormat = ra.LogFormat
		}
		if err := settings.Validate(); err != nil {
			return err
		}
		ra.Settings = settings

		logHandler, err := observability.NewHandler(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}
