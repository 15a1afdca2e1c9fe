package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/toyz/txsync/internal/annotations"
	"github.com/toyz/txsync/internal/cli"
	"github.com/toyz/txsync/internal/utils"
)

// NewRootCmd creates the root command for the txsync CLI
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "txsync",
		Short: "Transaction callback resolver",
		Long: `txsync resolves the transaction lifecycle callbacks of stateful Go components.

Callbacks come from //txsync:: method markers, from a deployment descriptor
(txsync.yaml or txsync.hcl), or from implementing txsync.SessionSynchronization.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newMarkersCmd())

	return rootCmd
}

func newResolveCmd() *cobra.Command {
	var settingsFile string
	loader := cli.NewSettingsLoader()

	cmd := &cobra.Command{
		Use:   "resolve [packages...]",
		Short: "Resolve the callbacks of every stateful component",
		Long: `Loads the given package patterns (default ./...) and prints the
callback binding of every stateful component.

Every flag can also be set through a TXSYNC_<FLAG> environment variable
(e.g. TXSYNC_OUTPUT=yaml) or a YAML settings file passed with --config.`,
		Example: `  txsync resolve                          # Resolve ./... with txsync.yaml if present
  txsync resolve ./internal/...           # Resolve one subtree
  txsync resolve -d deploy/txsync.hcl     # Use a specific descriptor
  txsync resolve -o yaml --quiet          # Machine readable report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loader.BindFlags(cmd.Flags()); err != nil {
				return err
			}
			config, err := loader.Load(settingsFile)
			if err != nil {
				return err
			}
			config.Patterns = args

			diagnostics := utils.NewDiagnosticSystem(config.DiagnosticLevel())
			if config.Format == cli.FormatYAML {
				// keep stdout parseable
				diagnostics.WithOutput(cmd.ErrOrStderr(), cmd.ErrOrStderr())
			} else if cmd.OutOrStdout() != os.Stdout {
				// output redirected with cmd.SetOut
				diagnostics.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
			}

			diagnostics.Header("resolving transaction callbacks")
			diagnostics.SourcePath(config.Dir)

			report, err := cli.NewResolver(diagnostics).Run(cmd.Context(), config)
			if err != nil {
				diagnostics.ReportError(err)
				return err
			}

			diagnostics.Section("Bindings")
			if err := cli.WriteReport(cmd.OutOrStdout(), report, config.Format); err != nil {
				diagnostics.ReportError(err)
				return err
			}

			diagnostics.Summary("Resolution Complete!", map[string]interface{}{
				"Run":        report.RunID,
				"Packages":   report.Packages,
				"Components": len(report.Components),
				"Duration":   report.Duration.Round(time.Millisecond),
			})
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&settingsFile, "config", "c", "", "YAML settings file")
	flags.String(cli.KeyDir, ".", "Directory package patterns are relative to")
	flags.StringP(cli.KeyDescriptor, "d", "", "Deployment descriptor (default: txsync.yaml, txsync.yml or txsync.hcl in --dir)")
	flags.Bool(cli.KeyNoDescriptor, false, "Ignore any deployment descriptor")
	flags.String(cli.KeyModule, "", "Module path to report (defaults to go.mod module)")
	flags.StringP(cli.KeyOutput, "o", cli.FormatText, "Output format: text, yaml")
	flags.BoolP(cli.KeyVerbose, "v", false, "Enable verbose output")
	flags.BoolP(cli.KeyQuiet, "q", false, "Only show errors and the report")

	return cmd
}

func newMarkersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markers",
		Short: "List the supported //txsync:: markers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.WriteMarkers(cmd.OutOrStdout(), annotations.DefaultRegistry())
		},
	}
}
