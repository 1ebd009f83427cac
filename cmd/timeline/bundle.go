package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raidtimeline/timeline-go/pkg/timeline/bundle"
)

var convertTo string

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Inspect and convert bundle files",
}

var bundleCheckCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a bundle file",
	Long: `Validate a bundle file against the bundle schema and compile its
trigger and style patterns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := bundle.Load(args[0])
		if err != nil {
			return err
		}
		if _, err := b.Options(); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d locale(s), %d trigger(s), %d trigger option(s), %d style(s)\n",
			len(b.Locales), len(b.Triggers), len(b.TriggerOptions), len(b.Styles))
		return err
	},
}

var bundleConvertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Print a bundle file in another format",
	Long: `Print a bundle file in another format.

Examples:
  timeline bundle convert raid.yaml --to toml > raid.toml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := bundle.ParseFormat(convertTo)
		if err != nil {
			return err
		}
		b, err := bundle.Load(args[0])
		if err != nil {
			return err
		}
		return b.Encode(cmd.OutOrStdout(), to)
	},
}

var bundleSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of bundle files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(bundle.Schema())
		return err
	},
}

func init() {
	bundleConvertCmd.Flags().StringVar(&convertTo, "to", "yaml", "Target format: yaml, json, toml")
	bundleCmd.AddCommand(bundleCheckCmd, bundleConvertCmd, bundleSchemaCmd)
	rootCmd.AddCommand(bundleCmd)
}
