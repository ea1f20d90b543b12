// Package commands implements the jsonapify command line.
package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jsonapify",
		Short: "Render read results as JSON:API documents",
		Long: color.CyanString(`jsonapify - JSON:API document assembly

Turns the results of find and get reads into JSON:API documents:
resource objects, relationships, a deduplicated included set,
pagination links and meta. Use render for one-off conversion of a
JSON result file, or serve to expose a database over HTTP.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ./jsonapify.yaml)")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)

			for _, line := range [][2]string{
				{"jsonapify version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				titleColor.Fprint(out, line[0])
				fmt.Fprintln(out, line[1])
			}
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
