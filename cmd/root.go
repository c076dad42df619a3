// Package cmd provides the workflow-scheduler CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	// Version is the current version number.
	Version = "0.1.0"
)

var (
	cfgFile string
	debug   bool
	quiet   bool
)

// rootCmd is the root command.
var rootCmd = &cobra.Command{
	Use:   "workflow-scheduler",
	Short: "Static workflow-to-VM scheduler",
	Long: `workflow-scheduler computes a static mapping of workflow tasks onto a
fixed pool of VMs using a Modified Min-Min heuristic with entry-task
duplication and a load-balancing correction pass.`,
	Version: Version,
}

// versionCmd prints the version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("workflow-scheduler version %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet mode")

	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(fmt.Sprintf("workflow-scheduler version %s\n", Version))
}

// GetRootCmd returns the root command (used by tests).
func GetRootCmd() *cobra.Command {
	return rootCmd
}
