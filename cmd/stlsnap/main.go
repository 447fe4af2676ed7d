package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/stlsnap/version"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd, _ := newCommand()
	return cmd
}

// newCommand builds the command tree and returns the flag storage with it
func newCommand() (*cobra.Command, *snapOptions) {
	opts := &snapOptions{}

	rootCmd := &cobra.Command{
		Use:   "stlsnap [dir]",
		Short: "Batch screenshots of STL files from four fixed viewpoints",
		Long: `stlsnap processes every STL file in a directory: it clears the scene,
imports the mesh and saves an orthographic screenshot from the front, back,
right and left, named <file>_<view>.jpg next to the input.

Settings come from built-in defaults, an optional HCL file (--config) and
finally the flags given on the command line.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnap(cmd, args, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "HCL configuration file")
	addSnapFlags(rootCmd, opts)

	rootCmd.AddCommand(newViewsCmd(opts))
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newCompletionCmd(rootCmd))

	return rootCmd, opts
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
