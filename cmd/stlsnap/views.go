package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newViewsCmd(o *snapOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "Print the fixed viewpoints and their view matrices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, nil, o)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VIEW\tDISTANCE\tZOOM\tROW 0\tROW 1\tROW 2\tROW 3")
			for _, v := range cfg.Viewpoints() {
				fmt.Fprintf(w, "%s\t%g\t%g", v.Name, v.Distance, v.View.Translation().Z)
				for _, row := range v.View {
					fmt.Fprintf(w, "\t(%g, %g, %g, %g)", row[0], row[1], row[2], row[3])
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
}
