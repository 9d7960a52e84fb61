package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/radif/gallery/internal/gallery"
)

func listCmd(e *env) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objects in the container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctl.SetFilter(gallery.Filter(filter)); err != nil {
				return err
			}

			objects := ctl.View()
			if len(objects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No Files Found")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tCONTENT TYPE\tURL")
			for _, o := range objects {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Name, o.Category(), o.ContentType, o.URL)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter, "filter", string(gallery.FilterAll), "Only show objects of this type (all, image, video, audio)")
	return cmd
}
