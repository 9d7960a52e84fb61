package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func deleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			res := ctl.Delete(cmd.Context(), args[0])
			if res.Partial {
				cmd.PrintErrf("deleted, but the list could not be refreshed: %v\n", res.Err)
			} else if res.Err != nil {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func urlCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "url <name>",
		Short: "Print the download URL of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			obj, err := ctl.Lookup(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), obj.URL)
			return nil
		},
	}
}
