package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func sitesCommand(a *app) *cobra.Command {
	var (
		all   bool
		site  string
		field string
	)

	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List site names, or show one site's details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if site == "" {
				names := reg.OperationalNames()
				if all {
					names = reg.Names()
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}

			var v any
			if field != "" {
				v, err = reg.Field(site, field)
			} else {
				v, err = reg.Site(site)
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List decommissioned sites too")
	cmd.Flags().StringVar(&site, "site", "", "Show the details of this site")
	cmd.Flags().StringVar(&field, "field", "", "Show a single column of --site")
	return cmd
}
