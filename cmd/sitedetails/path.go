package main

import (
	"fmt"

	"github.com/couchcryptid/flux-site-etl/internal/paths"
	"github.com/spf13/cobra"
)

func pathCommand(a *app) *cobra.Command {
	var req paths.Request

	cmd := &cobra.Command{
		Use:   "path CATEGORY",
		Short: "Resolve a site data path from the paths configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := paths.Load(a.cfg.PathsFile)
			if err != nil {
				return err
			}
			req.Category = args[0]
			p, err := cfg.Resolve(req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Stream, "stream", "", "Data stream (category data only)")
	cmd.Flags().StringVar(&req.SubDirs, "subdirs", "", "Subdirectories appended to the path")
	cmd.Flags().StringVar(&req.Site, "site", "", "Site name substituted for "+paths.SiteToken)
	cmd.Flags().BoolVar(&req.CheckExists, "check", false, "Fail when the path does not exist")
	return cmd
}
