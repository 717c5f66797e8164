package main

import (
	"github.com/couchcryptid/flux-site-etl/internal/adapter/excel"
	kafkaadapter "github.com/couchcryptid/flux-site-etl/internal/adapter/kafka"
	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"github.com/couchcryptid/flux-site-etl/internal/pipeline"
	"github.com/spf13/cobra"
)

func exportCommand(a *app) *cobra.Command {
	var (
		output     string
		all        bool
		allColumns bool
		columns    []string
		publish    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch site details and write them to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.builder()
			if err != nil {
				return err
			}

			opts := excel.Options{Columns: columns, OperationalOnly: !all}
			if allColumns {
				opts.Columns = nil
			}
			loaders := []pipeline.Loader{excel.NewExporter(output, opts, a.logger)}

			if publish && a.cfg.PublishEnabled() {
				w := kafkaadapter.NewWriter(a.cfg, a.logger)
				defer func() {
					if err := w.Close(); err != nil {
						a.logger.Error("kafka writer close error", "error", err)
					}
				}()
				loaders = append(loaders, w)
			}

			_, err = pipeline.New(b, loaders, a.logger, a.metrics).Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "site_details.xlsx", "Workbook path")
	cmd.Flags().BoolVar(&all, "all", false, "Include decommissioned sites and decommission columns")
	cmd.Flags().StringSliceVar(&columns, "columns", domain.DefaultExportColumns, "Columns to export after the site name")
	cmd.Flags().BoolVar(&allColumns, "all-columns", false, "Export every column")
	cmd.Flags().BoolVar(&publish, "publish", true, "Also publish sites to Kafka when KAFKA_BROKERS is set")
	return cmd
}
