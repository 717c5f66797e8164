package main

import (
	"fmt"
	"time"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"github.com/couchcryptid/flux-site-etl/internal/pipeline"
	"github.com/spf13/cobra"
)

// wallClockLayouts are accepted for --at values without a zone.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func sunCommand(a *app) *cobra.Command {
	var (
		site      string
		kind      string
		direction string
		at        string
		utc       bool
	)

	cmd := &cobra.Command{
		Use:   "sun",
		Short: "Print the previous or next sunrise or sunset at a site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := solarQuery(kind, direction, at)
			if err != nil {
				return err
			}
			q.WantUTC = utc
			q.DefaultElevation = &a.cfg.DefaultElevation

			reg, err := a.registry(cmd.Context())
			if err != nil {
				return err
			}
			t, err := pipeline.SolarEvent(reg, site, q, a.logger, a.metrics)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&site, "site", "", "Site name")
	cmd.Flags().StringVar(&kind, "kind", string(domain.Sunrise), "sunrise or sunset")
	cmd.Flags().StringVar(&direction, "direction", "", "previous or next (default: previous sunrise, next sunset)")
	cmd.Flags().StringVar(&at, "at", "", "Reference time: RFC3339, or a wall clock read as site standard time (default: now)")
	cmd.Flags().BoolVar(&utc, "utc", false, "Print the event in UTC instead of site standard time")
	_ = cmd.MarkFlagRequired("site")
	return cmd
}

// solarQuery turns command flags into a query. Kind and direction are
// validated later by the computation itself.
func solarQuery(kind, direction, at string) (domain.SolarQuery, error) {
	q := domain.SolarQuery{
		Kind:      domain.EventKind(kind),
		Direction: domain.Direction(direction),
		Reference: domain.Now(),
	}
	if direction == "" {
		q.Direction = domain.Previous
		if q.Kind == domain.Sunset {
			q.Direction = domain.Next
		}
	}
	if at == "" {
		return q, nil
	}
	if t, err := time.Parse(time.RFC3339, at); err == nil {
		q.Reference = t
		return q, nil
	}
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, at); err == nil {
			q.Reference = t
			q.Frame = domain.FrameLocal
			return q, nil
		}
	}
	return q, fmt.Errorf("reference time %q: %w", at, domain.ErrInvalidArgument)
}
