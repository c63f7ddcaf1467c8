package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pavitra93/salon-platform-analytics/shared/analytics"
)

// ErrTenantsUnavailable means no report can be built because the tenant list failed to load
var ErrTenantsUnavailable = errors.New("no analytics available: tenants could not be loaded")

// fetchDataset loads every row set concurrently. Only a tenant failure aborts;
// any other failed set is logged and left empty.
func fetchDataset(ctx context.Context, repo Repository, performanceSince time.Time, logger *logrus.Logger) (analytics.Dataset, error) {
	var data analytics.Dataset
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tenants, err := repo.Tenants(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTenantsUnavailable, err)
		}
		data.Tenants = tenants
		return nil
	})

	// Each goroutine writes a distinct field; g.Wait orders the writes before the read below
	optional(g, logger, "locations", func() (err error) { data.Locations, err = repo.Locations(ctx); return })
	optional(g, logger, "staff", func() (err error) { data.Staff, err = repo.Staff(ctx); return })
	optional(g, logger, "billing", func() (err error) { data.Billing, err = repo.Billing(ctx); return })
	optional(g, logger, "clients", func() (err error) { data.Clients, err = repo.Clients(ctx); return })
	optional(g, logger, "appointments", func() (err error) { data.Appointments, err = repo.Appointments(ctx); return })
	optional(g, logger, "daily_sales", func() (err error) { data.DailySales, err = repo.DailySales(ctx); return })
	optional(g, logger, "performance", func() (err error) {
		data.Performance, err = repo.Performance(ctx, performanceSince)
		return
	})

	if err := g.Wait(); err != nil {
		return analytics.Dataset{}, err
	}
	return data, nil
}

func optional(g *errgroup.Group, logger *logrus.Logger, dataset string, load func() error) {
	g.Go(func() error {
		if err := load(); err != nil {
			datasetFetchFailures.WithLabelValues(dataset).Inc()
			logger.WithFields(logrus.Fields{
				"dataset": dataset,
				"error":   err.Error(),
			}).Warn("Analytics dataset unavailable, continuing without it")
		}
		return nil
	})
}
