package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/salon-platform-analytics/shared/analytics"
	"github.com/pavitra93/salon-platform-analytics/shared/utils"
)

const maxLeaderboardLimit = 50

// ReportGenerator produces analytics reports for the handlers
type ReportGenerator interface {
	GenerateReport(ctx context.Context, asOf time.Time, trigger string) (*analytics.Report, error)
}

// parseAsOf reads the optional asOf date and returns the last instant of that UTC day
func parseAsOf(c *gin.Context) (time.Time, error) {
	raw := c.Query("asOf")
	if raw == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid asOf date %q, expected YYYY-MM-DD", raw)
	}
	return day.Add(24*time.Hour - time.Nanosecond), nil
}

// loadReport runs the generator and writes the error response itself on failure
func loadReport(c *gin.Context, gen ReportGenerator, logger *logrus.Logger) (*analytics.Report, bool) {
	asOf, err := parseAsOf(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return nil, false
	}

	report, err := gen.GenerateReport(c.Request.Context(), asOf, triggerRequest)
	if err != nil {
		if errors.Is(err, ErrTenantsUnavailable) {
			utils.ServiceUnavailableResponse(c, "No analytics available")
			return nil, false
		}
		logger.WithError(err).Error("Failed to generate analytics report")
		utils.InternalServerErrorResponse(c, "Failed to generate analytics report")
		return nil, false
	}
	return report, true
}

// handleGetPlatformReport returns the summary and every leaderboard
func handleGetPlatformReport(gen ReportGenerator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := loadReport(c, gen, logger)
		if !ok {
			return
		}
		utils.OKResponse(c, "Platform analytics retrieved successfully", report)
	}
}

// handleGetTenantMetrics returns the per-tenant metrics
func handleGetTenantMetrics(gen ReportGenerator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := loadReport(c, gen, logger)
		if !ok {
			return
		}
		utils.OKResponse(c, "Tenant metrics retrieved successfully", report.Summary.Tenants)
	}
}

// handleGetTenant returns one tenant's metrics by id or slug
func handleGetTenant(gen ReportGenerator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := loadReport(c, gen, logger)
		if !ok {
			return
		}

		metrics, found := report.Tenant(c.Param("id"))
		if !found {
			utils.NotFoundResponse(c, "Tenant not found")
			return
		}
		utils.OKResponse(c, "Tenant metrics retrieved successfully", metrics)
	}
}

// handleGetLeaderboard returns one ranking view, optionally with a custom size
func handleGetLeaderboard(gen ReportGenerator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		selector, found := analytics.SelectorByName(c.Param("name"))
		if !found {
			utils.NotFoundResponse(c, "Leaderboard not found")
			return
		}

		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 || limit > maxLeaderboardLimit {
				utils.BadRequestResponse(c, fmt.Sprintf("limit must be between 1 and %d", maxLeaderboardLimit))
				return
			}
			selector = selector.WithLimit(limit)
		}

		report, ok := loadReport(c, gen, logger)
		if !ok {
			return
		}

		utils.OKResponse(c, "Leaderboard retrieved successfully", gin.H{
			"name":    selector.Name,
			"tenants": selector.Select(report.Summary.Tenants),
		})
	}
}

// handleExportTenantMetrics downloads the tenant metrics as CSV or JSON
func handleExportTenantMetrics(gen ReportGenerator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", "csv")
		if format != "csv" && format != "json" {
			utils.BadRequestResponse(c, "Invalid format. Use 'csv' or 'json'")
			return
		}

		report, ok := loadReport(c, gen, logger)
		if !ok {
			return
		}

		var (
			data        []byte
			err         error
			contentType string
			filename    string
		)
		stamp := report.Summary.GeneratedAt.Format("2006-01-02")

		switch format {
		case "csv":
			data, err = exportTenantsCSV(report.Summary.Tenants)
			contentType = "text/csv"
			filename = "platform-analytics-" + stamp + ".csv"
		case "json":
			data, err = exportJSON(report)
			contentType = "application/json"
			filename = "platform-analytics-" + stamp + ".json"
		}

		if err != nil {
			logger.WithError(err).Error("Failed to export platform analytics")
			utils.InternalServerErrorResponse(c, "Failed to export platform analytics")
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, contentType, data)
	}
}
