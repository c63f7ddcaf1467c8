package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pavitra93/salon-platform-analytics/shared/analytics"
)

var tenantCSVHeader = []string{
	"account_number", "id", "name", "slug", "status", "subscription_tier", "country", "plan_name", "billing_cycle",
	"locations", "users", "active_users", "clients", "appointments",
	"total_revenue", "revenue_this_month", "revenue_last_month", "revenue_growth_percent", "average_ticket",
	"service_revenue", "retail_revenue",
	"avg_rebooking_rate", "avg_retention_rate", "avg_retail_attachment_percent", "new_clients",
	"monthly_recurring_revenue",
}

// exportTenantsCSV renders one row per tenant
func exportTenantsCSV(metrics []analytics.TenantMetrics) ([]byte, error) {
	csvData := [][]string{tenantCSVHeader}
	for _, m := range metrics {
		cycle := ""
		if m.BillingCycle != nil {
			cycle = string(*m.BillingCycle)
		}
		csvData = append(csvData, []string{
			strconv.Itoa(m.AccountNumber),
			m.ID.String(),
			csvText(m.Name),
			csvText(m.Slug),
			string(m.Status),
			csvText(stringOrEmpty(m.SubscriptionTier)),
			csvText(stringOrEmpty(m.Country)),
			csvText(stringOrEmpty(m.PlanName)),
			cycle,
			strconv.Itoa(m.LocationCount),
			strconv.Itoa(m.UserCount),
			strconv.Itoa(m.ActiveUserCount),
			strconv.Itoa(m.ClientCount),
			strconv.Itoa(m.AppointmentCount),
			formatAmount(m.TotalRevenue),
			formatAmount(m.RevenueThisMonth),
			formatAmount(m.RevenueLastMonth),
			formatAmount(m.RevenueGrowthPercent),
			formatAmount(m.AverageTicket),
			formatAmount(m.ServiceRevenue),
			formatAmount(m.RetailRevenue),
			formatAmount(m.AvgRebookingRate),
			formatAmount(m.AvgRetentionRate),
			formatAmount(m.AvgRetailAttachmentPercent),
			strconv.Itoa(m.NewClientsThisMonth),
			formatAmount(m.MonthlyRecurringRevenue),
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(csvData); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// exportJSON renders any report section as indented JSON
func exportJSON(data interface{}) ([]byte, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return jsonData, nil
}

// csvText neutralizes user-entered text that a spreadsheet would evaluate as a formula
func csvText(value string) string {
	if value != "" && strings.ContainsRune("=+-@\t\r", rune(value[0])) {
		return "'" + value
	}
	return value
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
