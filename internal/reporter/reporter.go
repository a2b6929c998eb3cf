package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"idlewatch/internal/config"
	"idlewatch/internal/database"
	"idlewatch/internal/models"
)

// Reporter handles report generation
type Reporter struct {
	config *config.Config
	repo   *database.Repository
}

// New creates a new reporter
func New(cfg *config.Config, repo *database.Repository) *Reporter {
	return &Reporter{
		config: cfg,
		repo:   repo,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.getPeriod(periodType)
	if err != nil {
		return nil, err
	}

	// SQL does the per-day aggregation
	days, err := r.repo.GetDaySummariesSince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get day summaries: %w", err)
	}

	var totalSamples, totalSuppressed int64
	for i := range days {
		days[i].MaxIdleMinutes = float64(days[i].MaxIdleMs) / 60000.0
		totalSamples += days[i].Samples
		totalSuppressed += days[i].SuppressedCount
	}

	events, err := r.repo.GetActionEventsSince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get action events: %w", err)
	}

	activations := make(map[string]int)
	for _, event := range events {
		if event.Kind == models.ActionActivate {
			activations[event.TimerName]++
		}
	}

	report := &models.Report{
		Period:          *period,
		Days:            days,
		Activations:     activations,
		TotalSamples:    totalSamples,
		TotalSuppressed: totalSuppressed,
		GeneratedAt:     time.Now(),
	}

	return report, nil
}

// getPeriod calculates the time range for the report
func (r *Reporter) getPeriod(periodType string) (*models.ReportPeriod, error) {
	now := time.Now()
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.Add(24 * time.Hour)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Idle Report - %s\n", report.Period.Type)
	output += fmt.Sprintf("Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	output += fmt.Sprintf("Samples: %d (%d suppressed by fullscreen or lock)\n\n",
		report.TotalSamples, report.TotalSuppressed)

	if len(report.Days) == 0 {
		output += "No samples recorded for this period.\n"
		return output
	}

	output += fmt.Sprintf("%-12s %10s %12s %14s\n", "Day", "Samples", "Suppressed", "Max Idle (m)")
	output += fmt.Sprintf("%s\n", "--------------------------------------------------")

	for _, day := range report.Days {
		output += fmt.Sprintf("%-12s %10d %12d %14.1f\n",
			day.Day,
			day.Samples,
			day.SuppressedCount,
			day.MaxIdleMinutes)
	}

	if len(report.Activations) > 0 {
		output += "\nTimer activations:\n"
		for name, count := range report.Activations {
			output += fmt.Sprintf("  %-20s %d\n", name, count)
		}
	}

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}
