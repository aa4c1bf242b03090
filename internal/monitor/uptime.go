package monitor

import "math"

// UptimeStats summarizes check results over a window.
type UptimeStats struct {
	PeriodHours           int     `json:"period_hours"`
	TotalChecks           int     `json:"total_checks"`
	HealthyChecks         int     `json:"healthy_checks"`
	DegradedChecks        int     `json:"degraded_checks"`
	UnhealthyChecks       int     `json:"unhealthy_checks"`
	UptimePercentage      float64 `json:"uptime_percentage"`
	AvailabilityPct       float64 `json:"availability_percentage"`
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`
}

// ComputeUptime aggregates check results into uptime statistics.
// Uptime counts only healthy checks; availability also counts degraded
// ones, since a slow endpoint still answers.
func ComputeUptime(checks []*CheckResult, periodHours int) *UptimeStats {
	stats := &UptimeStats{PeriodHours: periodHours}
	if len(checks) == 0 {
		return stats
	}

	var totalMs float64
	for _, c := range checks {
		stats.TotalChecks++
		totalMs += c.ResponseTimes.Total
		switch c.Status {
		case StatusHealthy:
			stats.HealthyChecks++
		case StatusDegraded:
			stats.DegradedChecks++
		case StatusUnhealthy:
			stats.UnhealthyChecks++
		}
	}

	n := float64(stats.TotalChecks)
	stats.UptimePercentage = round2(float64(stats.HealthyChecks) / n * 100)
	stats.AvailabilityPct = round2(float64(stats.HealthyChecks+stats.DegradedChecks) / n * 100)
	stats.AverageResponseTimeMs = round2(totalMs / n)
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
