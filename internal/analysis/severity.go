package analysis

// MapSeverity folds the backend severity vocabularies (info/warning/critical
// and low/medium/high) onto the canonical scale. Unknown values map to low.
func MapSeverity(raw string) Severity {
	switch raw {
	case "high", "critical":
		return SeverityHigh
	case "medium", "warning":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// recommendationSeverity maps the canonical scale onto the info/warning/critical
// vocabulary used by recommendations and insights.
func recommendationSeverity(s Severity) string {
	switch s {
	case SeverityHigh:
		return "critical"
	case SeverityMedium:
		return "warning"
	default:
		return "info"
	}
}
