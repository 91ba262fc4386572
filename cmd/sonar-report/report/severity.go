package report

import (
	"strings"

	"sonar-report/cmd/sonar-report/sonar"
)

// DefaultSeverity is assigned to issues that carry no severity at all.
const DefaultSeverity = "INFO"

// severityRank covers both the legacy scale (BLOCKER..INFO) and the impact
// scale (HIGH, MEDIUM, LOW). Anything else ranks 0 and sorts last.
var severityRank = map[string]int{
	"BLOCKER":  5,
	"CRITICAL": 4,
	"HIGH":     4,
	"MAJOR":    3,
	"MEDIUM":   3,
	"MINOR":    2,
	"LOW":      2,
	"INFO":     1,
}

// Rank returns the sort rank of a severity label, ignoring case.
func Rank(severity string) int {
	return severityRank[strings.ToUpper(strings.TrimSpace(severity))]
}

// NormalizeSeverity picks the issue severity, falling back to the first
// impact's severity and then to DefaultSeverity. The result is upper-case.
func NormalizeSeverity(is sonar.Issue) string {
	sev := strings.TrimSpace(is.Severity)
	if sev == "" && len(is.Impacts) > 0 {
		sev = strings.TrimSpace(is.Impacts[0].Severity)
	}
	if sev == "" {
		return DefaultSeverity
	}
	return strings.ToUpper(sev)
}

// Bucket is one of the three summary groups shown at the top of the report.
type Bucket int

const (
	BucketMinor Bucket = iota
	BucketMajor
	BucketCritical
)

// BucketOf maps a severity to its summary group. Unrecognized severities
// count as minor.
func BucketOf(severity string) Bucket {
	switch strings.ToUpper(strings.TrimSpace(severity)) {
	case "BLOCKER", "CRITICAL", "HIGH":
		return BucketCritical
	case "MAJOR", "MEDIUM":
		return BucketMajor
	default:
		return BucketMinor
	}
}
