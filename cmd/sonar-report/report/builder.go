// Package report turns raw issues into the sorted, counted record set shown
// in the HTML report, and renders that report.
package report

import (
	"slices"
	"strconv"
	"time"

	"sonar-report/cmd/sonar-report/sonar"
)

// Record is one display-ready row of the report.
type Record struct {
	Key          string
	Rule         string
	Severity     string
	Message      string
	Component    string
	Line         string
	Status       string
	Type         string
	CreationDate string

	rank    int
	created time.Time
}

// Counts holds the per-bucket totals. They always add up to the number of
// records.
type Counts struct {
	Critical int
	Major    int
	Minor    int
}

func (c Counts) Total() int { return c.Critical + c.Major + c.Minor }

// Result is the output of Build.
type Result struct {
	Records []Record
	Counts  Counts
}

// Build normalises every issue, sorts them by severity rank (highest first)
// then creation date (oldest first), and counts them per bucket. The sort is
// stable so equal keys keep their input order.
func Build(issues []sonar.Issue) Result {
	records := make([]Record, len(issues))
	for i, is := range issues {
		sev := NormalizeSeverity(is)
		records[i] = Record{
			Key:          is.Key,
			Rule:         is.Rule,
			Severity:     sev,
			Message:      is.Message,
			Component:    is.Component,
			Line:         formatLine(is.Line),
			Status:       is.Status,
			Type:         is.Type,
			CreationDate: is.CreationDate,
			rank:         Rank(sev),
			created:      parseCreationDate(is.CreationDate),
		}
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		if a.rank != b.rank {
			return b.rank - a.rank
		}
		return a.created.Compare(b.created)
	})

	var counts Counts
	for _, r := range records {
		switch BucketOf(r.Severity) {
		case BucketCritical:
			counts.Critical++
		case BucketMajor:
			counts.Major++
		default:
			counts.Minor++
		}
	}
	return Result{Records: records, Counts: counts}
}

func formatLine(line *int) string {
	if line == nil {
		return ""
	}
	return strconv.Itoa(*line)
}

// creationLayouts lists the date formats the API is known to emit. Sonar
// uses a numeric zone without a colon.
var creationLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02",
}

// parseCreationDate returns the zero time for missing or unparsable dates,
// which sorts before every real date.
func parseCreationDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range creationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
