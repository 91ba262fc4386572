package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/report.html
var reportTemplate string

const outputDirTimeLayout = "20060102-150405"

// View is everything the HTML template renders.
type View struct {
	ProjectKey   string
	Branch       string
	ReportName   string
	RunID        string
	GeneratedAt  time.Time
	BadgeDataURI string
	Total        int
	Counts       Counts
	Records      []Record
}

// NewView assembles a View from a build result.
func NewView(projectKey, branch, reportName, badgeDataURI string, res Result) View {
	return View{
		ProjectKey:   projectKey,
		Branch:       branch,
		ReportName:   reportName,
		BadgeDataURI: badgeDataURI,
		Total:        len(res.Records),
		Counts:       res.Counts,
		Records:      res.Records,
	}
}

// Renderer renders the embedded report template.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	funcMap := sprig.FuncMap()
	funcMap["badgeURL"] = badgeURL
	funcMap["severityClass"] = severityClass

	tmpl, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, v View) error {
	if err := r.tmpl.Execute(w, v); err != nil {
		return fmt.Errorf("execute report template: %w", err)
	}
	return nil
}

// WriteReport renders v into dir/v.ReportName and returns the file path.
func (r *Renderer) WriteReport(dir string, v View) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, v); err != nil {
		return "", err
	}
	path := filepath.Join(dir, v.ReportName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// OutputDir returns <root>/<YYYYMMDD-HHMMSS>-<project>.
func OutputDir(root string, now time.Time, projectKey string) string {
	return filepath.Join(root, now.Format(outputDirTimeLayout)+"-"+projectKey)
}

// EnsureOutputDir creates the per-run output directory.
func EnsureOutputDir(root string, now time.Time, projectKey string) (string, error) {
	dir := OutputDir(root, now, projectKey)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %q: %w", dir, err)
	}
	return dir, nil
}

// badgeURL marks the badge data URI as safe for an img src. html/template
// rejects data: URLs otherwise. Anything that is not an inline SVG badge is
// dropped.
func badgeURL(uri string) template.URL {
	if !strings.HasPrefix(uri, "data:image/svg+xml;base64,") {
		return ""
	}
	return template.URL(uri)
}

func severityClass(severity string) string {
	switch BucketOf(severity) {
	case BucketCritical:
		return "sev-critical"
	case BucketMajor:
		return "sev-major"
	default:
		return "sev-minor"
	}
}
