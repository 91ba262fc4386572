package report

import (
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sonar-report/cmd/sonar-report/sonar"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected output to contain %q", sub)
		}
	}
}

func sampleView(badge string) View {
	res := Build([]sonar.Issue{
		{Key: "AX-1", Rule: "java:S2068", Severity: "BLOCKER", Message: "Hard-coded <password>", Component: "demo:src/Main.java", Line: intPtr(7), Status: "OPEN", Type: "VULNERABILITY", CreationDate: "2024-01-01T00:00:00+0000"},
		{Key: "AX-2", Rule: "java:S4790", Severity: "MINOR", Message: "Weak hash", Component: "demo:src/Hash.java", Status: "OPEN", Type: "VULNERABILITY"},
	})
	v := NewView("demo", "", "demo_report.html", badge, res)
	v.RunID = "run-123"
	v.GeneratedAt = time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	return v
}

func render(t *testing.T, v View) string {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	var b strings.Builder
	if err := r.Render(&b, v); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestRender_Content(t *testing.T) {
	out := render(t, sampleView(""))

	mustContain(t, out,
		"demo - Vulnerability Report",
		"Branch: default",
		"2024-05-06 07:08:09",
		`<div class="count">2</div>Total`,
		`<div class="count">1</div>Critical`,
		"Hard-coded &lt;password&gt;",
		`class="severity sev-critical">BLOCKER`,
		`class="severity sev-minor">MINOR`,
		"run run-123",
	)
	if strings.Index(out, "AX-1") > strings.Index(out, "AX-2") {
		t.Fatalf("records rendered out of order")
	}
}

func TestRender_Badge(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		out := render(t, sampleView(""))
		if strings.Contains(out, "<img") {
			t.Fatalf("no badge image expected")
		}
	})

	t.Run("present", func(t *testing.T) {
		uri := "data:image/svg+xml;base64,PHN2Zy8+"
		out := render(t, sampleView(uri))
		// html/template escapes '+' in attribute values as &#43;.
		mustContain(t, out, `<img src="data:image/svg&#43;xml;base64,PHN2Zy8&#43;"`)
		mustContain(t, html.UnescapeString(out), `<img src="`+uri+`"`)
	})

	t.Run("not an svg data uri", func(t *testing.T) {
		out := render(t, sampleView("javascript:alert(1)"))
		if strings.Contains(out, "<img") || strings.Contains(out, "javascript:") {
			t.Fatalf("untrusted badge must be dropped")
		}
	})
}

func TestOutputDir(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got := OutputDir("Output", now, "demo")
	if want := filepath.Join("Output", "20240102-030405-demo"); got != want {
		t.Fatalf("OutputDir = %q, want %q", got, want)
	}
}

func TestWriteReport(t *testing.T) {
	root := t.TempDir()
	dir, err := EnsureOutputDir(root, time.Now(), "demo")
	if err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	path, err := r.WriteReport(dir, sampleView(""))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "demo_report.html") {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	mustContain(t, string(data), "<!DOCTYPE html>", "AX-2")
}
