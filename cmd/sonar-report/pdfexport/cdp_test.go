package pdfexport

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCDPEngine_MissingExecutable(t *testing.T) {
	html, pdf := writeHTML(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fileURL, err := FileURL(html)
	if err != nil {
		t.Fatalf("FileURL: %v", err)
	}
	err = CDPEngine{}.Print(ctx, filepath.Join(t.TempDir(), "no-chrome"), fileURL, pdf)
	if err == nil {
		t.Fatalf("expected an error for a missing browser")
	}
	if !strings.Contains(err.Error(), "printing via devtools") {
		t.Errorf("error should name the devtools engine: %v", err)
	}
	if _, statErr := os.Stat(pdf); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("no PDF should be written on failure")
	}
}

func TestExport_CDPFailureRecorded(t *testing.T) {
	html, pdf := writeHTML(t)
	// Resolvable on PATH but never opens a devtools endpoint.
	notChrome := fakeBrowser(t, "not-chrome", `echo "no devtools here" >&2; exit 1`)

	var failed []Attempt
	x := &Exporter{
		Engine:     CDPEngine{},
		Candidates: []string{notChrome},
		Timeout:    20 * time.Second,
		Validate:   nonEmpty,
		OnAttempt:  func(a Attempt) { failed = append(failed, a) },
	}
	_, err := x.Export(context.Background(), html, pdf)
	if !errors.Is(err, ErrNoBrowser) {
		t.Fatalf("expected ErrNoBrowser, got %v", err)
	}
	var exportErr *ExportError
	if !errors.As(err, &exportErr) || len(exportErr.Attempts) != 1 {
		t.Fatalf("expected one recorded attempt, got %v", err)
	}
	if a := exportErr.Attempts[0]; a.Browser != notChrome || !strings.Contains(a.Err.Error(), "printing via devtools") {
		t.Errorf("attempt = %+v", a)
	}
	if len(failed) != 1 {
		t.Errorf("OnAttempt calls = %d, want 1", len(failed))
	}
}

func TestCDPEngine_PrintsWithInstalledBrowser(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a real browser")
	}
	var browser string
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if p, err := exec.LookPath(name); err == nil {
			browser = p
			break
		}
	}
	if browser == "" {
		t.Skip("no Chrome or Chromium on PATH")
	}

	html, pdf := writeHTML(t)
	x := New("cdp", browser, time.Minute)
	x.Candidates = []string{browser}
	got, err := x.Export(context.Background(), html, pdf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := ValidatePDF(got); err != nil {
		t.Fatalf("produced PDF is invalid: %v", err)
	}
}
