// Package pdfexport prints the HTML report to PDF with a headless
// Chromium-family browser, trying candidate executables in order.
package pdfexport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var ErrNoBrowser = errors.New("no usable browser found")

// Attempt records why one candidate browser failed.
type Attempt struct {
	Browser string
	Err     error
}

// ExportError is returned when every candidate failed. It unwraps to
// ErrNoBrowser.
type ExportError struct {
	Attempts []Attempt
}

func (e *ExportError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Browser, a.Err)
	}
	return fmt.Sprintf("%s (tried %s)", ErrNoBrowser, strings.Join(parts, "; "))
}

func (e *ExportError) Unwrap() error { return ErrNoBrowser }

// Engine prints fileURL to pdfPath using the browser executable at browser.
type Engine interface {
	Print(ctx context.Context, browser, fileURL, pdfPath string) error
}

// Exporter tries each candidate browser in order until one produces a valid
// PDF.
type Exporter struct {
	Engine     Engine
	Candidates []string
	// Timeout bounds each attempt. Zero means no limit beyond ctx.
	Timeout time.Duration
	// Validate checks the produced file. Defaults to ValidatePDF.
	Validate func(path string) error
	// OnAttempt, when set, is called after each failed candidate.
	OnAttempt func(Attempt)
}

// New returns an exporter for the named engine ("cli" or "cdp") with the
// platform candidate list, preferring userPath when set.
func New(engine, userPath string, timeout time.Duration) *Exporter {
	// Chrome refuses to start its sandbox as root, which is the norm in
	// CI containers.
	noSandbox := os.Geteuid() == 0
	var e Engine = CLIEngine{NoSandbox: noSandbox}
	if engine == "cdp" {
		e = CDPEngine{NoSandbox: noSandbox}
	}
	return &Exporter{
		Engine:     e,
		Candidates: Candidates(userPath, runtimeGOOS),
		Timeout:    timeout,
	}
}

// Export converts htmlPath into pdfPath and returns pdfPath.
func (x *Exporter) Export(ctx context.Context, htmlPath, pdfPath string) (string, error) {
	fileURL, err := FileURL(htmlPath)
	if err != nil {
		return "", err
	}
	absPDF, err := filepath.Abs(pdfPath)
	if err != nil {
		return "", err
	}
	validate := x.Validate
	if validate == nil {
		validate = ValidatePDF
	}

	var attempts []Attempt
	for _, candidate := range x.Candidates {
		err := x.try(ctx, candidate, fileURL, absPDF, validate)
		if err == nil {
			return pdfPath, nil
		}
		a := Attempt{Browser: candidate, Err: err}
		attempts = append(attempts, a)
		if x.OnAttempt != nil {
			x.OnAttempt(a)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return "", &ExportError{Attempts: attempts}
}

func (x *Exporter) try(ctx context.Context, candidate, fileURL, pdfPath string, validate func(string) error) error {
	bin, err := exec.LookPath(candidate)
	if err != nil {
		return err
	}
	if err := os.Remove(pdfPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if x.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.Timeout)
		defer cancel()
	}
	if err := x.Engine.Print(ctx, bin, fileURL, pdfPath); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		return err
	}
	if err := validate(pdfPath); err != nil {
		return fmt.Errorf("invalid PDF output: %w", err)
	}
	return nil
}

// FileURL returns the absolute file:// URL of path.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		// Windows drive paths: C:/x -> /C:/x
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String(), nil
}
