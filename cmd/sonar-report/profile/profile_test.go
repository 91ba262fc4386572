package profile

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing profile: %v", err)
	}
	return path
}

func validFile() *File {
	return &File{
		ProjectName: "demo",
		SonarURL:    "https://sonar.example.com/",
		GlobalToken: "g-token",
		UserToken:   "u-token",
	}
}

func TestLoad_JSONDefaults(t *testing.T) {
	path := writeProfile(t, "profile.json", `{
		"project_name": "demo",
		"project_branch": "main",
		"sonar_url": "https://sonar.example.com/",
		"project_token": "p-token",
		"user_token": "u-token",
		"export_pdf": true
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "https://sonar.example.com" {
		t.Errorf("ServerURL = %q, trailing slash should be trimmed", cfg.ServerURL)
	}
	if cfg.Token != "p-token" {
		t.Errorf("Token = %q, want project_token fallback", cfg.Token)
	}
	if cfg.ReportName != "demo_report.html" {
		t.Errorf("ReportName = %q", cfg.ReportName)
	}
	if cfg.PDFName != "demo_report.pdf" {
		t.Errorf("PDFName = %q", cfg.PDFName)
	}
	if !cfg.ExportPDF || cfg.Branch != "main" {
		t.Errorf("ExportPDF/Branch not carried over: %+v", cfg)
	}
	if cfg.HTTPTimeout != DefaultHTTPTimeout || cfg.PDFTimeout != DefaultPDFTimeout {
		t.Errorf("timeouts = %v/%v", cfg.HTTPTimeout, cfg.PDFTimeout)
	}
	if cfg.PDFEngine != EngineCLI || cfg.OutputRoot != DefaultOutputRoot {
		t.Errorf("engine/output root = %q/%q", cfg.PDFEngine, cfg.OutputRoot)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeProfile(t, "profile.yml", `
project_name: demo
sonar_url: http://localhost:9000
global_token: g-token
project_token: p-token
user_token: u-token
report_name: Vulns.HTML
timeout: 5s
pdf_engine: CDP
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Token != "g-token" {
		t.Errorf("Token = %q, global_token must win", cfg.Token)
	}
	if cfg.ReportName != "Vulns.HTML" {
		t.Errorf("ReportName = %q", cfg.ReportName)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.PDFEngine != EngineCDP {
		t.Errorf("PDFEngine = %q", cfg.PDFEngine)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected not-exist error, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeProfile(t, "profile.json", `{"project_name": `)
		_, err := Load(path)
		if err == nil || errors.Is(err, ErrValidation) {
			t.Fatalf("expected parse error, got %v", err)
		}
	})
}

func TestResolve_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *File)
		field  string
	}{
		{"no token", func(f *File) { f.GlobalToken = ""; f.ProjectToken = "" }, "global_token"},
		{"empty user token", func(f *File) { f.UserToken = "" }, "user_token"},
		{"empty project", func(f *File) { f.ProjectName = "  " }, "project_name"},
		{"report extension", func(f *File) { f.ReportName = "report.pdf" }, "report_name"},
		{"empty url", func(f *File) { f.SonarURL = "" }, "sonar_url"},
		{"relative url", func(f *File) { f.SonarURL = "sonar.local" }, "sonar_url"},
		{"bad timeout", func(f *File) { f.Timeout = "soon" }, "timeout"},
		{"negative pdf timeout", func(f *File) { f.PDFTimeout = "-1s" }, "pdf_timeout"},
		{"unknown engine", func(f *File) { f.PDFEngine = "wkhtmltopdf" }, "pdf_engine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFile()
			tt.mutate(f)
			_, err := Resolve(f)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestResolve_TokenCheckedFirst(t *testing.T) {
	_, err := Resolve(&File{})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "global_token" {
		t.Fatalf("expected token failure first, got %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"out/profile.json", "out/profile.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := validFile()
			want.ExportPDF = true
			want.ChromePath = "/opt/chrome"
			if err := Save(path, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if perm := info.Mode().Perm(); perm&0o077 != 0 && runtime.GOOS != "windows" {
				t.Errorf("profile permissions = %v, want owner-only", perm)
			}
			got, err := Read(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if *got != *want {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, *want)
			}
		})
	}
}

func TestFile_HTTPTimeout(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{"", DefaultHTTPTimeout, false},
		{"5s", 5 * time.Second, false},
		{"soon", 0, true},
		{"-1s", 0, true},
	}
	for _, tt := range tests {
		f := &File{Timeout: tt.raw}
		got, err := f.HTTPTimeout()
		if tt.wantErr {
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != "timeout" {
				t.Errorf("HTTPTimeout(%q): expected timeout ValidationError, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("HTTPTimeout(%q) = %v, %v; want %v", tt.raw, got, err, tt.want)
		}
	}
}
