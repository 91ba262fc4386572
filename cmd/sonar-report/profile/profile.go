// Package profile loads and validates the report profile: which project to
// read from which server, the credentials to use and where the report goes.
package profile

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath        = "profile.json"
	DefaultOutputRoot  = "Output"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultPDFTimeout  = 2 * time.Minute

	EngineCLI = "cli"
	EngineCDP = "cdp"
)

// File is the on-disk shape of a profile. The same keys are used for JSON
// and YAML profiles.
type File struct {
	ProjectName   string `json:"project_name" yaml:"project_name"`
	ProjectBranch string `json:"project_branch,omitempty" yaml:"project_branch,omitempty"`
	SonarURL      string `json:"sonar_url" yaml:"sonar_url"`
	GlobalToken   string `json:"global_token,omitempty" yaml:"global_token,omitempty"`
	ProjectToken  string `json:"project_token,omitempty" yaml:"project_token,omitempty"`
	UserToken     string `json:"user_token" yaml:"user_token"`
	ReportName    string `json:"report_name,omitempty" yaml:"report_name,omitempty"`
	ExportPDF     bool   `json:"export_pdf" yaml:"export_pdf"`
	PDFName       string `json:"pdf_name,omitempty" yaml:"pdf_name,omitempty"`
	ChromePath    string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	Timeout       string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	PDFTimeout    string `json:"pdf_timeout,omitempty" yaml:"pdf_timeout,omitempty"`
	PDFEngine     string `json:"pdf_engine,omitempty" yaml:"pdf_engine,omitempty"`
	OutputRoot    string `json:"output_root,omitempty" yaml:"output_root,omitempty"`
}

// HTTPTimeout parses the timeout key, falling back to DefaultHTTPTimeout.
func (f *File) HTTPTimeout() (time.Duration, error) {
	return parseTimeout("timeout", f.Timeout, DefaultHTTPTimeout)
}

// PrimaryToken is the token used for issue search and the badge image:
// global_token when set, project_token otherwise.
func (f *File) PrimaryToken() string {
	if f.GlobalToken != "" {
		return f.GlobalToken
	}
	return f.ProjectToken
}

// Config is the validated, normalised profile threaded through a run.
type Config struct {
	ProjectKey  string
	Branch      string
	ServerURL   string
	Token       string
	UserToken   string
	ReportName  string
	ExportPDF   bool
	PDFName     string
	ChromePath  string
	HTTPTimeout time.Duration
	PDFTimeout  time.Duration
	PDFEngine   string
	OutputRoot  string

	// Set by the pipeline once computed.
	OutputDir    string
	BadgeDataURI string
}

// Load reads the profile at path and resolves it into a Config.
func Load(path string) (*Config, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Resolve(f)
}

// Read decodes the profile at path without validating it. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var f File
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing profile %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing profile %s: %w", path, err)
		}
	}
	return &f, nil
}

// Save writes f to path in the format implied by the extension. The file
// holds tokens, so it is created owner-readable only.
func Save(path string, f *File) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(f)
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("serialising profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o600)
}

// Resolve applies defaults to f and validates the result. Checks run in a
// fixed order and the first failure is returned as a *ValidationError.
func Resolve(f *File) (*Config, error) {
	cfg := &Config{
		ProjectKey: strings.TrimSpace(f.ProjectName),
		Branch:     strings.TrimSpace(f.ProjectBranch),
		ServerURL:  strings.TrimRight(strings.TrimSpace(f.SonarURL), "/"),
		Token:      f.PrimaryToken(),
		UserToken:  f.UserToken,
		ReportName: f.ReportName,
		ExportPDF:  f.ExportPDF,
		PDFName:    f.PDFName,
		ChromePath: f.ChromePath,
		PDFEngine:  strings.ToLower(strings.TrimSpace(f.PDFEngine)),
		OutputRoot: f.OutputRoot,
	}
	if cfg.ReportName == "" {
		cfg.ReportName = cfg.ProjectKey + "_report.html"
	}
	if cfg.PDFName == "" {
		cfg.PDFName = cfg.ProjectKey + "_report.pdf"
	}
	if cfg.PDFEngine == "" {
		cfg.PDFEngine = EngineCLI
	}
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = DefaultOutputRoot
	}

	if cfg.Token == "" {
		return nil, invalid("global_token", "global_token or project_token must be set")
	}
	if cfg.UserToken == "" {
		return nil, invalid("user_token", "must not be empty")
	}
	if cfg.ProjectKey == "" {
		return nil, invalid("project_name", "must not be empty")
	}
	if !strings.HasSuffix(strings.ToLower(cfg.ReportName), ".html") {
		return nil, invalid("report_name", fmt.Sprintf("%q must end in .html", cfg.ReportName))
	}
	if err := checkServerURL(cfg.ServerURL); err != nil {
		return nil, err
	}

	var err error
	if cfg.HTTPTimeout, err = f.HTTPTimeout(); err != nil {
		return nil, err
	}
	if cfg.PDFTimeout, err = parseTimeout("pdf_timeout", f.PDFTimeout, DefaultPDFTimeout); err != nil {
		return nil, err
	}
	switch cfg.PDFEngine {
	case EngineCLI, EngineCDP:
	default:
		return nil, invalid("pdf_engine", fmt.Sprintf("unknown engine %q (available: %s, %s)", cfg.PDFEngine, EngineCLI, EngineCDP))
	}
	return cfg, nil
}

func checkServerURL(raw string) error {
	if raw == "" {
		return invalid("sonar_url", "must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("sonar_url", fmt.Sprintf("%q is not an absolute http(s) URL", raw))
	}
	return nil
}

func parseTimeout(field, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, invalid(field, fmt.Sprintf("%q is not a positive duration", raw))
	}
	return d, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
