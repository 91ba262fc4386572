package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"sonar-report/cmd/sonar-report/pdfexport"
	"sonar-report/cmd/sonar-report/profile"
	"sonar-report/cmd/sonar-report/report"
	"sonar-report/cmd/sonar-report/sonar"
	"sonar-report/pkg/lib"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func bindGenerate(root *cobra.Command) {
	var (
		pdf   bool
		noPDF bool
	)
	addPDFFlags(root.Flags(), &pdf, &noPDF)
	root.MarkFlagsMutuallyExclusive("pdf", "no-pdf")

	root.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := profile.Load(flagProfile)
		if err != nil {
			return err
		}
		switch {
		case pdf:
			cfg.ExportPDF = true
		case noPDF:
			cfg.ExportPDF = false
		}
		_, err = generate(cmd.Context(), cfg, generateOptions{Console: lib.Stderr})
		return err
	}
}

// addPDFFlags registers the flags that override export_pdf from the profile.
func addPDFFlags(fs *pflag.FlagSet, pdf, noPDF *bool) {
	fs.BoolVar(pdf, "pdf", false, "Export the report to PDF regardless of export_pdf")
	fs.BoolVar(noPDF, "no-pdf", false, "Skip PDF export regardless of export_pdf")
}

type generateOptions struct {
	Console *lib.Console
	// Now defaults to time.Now.
	Now func() time.Time
	// Exporter defaults to pdfexport.New for the profile's engine.
	Exporter *pdfexport.Exporter
}

// generateResult holds the files a run produced. Both are empty when the
// project has no vulnerabilities; PDFPath is empty when export was skipped
// or failed.
type generateResult struct {
	HTMLPath string
	PDFPath  string
}

// generate runs the whole report pipeline for cfg. Badge failures only
// degrade the report, an empty issue search ends the run without output,
// and a failed PDF export leaves the HTML report in place.
func generate(ctx context.Context, cfg *profile.Config, opts generateOptions) (generateResult, error) {
	con := opts.Console
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var res generateResult

	client := sonar.NewClient(cfg.ServerURL, cfg.Token, cfg.UserToken, cfg.HTTPTimeout)

	badgeToken, err := client.FetchBadgeToken(ctx, cfg.ProjectKey)
	if err != nil {
		con.Warn("badge token unavailable: %v", err)
	}
	cfg.BadgeDataURI, err = client.FetchQualityGateBadge(ctx, cfg.ProjectKey, cfg.Branch, badgeToken)
	if err != nil {
		con.Warn("quality gate badge unavailable: %v", err)
	}

	con.Info("fetching SonarQube vulnerabilities for %s...", cfg.ProjectKey)
	issues, err := client.FetchVulnerabilities(ctx, cfg.ProjectKey)
	if errors.Is(err, sonar.ErrNoIssues) {
		con.Warn("no vulnerabilities found for %s, no report written", cfg.ProjectKey)
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("fetching vulnerabilities: %w", err)
	}
	con.Info("fetched %d vulnerabilities", len(issues))

	built := report.Build(issues)

	started := now()
	cfg.OutputDir, err = report.EnsureOutputDir(cfg.OutputRoot, started, cfg.ProjectKey)
	if err != nil {
		return res, err
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		return res, err
	}
	view := report.NewView(cfg.ProjectKey, cfg.Branch, cfg.ReportName, cfg.BadgeDataURI, built)
	view.RunID = uuid.NewString()
	view.GeneratedAt = started
	res.HTMLPath, err = renderer.WriteReport(cfg.OutputDir, view)
	if err != nil {
		return res, err
	}
	con.Success("report written: %s (%d issues: %d critical, %d major, %d minor)",
		res.HTMLPath, view.Total, built.Counts.Critical, built.Counts.Major, built.Counts.Minor)

	if !cfg.ExportPDF {
		return res, nil
	}
	exporter := opts.Exporter
	if exporter == nil {
		exporter = pdfexport.New(cfg.PDFEngine, cfg.ChromePath, cfg.PDFTimeout)
	}
	pdfPath, err := exporter.Export(ctx, res.HTMLPath, filepath.Join(cfg.OutputDir, cfg.PDFName))
	if err != nil {
		con.Error("PDF export failed: %v", err)
		con.Error("install Chrome/Chromium or set chrome_path in the profile")
		return res, nil
	}
	res.PDFPath = pdfPath
	con.Success("PDF written: %s", pdfPath)
	return res, nil
}
