package pdfexport

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// waitDelay bounds how long Wait blocks on output pipes after the browser
// has been killed. Chrome helpers can hold them open.
const waitDelay = 5 * time.Second

// CLIEngine runs the browser's own --print-to-pdf mode.
type CLIEngine struct {
	NoSandbox bool
}

// Args returns the browser arguments for one conversion.
func (e CLIEngine) Args(fileURL, pdfPath string) []string {
	args := []string{
		"--headless=new",
		"--disable-gpu",
		"--print-to-pdf=" + pdfPath,
		"--print-to-pdf-no-header",
	}
	if e.NoSandbox {
		args = append(args, "--no-sandbox")
	}
	return append(args, fileURL)
}

func (e CLIEngine) Print(ctx context.Context, browser, fileURL, pdfPath string) error {
	cmd := exec.CommandContext(ctx, browser, e.Args(fileURL, pdfPath)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.Cancel = func() error { return killProcessTree(cmd.Process) }
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if msg := lastLine(out.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// killProcessTree kills a process and every descendant. Killing only the
// browser leaves its GPU, renderer and crashpad helpers running.
func killProcessTree(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	root, err := process.NewProcess(int32(proc.Pid))
	if err != nil {
		return proc.Kill()
	}
	descendants := collectDescendants(root)
	err = root.Kill()
	for _, d := range descendants {
		_ = d.Kill()
	}
	return err
}

func collectDescendants(p *process.Process) []*process.Process {
	children, err := p.Children()
	if err != nil {
		return nil
	}
	var all []*process.Process
	for _, c := range children {
		all = append(all, c)
		all = append(all, collectDescendants(c)...)
	}
	return all
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
