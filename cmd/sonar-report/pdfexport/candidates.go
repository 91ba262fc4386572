package pdfexport

import "runtime"

var runtimeGOOS = runtime.GOOS

// Add new browser locations here.
var (
	darwinBrowsers = []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
	}
	windowsBrowsers = []string{
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
	}
	pathBrowsers = []string{
		"google-chrome",
		"chrome",
		"chromium",
		"chromium-browser",
	}
)

// Candidates returns the browsers to try, in order: userPath when set, the
// platform install locations for goos, then names resolved through PATH.
func Candidates(userPath, goos string) []string {
	var out []string
	if userPath != "" {
		out = append(out, userPath)
	}
	switch goos {
	case "darwin":
		out = append(out, darwinBrowsers...)
	case "windows":
		out = append(out, windowsBrowsers...)
	}
	return append(out, pathBrowsers...)
}
