package pdfexport

import (
	"errors"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func init() {
	// pdfcpu otherwise installs a config directory under the user's home.
	api.DisableConfigDir()
}

// ValidatePDF reports whether path holds a structurally valid PDF.
func ValidatePDF(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return errors.New("empty file")
	}
	return api.ValidateFile(path, nil)
}
