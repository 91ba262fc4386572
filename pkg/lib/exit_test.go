package lib

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWriteError(t *testing.T) {
	var b strings.Builder
	err := fmt.Errorf("fetching vulnerabilities: %w", errors.New("503 Service Unavailable"))
	writeError(&b, err)

	if got, want := b.String(), "Error: fetching vulnerabilities: 503 Service Unavailable\n"; got != want {
		t.Fatalf("writeError = %q, want %q", got, want)
	}
}
