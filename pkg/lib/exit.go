package lib

import (
	"fmt"
	"io"
	"os"
)

// Exit prints the error and exits the program with code 1
func Exit(err error) {
	writeError(Stderr.Out, err)
	os.Exit(1)
}

func writeError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
}
