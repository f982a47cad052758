package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders markdown to the terminal. When rendering fails (no
// TTY, exotic TERM), the raw markdown is still perfectly readable.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprintln(os.Stdout, md)
		return
	}
	fmt.Fprintln(os.Stdout, out)
}
