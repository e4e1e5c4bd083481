// Command loom runs the element runtime demo and inspects its configuration
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/loom/core"
)

// Version info set via ldflags at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "none"
)

var errStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

func main() {
	// Terminal restore on panic; the engine attaches the terminal once it is raw
	guard := core.Install(nil)
	defer guard.Recover()

	if err := newRootCmd(guard).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
		os.Exit(1)
	}
}
