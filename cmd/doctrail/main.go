package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidyasagar/doctrail/internal/app"
	"github.com/vidyasagar/doctrail/internal/theme"
)

var (
	version = "0.1.0"
)

func main() {
	var (
		themeName   string
		siteURL     string
		showVersion bool
	)

	flag.StringVar(&themeName, "theme", "default", "color theme (default, gruvbox, nord)")
	flag.StringVar(&siteURL, "site", "", "documentation site root that /paths resolve against")
	flag.BoolVar(&showVersion, "version", false, "show version")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "doctrail - a terminal reader for documentation sites\n\n")
		fmt.Fprintf(os.Stderr, "Usage: doctrail [flags] [url-or-path]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  doctrail                                  # start with welcome screen\n")
		fmt.Fprintf(os.Stderr, "  doctrail https://docs.example.com         # open a documentation site\n")
		fmt.Fprintf(os.Stderr, "  doctrail --site docs.example.com /guide   # open a path within a site\n")
		fmt.Fprintf(os.Stderr, "  doctrail --theme nord docs.example.com    # use the nord theme\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("doctrail %s\n", version)
		os.Exit(0)
	}

	// Apply theme.
	if !theme.Set(themeName) {
		fmt.Fprintf(os.Stderr, "Unknown theme: %s\nAvailable: default, gruvbox, nord\n", themeName)
		os.Exit(1)
	}

	// Optional starting location: a full URL, or a path under --site.
	var startURL string
	if flag.NArg() > 0 {
		startURL = flag.Arg(0)
	}
	if siteURL == "" && startURL != "" && startURL[0] != '/' {
		siteURL = startURL
	}

	m := app.New(siteURL, startURL)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
