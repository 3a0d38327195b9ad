// Command tintctl is the operator console for the tint filter server. It
// sends single-letter command tokens to the TCP command link.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zsiec/tint/pkg/version"
)

func main() {
	var (
		addr        string
		token       string
		statusURL   string
		useHTTP3    bool
		timeout     time.Duration
		showVersion bool
	)

	flag.StringVar(&addr, "addr", "localhost:9000", "Command server address")
	flag.StringVar(&token, "send", "", "Send one token and exit")
	flag.StringVar(&statusURL, "status", "", "Mode API URL to poll, e.g. http://localhost:8080/api/v1/mode")
	flag.BoolVar(&useHTTP3, "http3", false, "Poll the mode API over HTTP/3")
	flag.DurationVar(&timeout, "timeout", 2*time.Second, "Network timeout")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Println(version.GetInfo().String())
		return
	}

	if token != "" {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := sendToken(ctx, addr, token, timeout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	var status *statusClient
	if statusURL != "" {
		status = newStatusClient(statusURL, useHTTP3, timeout)
	}

	if _, err := tea.NewProgram(newConsoleModel(addr, timeout, status)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Console error: %v\n", err)
		os.Exit(1)
	}
}
