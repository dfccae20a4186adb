// Package browser launches URLs with the platform's default handler.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bibrarian/bibrarian-cli/internal/logger"
)

// Open starts the platform's URL handler without waiting for it.
func Open(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// OpenCmd wraps Open in a bubbletea command. Failures are logged; a
// browser that cannot start never disturbs the session.
func OpenCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := Open(url); err != nil {
			logger.Warn("opening %s: %v", url, err)
		}
		return nil
	}
}
