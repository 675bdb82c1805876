// Package clipboard copies text using the platform clipboard command.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// ErrUnavailable is returned when no clipboard command was found.
var ErrUnavailable = errors.New("clipboard: no copy command available")

// provider caches the detected clipboard command on first use.
var (
	providerOnce sync.Once
	copyCmd      []string
)

func detectProvider() {
	providerOnce.Do(func() {
		copyCmd = copyCommand(runtime.GOOS, hasCommand)
	})
}

// copyCommand picks the copy command for goos. On Linux and the BSDs it
// prefers wl-copy for Wayland, then xclip, then xsel.
func copyCommand(goos string, has func(string) bool) []string {
	switch goos {
	case "darwin":
		return []string{"pbcopy"}
	case "windows":
		return []string{"clip.exe"}
	}
	switch {
	case has("wl-copy"):
		return []string{"wl-copy"}
	case has("xclip"):
		return []string{"xclip", "-selection", "clipboard"}
	case has("xsel"):
		return []string{"xsel", "--clipboard", "--input"}
	}
	return nil
}

// hasCommand checks if a command is available in PATH.
func hasCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Available returns true if a clipboard command was detected.
func Available() bool {
	detectProvider()
	return len(copyCmd) > 0
}

// WriteText copies text to the system clipboard.
func WriteText(text string) error {
	detectProvider()
	if len(copyCmd) == 0 {
		return ErrUnavailable
	}

	cmd := exec.Command(copyCmd[0], copyCmd[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard: %s: %w", copyCmd[0], err)
	}
	return nil
}
