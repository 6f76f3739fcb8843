package outwriter

import (
	"os"

	"github.com/huangsam/abtrend/internal/contract"
	"golang.org/x/term"
)

// Preview sizing bounds.
const (
	previewHeight   = 8
	minPreviewWidth = 20
	maxPreviewWidth = 100
	previewMargin   = 12 // Y axis labels and padding
)

// getTerminalWidth returns the --width override, the detected terminal width
// or a conservative default.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getPreviewWidth sizes the ASCII preview plot to the terminal.
func getPreviewWidth(cfg *contract.Config) int {
	available := getTerminalWidth(cfg) - previewMargin
	if available < minPreviewWidth {
		return minPreviewWidth
	}
	if available > maxPreviewWidth {
		return maxPreviewWidth
	}
	return available
}
