package ui

import (
	"github.com/fatih/color"
)

// InitUI applies global display settings.
func InitUI(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

// Close cleans up any UI resources.
func Close() {
	// Currently no cleanup needed, but can be used for future cleanup
}
