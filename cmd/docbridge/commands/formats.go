package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/docbridge-ai/docbridge/cmd/docbridge/ui"
	"github.com/docbridge-ai/docbridge/internal/convert"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported input and output formats",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InitUI(noColor)
		defer ui.Close()

		ui.Section("Supported Formats")
		ui.Table([]string{"Direction", "Formats"}, [][]string{
			{"input", strings.Join(convert.SupportedInputExtensions(), " ")},
			{"output", strings.Join(convert.SupportedOutputFormats(), " ")},
		})
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
