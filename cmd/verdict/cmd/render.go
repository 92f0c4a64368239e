package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/verdict/internal/service/report"
)

var renderCmd = &cobra.Command{
	Use:   "render <report.json>",
	Short: "Render a saved JSON report as markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var renderPlain bool

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVar(&renderPlain, "plain", false, "print raw markdown even on a terminal")
}

func runRender(cmd *cobra.Command, args []string) error {
	r, err := report.LoadJSON(args[0])
	if err != nil {
		return err
	}
	doc := report.Render(r)
	if renderPlain {
		_, err := cmd.OutOrStdout().Write([]byte(doc))
		return err
	}
	return printMarkdown(cmd.OutOrStdout(), doc, int(os.Stdout.Fd()))
}
