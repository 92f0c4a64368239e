package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/pipeline"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a repository and its report against the rubric",
	Long: `Run the full audit: collect evidence, ask the three judges, synthesize the
verdict and write the report under report.dir.

Example:
  verdict audit --repo https://github.com/acme/agent --doc report.pdf`,
	RunE: runAudit,
}

var (
	auditCategory string
	auditNoSave   bool
	auditPrint    bool
)

func init() {
	rootCmd.AddCommand(auditCmd)
	addInputFlags(auditCmd)
	auditCmd.Flags().StringVar(&auditCategory, "category", "", "report category: self, peer or by-peer (overrides report.category)")
	auditCmd.Flags().BoolVar(&auditNoSave, "no-save", false, "do not write the report to disk")
	auditCmd.Flags().BoolVar(&auditPrint, "print", false, "print the full markdown report")
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	categoryName := cfg.Report.Category
	if auditCategory != "" {
		categoryName = auditCategory
	}
	category, err := core.ParseReportCategory(categoryName)
	if err != nil {
		return err
	}

	rubricFlag, _ := cmd.Flags().GetString("rubric")
	rubric, err := loadRubric(cfg, rubricFlag)
	if err != nil {
		return err
	}

	input := auditInput(cmd)
	if input.RepoURL == "" && input.DocumentPath == "" {
		logger.Warn("no --repo or --doc given; the report will only reflect missing inputs")
	}

	ctx, cancel := signalContext()
	defer cancel()

	generators, err := buildGenerators(ctx, cfg, logger)
	if err != nil {
		return err
	}
	p, err := pipeline.New(rubric, buildCollectors(cfg, logger), generators,
		pipelineOptions(cfg, logger, !auditNoSave, category), logger)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx, input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if auditPrint {
		if err := printMarkdown(out, res.Document, int(os.Stdout.Fd())); err != nil {
			return err
		}
	}
	if !quiet {
		printSummary(out, res.Report)
		if res.Location != "" {
			fmt.Fprintf(out, "Report written to %s\n", res.Location)
		}
	}
	return nil
}
