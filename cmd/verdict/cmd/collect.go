package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/service/pipeline"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run only the evidence collectors and print their findings",
	Long: `Run the collectors without asking any judge. The merged evidence is
printed as JSON, one bucket per collector in registration order.`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
	addInputFlags(collectCmd)
}

// evidenceBucket is one collector's output in the printed JSON.
type evidenceBucket struct {
	Collector string          `json:"collector"`
	Evidence  []core.Evidence `json:"evidence"`
}

func runCollect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	rubricFlag, _ := cmd.Flags().GetString("rubric")
	rubric, err := loadRubric(cfg, rubricFlag)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p, err := pipeline.New(rubric, buildCollectors(cfg, logger), nil,
		pipelineOptions(cfg, logger, false, core.CategorySelf), logger)
	if err != nil {
		return err
	}

	state, err := p.Collect(ctx, auditInput(cmd))
	if err != nil {
		return err
	}
	return writeEvidence(cmd, state.Evidence)
}

func writeEvidence(cmd *cobra.Command, evidence *core.EvidenceMap) error {
	buckets := make([]evidenceBucket, 0, len(evidence.Collectors()))
	for _, name := range evidence.Collectors() {
		buckets = append(buckets, evidenceBucket{Collector: name, Evidence: evidence.Bucket(name)})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(buckets); err != nil {
		return fmt.Errorf("encoding evidence: %w", err)
	}
	return nil
}
