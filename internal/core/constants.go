// Package core provides the audit domain model: evidence, rubric dimensions,
// opinions, reports, the run state, and the ports the pipeline depends on.
// All packages should import names from here to keep them consistent.
package core

// Collector identifiers
const (
	CollectorRepoInvestigator = "repo_investigator"
	CollectorDocAnalyst       = "doc_analyst"
	CollectorVisionInspector  = "vision_inspector"
)

// Collectors is the registration order of the built-in collectors.
var Collectors = []string{
	CollectorRepoInvestigator,
	CollectorDocAnalyst,
	CollectorVisionInspector,
}

// Evidence goals emitted by the built-in collectors.
const (
	GoalGitForensics       = "git_forensic_analysis"
	GoalCommitProgression  = "commit_progression"
	GoalGraphOrchestration = "graph_orchestration"
	GoalDocParsing         = "doc_parsing"
	GoalTheoreticalDepth   = "theoretical_depth"
	GoalReportFilePaths    = "report_file_paths"
	GoalVisionInspection   = "vision_inspection"
)

// Completion provider identifiers
const (
	ProviderCLI   = "cli"
	ProviderGenAI = "genai"
)

// Providers is the list of supported completion providers.
var Providers = []string{ProviderCLI, ProviderGenAI}

// IsValidProvider checks if the given provider name is supported.
func IsValidProvider(p string) bool {
	for _, name := range Providers {
		if name == p {
			return true
		}
	}
	return false
}

// UnassessedCriterion is the criterion id used by a fallback opinion when
// no rubric dimension is available.
const UnassessedCriterion = "unassessed"
