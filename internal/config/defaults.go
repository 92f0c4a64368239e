package config

// DefaultConfigYAML contains the default configuration written by `verdict init`.
const DefaultConfigYAML = `# verdict configuration
#
# Values not specified here use built-in defaults.
# Every key can be overridden with VERDICT_<SECTION>_<KEY>, e.g. VERDICT_LOG_LEVEL=debug.

log:
  level: info
  format: auto

rubric:
  # JSON or YAML file with a top-level "dimensions" list of {id, name, target_artifact}
  path: rubric/rubric.json

collectors:
  timeout: 3m
  # Budget for the clone alone; empty uses two thirds of timeout
  clone_timeout: ""
  # 0 clones full history
  clone_depth: 0
  history_limit: 200
  chunk_size: 1200
  keywords:
    - Dialectical Synthesis
    - Fan-In
    - Fan-Out
    - Metacognition
  path_prefixes:
    - src/
  image_dirs:
    - docs/images

judging:
  # One call per stance and rubric dimension; false asks each stance once about all dimensions
  per_dimension: true
  # 0 runs every call at once
  concurrency: 3
  # Minimum gap between completion calls, e.g. 2s. 0s disables pacing.
  pacing: 0s
  timeout: 3m

completion:
  # cli: pipe the prompt to a local command; genai: call the Gemini API
  provider: cli
  model: ""
  temperature: 0.0
  max_tokens: 2048
  cli:
    path: claude
    args: ["-p", "--output-format", "text"]
  genai:
    # Prefer the GEMINI_API_KEY environment variable
    api_key: ""

report:
  dir: audit
  # self, peer or by-peer
  category: self
  # Optional peer name prefixed to report filenames (audit_<peer_id>_<timestamp>.md)
  peer_id: ""
  use_utc: true
  enabled: true
`

// DefaultRubricJSON is the rubric written by `verdict init` when none exists.
const DefaultRubricJSON = `{
  "dimensions": [
    {
      "id": "git_forensic_analysis",
      "name": "Git Forensic Analysis",
      "target_artifact": "github_repo",
      "instruction": "Look for iterative, atomic commits rather than a single bulk upload."
    },
    {
      "id": "graph_orchestration",
      "name": "Graph Orchestration Architecture",
      "target_artifact": "github_repo",
      "instruction": "Check for parallel fan-out and fan-in wiring of the state graph."
    },
    {
      "id": "theoretical_depth",
      "name": "Theoretical Depth (Documentation)",
      "target_artifact": "pdf_report",
      "instruction": "Reward substantive explanation of the architecture, not keyword dropping."
    },
    {
      "id": "report_accuracy",
      "name": "Report Accuracy (Cross-Reference)",
      "target_artifact": "pdf_report",
      "instruction": "File paths cited in the report should exist in the repository."
    }
  ]
}
`
