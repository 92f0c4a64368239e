package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/verdict/internal/config"
)

var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Inspect the audit rubric",
}

var rubricValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a rubric file and list its dimensions",
	Long: `Validate a rubric file. Without a path the file named by rubric.path
in the configuration is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRubricValidate,
}

func init() {
	rootCmd.AddCommand(rubricCmd)
	rubricCmd.AddCommand(rubricValidateCmd)
}

func runRubricValidate(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		loader := config.NewLoaderWithViper(viper.GetViper())
		if cfgFile != "" {
			loader.WithConfigFile(cfgFile)
		}
		cfg, err := loader.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		path = cfg.Rubric.Path
	}

	rubric, err := config.LoadRubric(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (%d dimensions)\n", styled(goodStyle, "valid"), path, len(rubric.Dimensions))
	for _, d := range rubric.Dimensions {
		fmt.Fprintf(out, "  %-28s %-12s %s\n", d.ID, d.TargetArtifact, d.Name)
	}
	return nil
}
