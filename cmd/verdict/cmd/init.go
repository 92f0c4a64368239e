package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/verdict/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration and rubric",
	Long: `Write .verdict.yaml and rubric/rubric.json into the current directory.
Existing files are left alone unless --force is given.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, _ []string) error {
	files := []struct {
		path    string
		content string
	}{
		{".verdict.yaml", config.DefaultConfigYAML},
		{filepath.Join("rubric", "rubric.json"), config.DefaultRubricJSON},
	}

	out := cmd.OutOrStdout()
	for _, f := range files {
		if initForce {
			if err := config.AtomicWrite(f.path, []byte(f.content)); err != nil {
				return fmt.Errorf("writing %s: %w", f.path, err)
			}
			fmt.Fprintf(out, "wrote %s\n", f.path)
			continue
		}
		written, err := config.WriteIfMissing(f.path, []byte(f.content))
		if err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		if written {
			fmt.Fprintf(out, "wrote %s\n", f.path)
		} else {
			fmt.Fprintf(out, "kept existing %s\n", f.path)
		}
	}
	return nil
}
