package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/compiler/source"
	"github.com/hedl-lang/hedl/engine"
	"github.com/hedl-lang/hedl/internal/cli/config"
	"github.com/hedl-lang/hedl/internal/cli/ui"
	"github.com/hedl-lang/hedl/lint"
)

var lintNoColor bool

var lintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Lint a HEDL document",
	Long: `lint parses the document leniently and reports style, redundancy,
and advisory diagnostics, including resolution problems recorded during
lenient parsing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		data, err := readSource(args[0])
		if err != nil {
			return err
		}

		doc, err := engine.ParseDocument(data, false)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		diags := lint.Run(doc)
		file, _ := source.New(data)
		ui.PrintDiagnostics(os.Stdout, diags, ui.PrintOptions{
			Name:    args[0],
			File:    file,
			NoColor: lintNoColor,
		})

		if exceeds(diags, cfg.Lint.FailOn) {
			return fmt.Errorf("lint failed (fail_on=%s)", cfg.Lint.FailOn)
		}
		return nil
	},
}

// exceeds reports whether any diagnostic reaches the configured severity
func exceeds(diags []errors.Diagnostic, failOn string) bool {
	threshold := errors.Error
	switch failOn {
	case "warning":
		threshold = errors.Warning
	case "hint":
		threshold = errors.Hint
	}
	for _, d := range diags {
		if d.Severity >= threshold {
			return true
		}
	}
	return false
}

func init() {
	lintCmd.Flags().BoolVar(&lintNoColor, "no-color", false, "disable colored output")
}
