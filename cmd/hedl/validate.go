package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hedl-lang/hedl/engine"
	"github.com/hedl-lang/hedl/internal/cli/config"
)

var (
	validateStrict  bool
	validateLenient bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a HEDL document",
	Long: `validate parses and resolves the document, reporting the first hard
failure. Strictness defaults to the hedl.yml setting; --strict and
--lenient override it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		strict := cfg.Strict
		if validateStrict {
			strict = true
		}
		if validateLenient {
			strict = false
		}

		data, err := readSource(args[0])
		if err != nil {
			return err
		}
		if err := engine.Validate(data, strict); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Printf("%s: ok\n", args[0])
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on any unresolved reference or type mismatch")
	validateCmd.Flags().BoolVar(&validateLenient, "lenient", false, "record recoverable issues instead of failing")
	validateCmd.MarkFlagsMutuallyExclusive("strict", "lenient")
}
