package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hedl-lang/hedl/engine"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Canonicalize a HEDL document",
	Long: `fmt rewrites a HEDL document into its canonical form: directives
ordered, deterministic quoting and numeric forms, two-space indentation.
Reads stdin when the file is "-".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readSource(args[0])
		if err != nil {
			return err
		}

		doc, err := engine.ParseDocument(data, false)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		text, err := engine.CanonicalizeDocument(doc)
		if err != nil {
			return err
		}

		if fmtWrite && args[0] != "-" {
			return os.WriteFile(args[0], []byte(text), 0o644)
		}
		fmt.Print(text)
		return nil
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result back to the source file")
}
