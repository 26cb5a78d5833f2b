package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hedl-lang/hedl/emit/csvout"
	"github.com/hedl-lang/hedl/emit/cypherout"
	"github.com/hedl-lang/hedl/emit/jsonout"
	"github.com/hedl-lang/hedl/emit/xmlout"
	"github.com/hedl-lang/hedl/emit/yamlout"
	"github.com/hedl-lang/hedl/engine"
	"github.com/hedl-lang/hedl/internal/cli/config"
)

var (
	convertTo       string
	convertOut      string
	convertMetadata bool
	convertMerge    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a HEDL document to a foreign format",
	Long: `convert parses the document and renders it as json, yaml, xml, csv,
or cypher. CSV requires a root-level matrix list; cypher emits one node per record
reached through root lists and maps.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		format := cfg.Convert.Format
		if convertTo != "" {
			format = convertTo
		}
		metadata := cfg.Convert.Metadata || convertMetadata
		merge := cfg.Convert.Merge
		if cmd.Flags().Changed("merge") {
			merge = convertMerge
		}

		data, err := readSource(args[0])
		if err != nil {
			return err
		}
		doc, err := engine.ParseDocument(data, cfg.Strict)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		var out string
		switch format {
		case "json":
			out, err = jsonout.Emit(doc, metadata)
		case "yaml":
			out, err = yamlout.Emit(doc, metadata)
		case "xml":
			out, err = xmlout.Emit(doc)
		case "csv":
			out, err = csvout.Emit(doc)
		case "cypher":
			out, err = cypherout.Emit(doc, merge)
		default:
			return fmt.Errorf("unknown format %q (want json, yaml, xml, csv, or cypher)", format)
		}
		if err != nil {
			return err
		}

		if convertOut != "" {
			return os.WriteFile(convertOut, []byte(out), 0o644)
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target format: json, yaml, xml, csv, cypher")
	convertCmd.Flags().StringVarP(&convertOut, "output", "o", "", "write output to file instead of stdout")
	convertCmd.Flags().BoolVar(&convertMetadata, "metadata", false, "include __version__/__schema__ metadata (json, yaml)")
	convertCmd.Flags().BoolVar(&convertMerge, "merge", true, "use MERGE instead of CREATE (cypher)")
}
