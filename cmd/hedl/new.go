package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Scaffold a new HEDL document",
	Long: `new interactively creates a starter document plus a hedl.yml tool
configuration in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		questions := []*survey.Question{}
		if name == "" {
			questions = append(questions, &survey.Question{
				Name:     "name",
				Prompt:   &survey.Input{Message: "Document name:", Default: "example"},
				Validate: survey.Required,
			})
		}

		answers := struct {
			Name       string
			WithSchema bool `survey:"withschema"`
			Strict     bool
		}{Name: name}

		questions = append(questions,
			&survey.Question{
				Name:   "withschema",
				Prompt: &survey.Confirm{Message: "Include a sample schema and matrix list?", Default: true},
			},
			&survey.Question{
				Name:   "strict",
				Prompt: &survey.Confirm{Message: "Default to strict resolution?", Default: true},
			},
		)

		if err := survey.Ask(questions, &answers); err != nil {
			return err
		}

		path := answers.Name + ".hedl"
		if _, err := os.Stat(path); err == nil {
			overwrite := false
			prompt := &survey.Confirm{Message: fmt.Sprintf("%s exists. Overwrite?", path)}
			if err := survey.AskOne(prompt, &overwrite); err != nil {
				return err
			}
			if !overwrite {
				return fmt.Errorf("aborted")
			}
		}

		if err := os.WriteFile(path, []byte(scaffold(answers.Name, answers.WithSchema)), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile("hedl.yml", []byte(scaffoldConfig(answers.Strict)), 0o644); err != nil {
			return err
		}

		fmt.Printf("Created %s and hedl.yml\n", path)
		return nil
	},
}

func scaffold(name string, withSchema bool) string {
	if !withSchema {
		return "%VERSION: 1.0\n---\nname: " + name + "\n"
	}
	return `%VERSION: 1.0
%SCHEMA: Item { id: int, label: string, weight?: float = 1.0 }
%ALIAS: origin = ` + name + `
---
source: @origin
items: [
  Item { id: 1, label: first },
  Item { id: 2, label: second }
]
`
}

func scaffoldConfig(strict bool) string {
	return fmt.Sprintf(`strict: %t
lint:
  fail_on: error
convert:
  format: json
  metadata: false
  merge: true
`, strict)
}
