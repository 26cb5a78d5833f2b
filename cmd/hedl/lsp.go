package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hedl-lang/hedl/internal/lsp"
)

var lspDebug bool

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the HEDL language server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		var logger *zap.Logger
		var err error
		if lspDebug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return err
		}
		defer logger.Sync()

		return lsp.NewServer(logger).Run(context.Background())
	},
}

func init() {
	lspCmd.Flags().BoolVar(&lspDebug, "debug", false, "verbose logging to stderr")
}
