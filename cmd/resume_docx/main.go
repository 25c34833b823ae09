// Package main provides the resume_docx command line tool, which renders
// structured resume data into DOCX documents.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-docx/internal/logging"
)

// app holds state shared by every subcommand.
type app struct {
	verbose     bool
	logEncoding string
	logger      *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "resume_docx",
		Short: "Render structured resume data into DOCX documents",
		Long: `resume_docx renders a candidate record into a styled DOCX resume.

A template descriptor chooses the sections, their styling and the page layout
(single column or sidebar). Profile overlays under the config directory
produce tailored variants, and a structure descriptor or reference document
can reorder sections without editing the template.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Options{Verbose: a.verbose, Encoding: a.logEncoding})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Print detailed render reports and debug logs")
	rootCmd.PersistentFlags().StringVar(&a.logEncoding, "log-encoding", logging.EncodingConsole, "Log encoding: console or json")

	rootCmd.AddCommand(
		newRenderCmd(a),
		newStructureCmd(a),
		newOverlayCmd(a),
		newHistoryCmd(a),
	)
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
