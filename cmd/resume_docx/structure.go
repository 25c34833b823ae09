package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-docx/internal/dataio"
	"github.com/jonathan/resume-docx/internal/fetch"
	"github.com/jonathan/resume-docx/internal/observability"
	"github.com/jonathan/resume-docx/internal/structure"
	"github.com/jonathan/resume-docx/internal/types"
)

type structureFlags struct {
	source  string
	browser string
	out     string
	profile string
	outDir  string
}

func newStructureCmd(a *app) *cobra.Command {
	f := &structureFlags{}
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Infer a section order from a reference resume",
		Long: `Reads the headings of a reference resume (.docx, .html, .md or a URL),
maps them to section keys and writes a structure descriptor. With --profile the
descriptor lands where render discovers it: <out-dir>/<profile>/structure.yaml.
Without --out or --profile it is printed as YAML.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStructure(cmd, a, f)
		},
	}
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "Reference document path or URL (required)")
	cmd.Flags().StringVar(&f.browser, "browser", "auto", "Headless browser use for URLs: auto, always or never")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the descriptor to this file (.yaml or .json)")
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "Write the descriptor for this profile")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "out", "Output directory used with --profile")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func runStructure(cmd *cobra.Command, a *app, f *structureFlags) error {
	var st *types.Structure
	var err error
	if structure.IsDescriptor(f.source) && !structure.IsURL(f.source) {
		st, err = structure.LoadDescriptor(f.source)
	} else {
		client := fetch.NewClient(fetch.DefaultOptions(), fetch.ParseBrowserMode(f.browser), a.logger)
		st, err = structure.Infer(cmd.Context(), client, f.source)
	}
	if err != nil {
		return err
	}
	a.logger.Debug("structure inferred", zap.String("source", f.source), zap.Strings("order", st.Order))

	stdout := cmd.OutOrStdout()
	path := f.out
	if path == "" && f.profile != "" {
		path = filepath.Join(f.outDir, f.profile, "structure.yaml")
	}
	if path == "" {
		data, err := dataio.Marshal(st, dataio.FormatYAML)
		if err != nil {
			return fmt.Errorf("failed to encode structure: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	}

	if err := dataio.WriteFile(path, st); err != nil {
		return err
	}
	if a.verbose {
		observability.NewPrinter(stdout).PrintStructure(f.source, st)
	}
	_, _ = fmt.Fprintf(stdout, "Wrote %s (%d sections)\n", path, len(st.Order))
	return nil
}
