package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-docx/internal/candidate"
	"github.com/jonathan/resume-docx/internal/dataio"
	"github.com/jonathan/resume-docx/internal/observability"
	"github.com/jonathan/resume-docx/internal/overlay"
)

type overlayFlags struct {
	data      string
	profile   string
	configDir string
	strict    bool
}

func newOverlayCmd(a *app) *cobra.Command {
	f := &overlayFlags{}
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Print the candidate record with a profile's overlays applied",
		Long: `Applies the overlays of --profile to the candidate record and prints the
merged record as YAML, followed by which overlay files applied and why the
others were skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOverlay(cmd, a, f)
		},
	}
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "Candidate record (required)")
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "Overlay profile (required)")
	cmd.Flags().StringVar(&f.configDir, "config-dir", "", "Profile overlay root (default: RESUME_CONFIG_DIR or config)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Validate the candidate record against its schema")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func runOverlay(cmd *cobra.Command, a *app, f *overlayFlags) error {
	base, err := candidate.Load(f.data, candidate.Options{Strict: f.strict, Logger: a.logger})
	if err != nil {
		return err
	}

	configDir := f.configDir
	if configDir == "" {
		configDir = envOr("RESUME_CONFIG_DIR", overlay.DefaultConfigDir)
	}
	merged, rep := overlay.NewResolver(configDir, a.logger).Apply(base, f.profile)

	data, err := dataio.Marshal(merged, dataio.FormatYAML)
	if err != nil {
		return fmt.Errorf("failed to encode candidate: %w", err)
	}
	stdout := cmd.OutOrStdout()
	if _, err := stdout.Write(data); err != nil {
		return err
	}
	observability.NewPrinter(stdout).PrintOverlayReport(rep)
	return nil
}
