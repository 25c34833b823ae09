package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-docx/internal/db"
)

type historyFlags struct {
	databaseURL string
	profile     string
	layout      string
	limit       int
	asJSON      bool
}

func newHistoryCmd(a *app) *cobra.Command {
	f := &historyFlags{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List renders recorded in the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "Only renders of this profile")
	cmd.Flags().StringVar(&f.layout, "layout", "", "Only renders with this layout")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", db.DefaultListLimit, "Maximum number of renders")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func runHistory(cmd *cobra.Command, f *historyFlags) error {
	dbURL := f.databaseURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	renders, err := database.ListRenders(ctx, db.RenderFilters{
		Profile: f.profile,
		Layout:  f.layout,
		Limit:   f.limit,
	})
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if renders == nil {
			renders = []db.Render{}
		}
		return enc.Encode(renders)
	}
	return printHistory(stdout, renders)
}

func printHistory(out io.Writer, renders []db.Render) error {
	if len(renders) == 0 {
		_, err := fmt.Fprintln(out, "No renders recorded.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CREATED\tPROFILE\tLAYOUT\tSECTIONS\tOUTPUT")
	for _, r := range renders {
		profile := r.Profile
		if profile == "" {
			profile = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			profile, r.Layout, strings.Join(r.Sections, ","), r.OutputPath)
	}
	return tw.Flush()
}
