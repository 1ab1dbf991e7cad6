package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiview/internal/resume"
	"github.com/verte-zerg/tuiview/internal/stats"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Print the candidate list or one candidate's answers",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}
	addDashboardFlags(cmd)
	cmd.Flags().StringVar(&sessionsID, "id", "", "print the full interview of this session")
	return cmd
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	rt, err := openAppEnv(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg, err := dashboardConfig(cmd, rt.file)
	if err != nil {
		return err
	}
	report, err := stats.LoadReport(context.Background(), rt.db, cfg)
	if err != nil {
		rt.log.Error("failed to load sessions", zap.Error(err))
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if sessionsID != "" {
		for _, s := range report.All {
			if s.ID == sessionsID {
				return stats.RenderDetail(out, s)
			}
		}
		return fmt.Errorf("session %q not found", sessionsID)
	}
	if err := stats.RenderOverview(out, report.Overview); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	return stats.RenderTable(out, report.Candidates, terminalWidth(out))
}

// terminalWidth returns the column count when w is a terminal, 0 otherwise.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func newResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <file>",
		Short: "Extract contact details from a resume",
		Args:  cobra.ExactArgs(1),
		RunE:  runResumeCmd,
	}
}

func runResumeCmd(cmd *cobra.Command, args []string) error {
	text, err := resume.ExtractText(args[0])
	if err != nil {
		return err
	}
	info := resume.ParseContact(text)
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Name:  %s\nEmail: %s\nPhone: %s\n",
		orMissing(info.Name), orMissing(info.Email), orMissing(resume.FormatPhone(info.Phone))); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return resume.Validate(info)
}

func orMissing(v string) string {
	if v == "" {
		return "(missing)"
	}
	return v
}
