package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/deusflow/cryptonews/internal/app"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0969DA")).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F778BA")).Bold(true)
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA657"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E7681"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2DA44E"))
)

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what the next run would select, without committing or publishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd, app.Options{})
			if err != nil {
				return err
			}
			defer svc.Close()

			rep, err := svc.Runner.Preview(cmd.Context())
			if err != nil {
				return err
			}
			renderPreview(os.Stdout, rep)
			return nil
		},
	}
	addPathFlags(cmd)
	return cmd
}

func renderPreview(w io.Writer, rep *app.Report) {
	st := rep.Stats
	fmt.Fprintln(w, headerStyle.Render("Preview "+rep.RunID))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf(
		"fetched %d · already published %d · excluded %d · clickbait %d · below threshold %d · batch duplicates %d",
		st.Input, st.HistoryDuplicates, st.Excluded, st.Clickbait, st.BelowThreshold, st.BatchDuplicates)))

	if len(rep.Items) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No important news found"))
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", "SCORE", "SOURCE", "CATEGORIES", "TITLE")

	for i, item := range rep.Items {
		r := item.Record
		t.Row(
			strconv.Itoa(i+1),
			scoreStyle.Render(strconv.Itoa(r.Score)),
			sourceStyle.Render(r.Source),
			strings.Join(r.Categories, ","),
			r.Title,
		)
	}
	fmt.Fprintln(w, t.Render())
}
