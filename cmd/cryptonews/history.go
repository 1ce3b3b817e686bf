package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deusflow/cryptonews/internal/app"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or purge the published-news history",
	}
	cmd.AddCommand(historyListCmd(), historyPurgeCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print stored history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd, app.Options{})
			if err != nil {
				return err
			}
			defer svc.Close()

			entries, err := svc.Runner.History(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%-32s  %s\n", e.PublishedDate, e.Title)
				if e.Link != "" {
					fmt.Printf("%-32s  %s\n", "", dimStyle.Render(e.Link))
				}
			}
			fmt.Printf("%d entries\n", len(entries))
			return nil
		},
	}
	addPathFlags(cmd)
	return cmd
}

func historyPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Drop expired and untitled entries and save the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd, app.Options{})
			if err != nil {
				return err
			}
			defer svc.Close()

			res, err := svc.Runner.PurgeHistory(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("kept %d, expired %d, untitled %d, unreadable date %d\n",
				len(res.Kept), res.Expired, res.Untitled, res.Malformed)
			return nil
		},
	}
	addPathFlags(cmd)
	return cmd
}
