package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoman/robots-in-go/pkg/tasks"
)

// keywordAddCmd represents the keyword add command
var keywordAddCmd = &cobra.Command{
	Use:   "add <keyword>...",
	Short: "Add keywords that are not known yet",
	Long: `Add keywords. Keywords that already exist are skipped.

Example:
  robotctl keyword add spring summer`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := addKeywords(cmd.Context(), args); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add keywords: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	keywordCmd.AddCommand(keywordAddCmd)
}

func addKeywords(ctx context.Context, keywords []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dao, err := openDao(cfg)
	if err != nil {
		return err
	}

	queue := tasks.NewQueue(dao)
	for _, kw := range keywords {
		added, err := queue.AddKeyword(ctx, kw)
		if err != nil {
			return err
		}
		if added {
			fmt.Printf("Added %q\n", kw)
		} else {
			fmt.Printf("Skipped %q\n", kw)
		}
	}
	return nil
}
