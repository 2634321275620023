package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoman/robots-in-go/pkg/tasks"
)

// keywordListCmd represents the keyword list command
var keywordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active keywords",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listKeywords(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list keywords: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	keywordCmd.AddCommand(keywordListCmd)
}

func listKeywords(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dao, err := openDao(cfg)
	if err != nil {
		return err
	}

	keywords, err := tasks.NewQueue(dao).Keywords(ctx)
	if err != nil {
		return err
	}
	for _, kw := range keywords {
		fmt.Printf("%d\t%s\n", kw.ID, kw.FansKeywords)
	}
	return nil
}
