package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoman/robots-in-go/pkg/tasks"
)

// taskAddCmd represents the task add command
var taskAddCmd = &cobra.Command{
	Use:   "add <keyword> <content>",
	Short: "Queue a message for the fans of a keyword",
	Long: `Queue a message for the fans found by a keyword.

Example:
  robotctl task add spring "Happy spring!"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := addTask(cmd.Context(), args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add task: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	taskCmd.AddCommand(taskAddCmd)
}

func addTask(ctx context.Context, keyword, content string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dao, err := openDao(cfg)
	if err != nil {
		return err
	}

	n, err := tasks.NewQueue(dao).Enqueue(ctx, keyword, content)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("task was not saved, see the log for details")
	}
	fmt.Println("Task queued")
	return nil
}
