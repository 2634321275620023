package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoman/robots-in-go/pkg/tasks"
)

// taskNextCmd represents the task next command
var taskNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Claim the oldest pending task",
	Long: `Claim the oldest pending task and print it as JSON. Nothing is printed
when the queue is empty.

Example:
  robotctl task next`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := nextTask(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to claim task: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	taskCmd.AddCommand(taskNextCmd)
}

func nextTask(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dao, err := openDao(cfg)
	if err != nil {
		return err
	}

	task, err := tasks.NewQueue(dao).Next(ctx)
	if err != nil || task == nil {
		return err
	}

	out, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
