package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the send task queue",
	Long:  `Queue messages for robots and claim queued ones.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'task' requires a subcommand (add, next)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
}
