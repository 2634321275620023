package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// robotCmd represents the robot command
var robotCmd = &cobra.Command{
	Use:   "robot",
	Short: "Inspect and run robots",
	Long:  `Inspect the configured robots and run their actions on demand.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'robot' requires a subcommand (list, run)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(robotCmd)
}
