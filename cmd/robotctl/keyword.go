package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// keywordCmd represents the keyword command
var keywordCmd = &cobra.Command{
	Use:   "keyword",
	Short: "Manage fan search keywords",
	Long:  `Manage the keywords robots search fans by.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'keyword' requires a subcommand (add, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(keywordCmd)
}
