package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoman/robots-in-go/pkg/journal"
	"github.com/echoman/robots-in-go/pkg/tasks"
)

// dbCreateTablesCmd represents the db create-tables command
var dbCreateTablesCmd = &cobra.Command{
	Use:   "create-tables",
	Short: "Create the robot tables",
	Long: `Create the keyword, send task and run tables if they do not exist.

Table names carry the configured table_prefix.

Example:
  robotctl db create-tables`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := createTables(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create tables: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Tables created")
	},
}

func init() {
	dbCmd.AddCommand(dbCreateTablesCmd)
}

func createTables(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dao, err := openDao(cfg)
	if err != nil {
		return err
	}

	if err := tasks.NewQueue(dao).CreateTables(ctx); err != nil {
		return err
	}
	return journal.NewStore(dao).CreateTable(ctx)
}
