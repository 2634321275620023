package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoman/robots-in-go/pkg/journal"
	"github.com/echoman/robots-in-go/pkg/model"
	"github.com/echoman/robots-in-go/pkg/robot"
)

// robotRunCmd represents the robot run command
var robotRunCmd = &cobra.Command{
	Use:   "run <sign|process> <vendor> <account>",
	Short: "Run one robot action now",
	Long: `Run the sign or process action of one robot immediately and journal it.

Example:
  robotctl robot run sign QQ jd`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRobot(cmd.Context(), args[0], args[1], args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to run robot: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	robotCmd.AddCommand(robotRunCmd)
}

func runRobot(ctx context.Context, action, vendor, account string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dao, err := openDao(cfg)
	if err != nil {
		return err
	}

	j := journal.New(journal.NewLogger(), journal.NewStore(dao))
	registry := newRegistry()
	if err := registry.Load(cfg.Robots); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	run, err := robot.NewDispatcher(registry, robot.WithRecorder(j)).RunOne(ctx, vendor, account, action)
	if err != nil {
		return err
	}
	if !run.Success {
		return errors.New(run.Message)
	}
	fmt.Printf("%s %s completed in %s\n", run.Action, model.RobotKey(vendor, account), run.Duration())
	return nil
}
