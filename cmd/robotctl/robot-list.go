package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echoman/robots-in-go/pkg/robot"
)

// robotListCmd represents the robot list command
var robotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the robots enrolled from robots.yml",
	Long: `List the robots that would be enrolled from robots.yml.

Example:
  robotctl robot list`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list robots: %v\n", err)
			os.Exit(1)
		}

		registry := newRegistry()
		if err := registry.Load(cfg.Robots); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		printRobots(cmd.OutOrStdout(), registry)
	},
}

func init() {
	robotCmd.AddCommand(robotListCmd)
}

func printRobots(w io.Writer, registry *robot.Registry) {
	fmt.Fprintf(w, "%-30s %-12s %s\n", "KEY", "VENDOR", "ROBOT")
	for _, e := range registry.Entries() {
		kind := fmt.Sprintf("%T", e.Robot)
		if _, ok := e.Robot.(robot.DefaultRobot); ok {
			kind = "default"
		}
		fmt.Fprintf(w, "%-30s %-12s %s\n", e.Key(), e.Vendor, kind)
	}

	if vendors := registry.Vendors(); len(vendors) > 0 {
		fmt.Fprintf(w, "\nVendor robots: %s\n", strings.Join(vendors, ", "))
	} else {
		fmt.Fprintln(w, "\nNo vendor robots registered, every account uses the default robot")
	}
}
