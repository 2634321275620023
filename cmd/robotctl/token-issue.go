package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/echoman/robots-in-go/pkg/server"
	"github.com/echoman/robots-in-go/pkg/server/middleware"
)

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue <subject>",
	Short: "Issue a bearer token for the control API",
	Long: `Issue an HS256 bearer token signed with ROBOTS_API_SECRET.

Example:
  robotctl token issue ops --ttl 24h
  curl -H "Authorization: Bearer $(robotctl token issue ops)" localhost:8080/robots`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ttl, _ := cmd.Flags().GetDuration("ttl")

		cfg, err := server.ConfigFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
		token, err := middleware.NewJWTAuthenticator([]byte(cfg.Secret)).Issue(args[0], ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)
	tokenIssueCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
}
