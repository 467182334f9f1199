package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "bankrecon-cli",
		Short:         "Bankrecon CLI tool",
		Long:          `A command line interface for importing bank statements through the Bankrecon API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Bankrecon API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	client := func() *apiClient { return newAPIClient(baseURL, timeout) }

	rootCmd.AddCommand(
		importCmd(client),
		associationsCmd(client),
		ledgerCmd(client),
	)

	return rootCmd
}
