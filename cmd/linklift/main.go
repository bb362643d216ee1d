// Package main provides the entry point for the LinkLift HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "linklift",
	Short: "LinkLift resume analysis API server",
	Long:  "LinkLift turns uploaded resumes into hosted portfolio profiles: it extracts structured candidate data with LLM providers, scores the resume, and serves the result for client-side portfolio rendering.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
