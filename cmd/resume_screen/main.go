// Package main provides the entry point for the resume screening CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_screen",
	Short: "Resume screening CLI",
	Long: "resume_screen extracts text from uploaded PDF, DOCX and DOC files, decides whether " +
		"each one is a resume and scores accepted resumes against a target job.",
	SilenceUsage: true,
}

var (
	configPath string
	verbose    bool
	logLevel   string
	outputPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print human-readable results to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config and RESUME_SCREEN_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "out", "o", "", "Write JSON output to this file instead of stdout")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
