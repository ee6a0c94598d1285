package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "quizmaster",
	Short:         "Terminal trivia quizzes",
	Long:          "QuizMaster: multiple-choice trivia by category, with progress saved between runs.",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZ_DB env var)")
	rootCmd.PersistentFlags().String("bank", "", "Question bank file or http(s) URL (overrides QUIZ_BANK env var)")
	rootCmd.PersistentFlags().String("backend", "", "Progress backend: sqlite, redis or memory (overrides QUIZ_PROGRESS_BACKEND)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides QUIZ_LOG_LEVEL env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}
