package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ruixin/snapsolve/internal/log"
)

var version = "0.1.0"

func init() {
	// Load .env file if it exists (silent fail if not found)
	_ = godotenv.Load()

	// Initialize logging (enabled via SNAPSOLVE_DEBUG=1)
	_ = log.Init()
}

func main() {
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snapsolve [question]",
	Short: "Snapsolve - photograph or type a problem, get a worked answer",
	Long: `Snapsolve answers math, physics, and chemistry questions from the terminal.
Type the question, or point it at a photo and let the configured model read it.

  snapsolve "integrate x^2 from 0 to 1"
  snapsolve -i homework.png
  snapsolve -s chat_3 "why that substitution?"`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		if question == "" && imageFlag == "" {
			return cmd.Help()
		}
		cmd.SilenceUsage = true
		return runAsk(cmd.Context(), question)
	},
}

var (
	configFlag  string
	imageFlag   string
	sessionFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ~/.snapsolve/config.yaml)")
	rootCmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Photo of the question to solve")
	rootCmd.Flags().StringVarP(&sessionFlag, "session", "s", "", "Continue an existing session (e.g. chat_3)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(retryCmd)
	rootCmd.AddCommand(cacheCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("snapsolve version %s\n", version)
	},
}
