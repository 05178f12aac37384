package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const serviceName = "cardmap-service"

var rootCmd = &cobra.Command{
	Use:   "cardmap",
	Short: "Card-accepting merchant discovery service",
	Long: `cardmap serves location-based discovery of merchants that accept
benefit cards, plus the cached card and category reference data.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, cacheCmd, statusCmd)
}

func main() {
	_ = godotenv.Load() // Load .env file if it exists

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
