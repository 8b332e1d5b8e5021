package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JuanAndresGH-hub/marketplace/internal/config"
)

var (
	apiURL   string
	dbDSN    string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Candy marketplace storefront client",
	Long: `storefront talks to the marketplace REST backend, keeps the session and
favorites in a local database and serves a filtered catalog view.

Run "storefront serve" for the local view API, or use the subcommands
directly from a terminal.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if apiURL != "" {
			config.SetOverride(apiURL)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides STOREFRONT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "local storage DSN (overrides STOREFRONT_DB)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(serveCmd, backendCmd)
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(productsCmd, searchCmd, favCmd)
	rootCmd.AddCommand(cartCmd, checkoutCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
