// Package cmd implements the command-line interface for formharvest.
// It provides the root command and subcommands for harvesting forms
// catalogs and managing their source definitions.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joho/godotenv"
	"github.com/jonesrussell/formharvest/cmd/harvest"
	cmdsources "github.com/jonesrussell/formharvest/cmd/sources"
	"github.com/jonesrussell/formharvest/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the formharvest CLI.
	rootCmd = &cobra.Command{
		Use:   "formharvest",
		Short: "A tax forms catalog harvester",
		Long: `A tax forms catalog harvester built with Go. It walks a paginated
catalog, keeps the relevant listings, downloads their PDF artifacts, and
records what it found in a metadata CSV.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early so the config path is known before Viper reads it
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("formharvest version %s\n", "0.1.0")
		},
	})

	// Add subcommands
	rootCmd.AddCommand(harvest.Command())
	rootCmd.AddCommand(cmdsources.NewSourcesCommand())
}

// initConfig initializes Viper and applies command-line overrides.
func initConfig() error {
	if err := config.InitializeViper(cfgFile); err != nil {
		return err
	}

	if err := bindCommandLineFlags(); err != nil {
		return err
	}

	// The --debug flag wins over config file and environment. Viper was
	// already initialized, so raise the log level here as well.
	if Debug {
		viper.Set("app.debug", true)
		viper.Set("logger.level", "debug")
	}

	return nil
}

// bindCommandLineFlags binds command-line flags to Viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	return nil
}
