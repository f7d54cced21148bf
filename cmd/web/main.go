package main

import (
	"fmt"
	"net"
	"os"
	"os/user"

	"github.com/de-tools/capacity-atlas/pkg/server"
	"github.com/de-tools/capacity-atlas/pkg/services/config"
	"github.com/de-tools/capacity-atlas/pkg/services/tenant"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Capacity Atlas",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultPath := fmt.Sprintf("%s/.capacity-atlas.ini", usr.HomeDir)

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", defaultPath,
		"Path to the tenants config file (default is $HOME/.capacity-atlas.ini)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	registry, err := config.NewRegistry(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to create config registry: %w", err)
	}

	explorer := tenant.NewExplorer(registry)

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	logger.Info().Msgf("Found the following tenants:")
	profiles, _ := explorer.ListTenants(ctx)
	for _, profile := range profiles {
		logger.Info().Msgf("Name: `%s`, Source: `%s`", profile.Name, profile.Source)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Tenants: explorer,
			Logger:  logger,
		},
	})

	return api.Start()
}
