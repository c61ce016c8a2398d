package main

//	@title			postreview API
//	@version		0.1.0
//	@description	Social media post review: tone classification, platform limits, and generated suggestions and rewrites.
//	@BasePath		/api/v1

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/HerbHall/postreview/api/swagger"
	"github.com/HerbHall/postreview/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "postreview: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration problems and 1 for everything else.
func exitCode(err error) int {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "postreview",
		Short:         "Review social media posts before publishing",
		Long:          "postreview classifies the tone of a post, checks it against platform limits, and asks a language model for suggestions and a revised post.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(reviewCmd(&configPath))
	rootCmd.AddCommand(configCmd(&configPath))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// loadConfig reads and validates the configuration at path, or the
// discovered file when path is empty.
func loadConfig(path string) (*config.Config, error) {
	v, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return config.Load(v)
}
