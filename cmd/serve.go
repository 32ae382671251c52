package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dice-sim/dice-sim/api"
)

var (
	serveAddr          string // Listen address
	serveMaxIterations int    // Per-request iteration cap
	serveLogLevel      string // Log verbosity level
)

// serveCmd hosts the JSON API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(serveLogLevel)

		config := api.DefaultConfig()
		config.Addr = serveAddr
		config.MaxIterations = serveMaxIterations
		if config.MaxIterations <= 0 {
			logrus.Fatalf("--max-iterations must be positive, got %d", serveMaxIterations)
		}
		config.DefaultIterations = min(config.DefaultIterations, config.MaxIterations)

		if err := api.NewServer(config, logrus.StandardLogger()).Start(); err != nil {
			logrus.Fatalf("Server stopped: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().IntVar(&serveMaxIterations, "max-iterations", api.DefaultConfig().MaxIterations, "Largest iteration count a request may ask for")
	serveCmd.Flags().StringVar(&serveLogLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(serveCmd)
}
