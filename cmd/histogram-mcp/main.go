package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/histogram-tools-mcp/internal/display"
	"github.com/ironsheep/histogram-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("histogram-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("histogram-tools-mcp - MCP server for histogram equalization and plotting")
			fmt.Println()
			fmt.Println("Usage: histogram-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  HISTOGRAM_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  HISTOGRAM_MCP_CONFIG=<path>      TOML file with figure size, title and axis labels")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	logger := initLogger(os.Getenv("HISTOGRAM_MCP_LOG_LEVEL") == "debug")
	logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"commit":     GitCommit,
	}).Debug("Starting histogram MCP server")

	opts := display.Defaults()
	if path := os.Getenv("HISTOGRAM_MCP_CONFIG"); path != "" {
		loaded, err := display.Load(path)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load display config")
		}
		opts = loaded
		logger.WithField("path", path).Info("Loaded display config")
	}

	server.Version = Version
	srv := server.New(server.Config{Display: opts, Logger: logger})
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}

// initLogger logs to stderr; stdout carries the MCP protocol.
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
