// image-vault-mcp is an MCP server that keeps decoded images in a
// memory-bounded cache and transforms them in place by handle.
//
// It speaks JSON-RPC 2.0 on stdin and stdout; logs go to stderr.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ironsheep/image-vault-mcp/internal/config"
	"github.com/ironsheep/image-vault-mcp/internal/server"
	"github.com/ironsheep/image-vault-mcp/internal/vault"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath  string
		maxMemoryMB int
		workers     int
		logLevel    string
		showVersion bool
		showHelp    bool
	)

	flagSet := pflag.NewFlagSet("image-vault-mcp", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file (default: $"+config.EnvConfigPath+")")
	flagSet.IntVar(&maxMemoryMB, "max-memory-mb", 0, "cache memory budget in MiB (overrides config)")
	flagSet.IntVar(&workers, "workers", 0, "pixel worker goroutines, 0 for one per CPU (overrides config)")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	flagSet.BoolVarP(&showVersion, "version", "v", false, "print version information")
	flagSet.BoolVarP(&showHelp, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if showHelp {
		printHelp(flagSet)
		return nil
	}
	if showVersion {
		fmt.Printf("image-vault-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("max-memory-mb") {
		cfg.Cache.MaxMemoryMB = maxMemoryMB
	}
	if flagSet.Changed("workers") {
		cfg.Cache.Workers = workers
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	// stdout carries the protocol.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	v := vault.New(
		vault.WithBudget(cfg.BudgetBytes()),
		vault.WithWorkers(cfg.Cache.Workers),
		vault.WithJPEGQuality(cfg.Encoding.JPEGQuality),
		vault.WithLogger(logger),
	)
	defer v.Close()

	logger.Info("image vault MCP server starting",
		"version", Version,
		"commit", GitCommit,
		"budget_bytes", v.Budget(),
		"workers", cfg.Cache.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(v, server.WithLogger(logger), server.WithVersion(Version))
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("image vault MCP server stopped")
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Println("image-vault-mcp - MCP server for handle-based image processing")
	fmt.Println()
	fmt.Println("Usage: image-vault-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Print(flagSet.FlagUsages())
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  " + config.EnvConfigPath + "         Config file path")
	fmt.Println("  " + config.EnvMaxMemoryMB + "  Cache memory budget in MiB")
	fmt.Println("  " + config.EnvWorkers + "        Pixel worker goroutines")
	fmt.Println("  " + config.EnvLogLevel + "      Log level")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client.")
}
