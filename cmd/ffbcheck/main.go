//go:build !ios && !android && (amd64 || arm64)

// Command ffbcheck loads a built libffboundary through the C ABI and runs the
// conformance scenarios against it.
//
// Usage: ffbcheck [-config file.toml] [-lib path] [-v]
//
// Exit status is 0 when every bound scenario passes, 1 when any fails and 2
// when the library or configuration cannot be loaded.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/obinnaokechukwu/ffboundary/conformance"
	"github.com/obinnaokechukwu/ffboundary/internal/bindings"
	"github.com/obinnaokechukwu/ffboundary/internal/config"
	"github.com/obinnaokechukwu/ffboundary/internal/platform"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ffbcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML config file (default $"+config.EnvConfig+")")
	libPath := fs.String("lib", "", "path to libffboundary (default: search)")
	verbose := fs.Bool("v", false, "log every scenario")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "ffbcheck: %v\n", err)
		return 2
	}
	if *libPath != "" {
		cfg.Library.Path = *libPath
	}
	if *verbose {
		cfg.Log.Level = zapcore.DebugLevel
	}

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(stderr, "ffbcheck: build logger: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	lib, err := bindings.Open(cfg.Library.Path, cfg.Library.SearchDirs)
	if err != nil {
		logger.Error("cannot load library", zap.Error(err))
		return 2
	}
	defer lib.Close()

	logger.Info("library loaded",
		zap.String("path", lib.Path),
		zap.String("platform", platform.GOOS()+"/"+platform.GOARCH()),
		zap.Bool("struct_by_value", platform.SupportsStructByValue),
		zap.Strings("unbound", lib.Unbound))

	results := conformance.Run(lib.Table, logger)
	report(stdout, results)
	if len(conformance.Failed(results)) > 0 {
		return 1
	}
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.Load(path)
}

func report(w io.Writer, results []conformance.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var passed, failed, skipped int
	for _, r := range results {
		status := "PASS"
		detail := ""
		switch {
		case r.Skipped:
			status = "SKIP"
			skipped++
		case r.Err != nil:
			status = "FAIL"
			failed++
		default:
			passed++
		}
		if r.Err != nil {
			detail = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", status, r.Name, detail)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d passed, %d failed, %d skipped\n", passed, failed, skipped)
}
