// Command tripintel-mcp serves the destination intel tools over MCP stdio.
//
// With -call, the named tool is invoked once with -args and the result
// is printed to stdout. With -tools, the tool descriptions are printed
// in the configured output format.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/callbacks"
	"github.com/effective-security/tripintel/config"
	"github.com/effective-security/tripintel/geocode"
	"github.com/effective-security/tripintel/pkg/upstream"
	"github.com/effective-security/tripintel/safety"
	"github.com/effective-security/tripintel/tools"
	"github.com/effective-security/tripintel/tools/safetytool"
	"github.com/effective-security/tripintel/tools/weathertool"
	"github.com/effective-security/tripintel/weather"
	"github.com/effective-security/xlog"
	"github.com/joho/godotenv"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tripintel", "tripintel-mcp")

func main() {
	cfgFile := flag.String("config", os.Getenv("TRIPINTEL_CONFIG"), "path to the configuration file")
	call := flag.String("call", "", "name of the tool to call once instead of serving")
	args := flag.String("args", "{}", "JSON arguments for -call")
	verbose := flag.Bool("verbose", false, "print the tool call transcript to stderr")
	list := flag.Bool("tools", false, "print the tool descriptions and exit")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	// stdout carries the MCP protocol
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))

	if err := run(*cfgFile, *call, *args, *verbose, *list); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}
}

func run(cfgFile, call, args string, verbose, list bool) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return errors.WithMessage(err, "failed to load config")
	}
	level, _ := cfg.Level()
	xlog.SetGlobalLogLevel(level)

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	if list {
		return describe(os.Stdout, cfg, registry)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if call != "" {
		return callOnce(ctx, registry, os.Stdout, os.Stderr, &tools.ToolCall{Name: call, Arguments: args}, verbose)
	}
	return serve(ctx, registry)
}

// newRegistry returns the registry with the tools configured by cfg
func newRegistry(cfg *config.Config) (*tools.Registry, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	geocodingTimeout, err := cfg.Geocoding.RequestTimeout()
	if err != nil {
		return nil, err
	}
	forecastTimeout, err := cfg.Forecast.RequestTimeout()
	if err != nil {
		return nil, err
	}
	newsTimeout, err := cfg.News.RequestTimeout()
	if err != nil {
		return nil, err
	}

	resolver := geocode.NewClient(cfg.Geocoding.BaseURL, upstream.WithTimeout(geocodingTimeout))

	wt, err := weathertool.New(
		weather.NewFetcher(resolver, cfg.Forecast.BaseURL, upstream.WithTimeout(forecastTimeout)),
		mode)
	if err != nil {
		return nil, err
	}
	st, err := safetytool.New(
		safety.NewFetcher(cfg.News.BaseURL, upstream.WithTimeout(newsTimeout)),
		mode)
	if err != nil {
		return nil, err
	}

	registry, err := tools.NewRegistry(wt, st)
	if err != nil {
		return nil, err
	}
	registry.WithCallback(callbacks.NewPackageLogger(logger))
	return registry, nil
}

// describe writes the tool descriptions in the configured output mode
func describe(out io.Writer, cfg *config.Config, registry *tools.Registry) error {
	mode, err := cfg.Mode()
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, tools.GetDescriptions(mode, registry.Tools()...))
	return errors.WithStack(err)
}

// callOnce runs a single tool call and writes the output to out.
// A failed call is reported with its error kind and returns an error.
func callOnce(ctx context.Context, registry *tools.Registry, out, diag io.Writer, call *tools.ToolCall, verbose bool) error {
	scratchpad := callbacks.NewScratchpad(callbacks.ModeVerbose)
	registry.WithCallback(callbacks.NewFanout(
		callbacks.NewPackageLogger(logger),
		callbacks.NewPrinter(diag, callbacks.ModeDefault),
		scratchpad,
	))

	scratchpad.StartRun()
	res := registry.CallAll(ctx, []*tools.ToolCall{call})[0]
	_, transcript := scratchpad.EndRun()
	if verbose {
		_, _ = diag.Write(transcript)
	}

	fmt.Fprintln(out, res.Output)
	if res.Err != nil {
		return errors.Wrapf(res.Err, "tool call %s failed with %s", res.ID, res.ErrorKind)
	}
	return nil
}

func serve(ctx context.Context, registry *tools.Registry) error {
	server := mcp.NewServer(stdio.NewStdioServerTransport())
	if err := registry.RegisterMCP(server); err != nil {
		return err
	}

	logger.KV(xlog.INFO, "status", "serving", "transport", "stdio", "tools", registry.Names())
	if err := server.Serve(); err != nil {
		return errors.Wrap(err, "failed to serve MCP")
	}

	<-ctx.Done()
	logger.KV(xlog.INFO, "status", "stopped")
	return nil
}
