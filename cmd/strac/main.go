package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/strac/internal/analysis"
	"github.com/iwvelando/strac/internal/config"
	"github.com/iwvelando/strac/internal/logging"
	"github.com/iwvelando/strac/pkg/constants"
	"github.com/iwvelando/strac/pkg/output"
	"github.com/iwvelando/strac/pkg/strac"
	"github.com/iwvelando/strac/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	// Process command line flags first to get config location
	flags := flag.NewFlagSet("strac", flag.ContinueOnError)
	configLocation := flags.String("config", constants.DefaultConfigFile, "path to analysis file")
	outputFormatFlag := flags.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flags.String("log-level", "", "log level override (debug, info, warn, error)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// Load the analysis file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(stdout, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return 1
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(stdout, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(),
			zap.String("op", "main"),
		)
		return 1
	}

	if conf.Empty() {
		logger.Error("analysis file configures no mode; add basic, target, historical or strategy",
			zap.String("op", "main"),
			zap.String("config", *configLocation),
		)
		return 1
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Target analysis reads the baseline stored by the basic calculation.
	results, err := analysis.Run(logger, *conf, strac.NewSession())
	if err != nil {
		logger.Error("failed to run analysis",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.WritePretty(stdout, results)
	case constants.OutputFormatCSV:
		_, _ = io.WriteString(stdout, output.CsvString(results))
	case constants.OutputFormatJSON:
		if err := output.WriteJSON(stdout, results); err != nil {
			logger.Error("failed to write JSON output",
				zap.String("op", "main"),
				zap.Error(err),
			)
			return 1
		}
	}
	return 0
}
