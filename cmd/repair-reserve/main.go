package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/repair-reserve/internal/config"
	"github.com/iwvelando/repair-reserve/internal/logging"
	"github.com/iwvelando/repair-reserve/internal/reserve"
	"github.com/iwvelando/repair-reserve/internal/session"
	"github.com/iwvelando/repair-reserve/pkg/constants"
	"github.com/iwvelando/repair-reserve/pkg/output"
	"github.com/iwvelando/repair-reserve/pkg/validation"
	"go.uber.org/zap"
)

// overrides are the period and mode changes requested on the command line,
// as entered. Empty values mean "not given".
type overrides struct {
	mode      string
	duration  string
	startYear string
	endYear   string
}

// edits returns the overrides as session edits in the order they must be
// applied: mode first, then the period. A year override switches to range
// entry so the reconciler derives the duration from the years.
func (o overrides) edits() []session.Edit {
	var edits []session.Edit
	if o.mode != "" {
		edits = append(edits, session.Edit{Field: session.FieldMode, Text: o.mode})
	}
	if o.duration != "" {
		edits = append(edits,
			session.Edit{Field: session.FieldPeriodInputMode, Text: string(reserve.PeriodDuration)},
			session.Edit{Field: session.FieldDurationMonths, Text: o.duration},
		)
	}
	if o.startYear != "" || o.endYear != "" {
		edits = append(edits, session.Edit{Field: session.FieldPeriodInputMode, Text: string(reserve.PeriodRange)})
	}
	if o.startYear != "" {
		edits = append(edits, session.Edit{Field: session.FieldStartYear, Text: o.startYear})
	}
	if o.endYear != "" {
		edits = append(edits, session.Edit{Field: session.FieldEndYear, Text: o.endYear})
	}
	return edits
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, xlsx")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	outPath := flag.String("out", "", "spreadsheet path for xlsx output")
	mode := flag.String("mode", "", "input mode override: rate, amount")
	duration := flag.String("duration", "", "accumulation period in months")
	startYear := flag.String("start-year", "", "first year of the accumulation period")
	endYear := flag.String("end-year", "", "last year of the accumulation period")
	advice := flag.Bool("advice", false, "ask the advisor to explain the result")
	complexName := flag.String("lookup", "", "look up the areas of the named apartment complex and use them")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	warnings, err := conf.ValidateConfiguration()
	if err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	sess := session.New(logger, conf.InitialInputs(time.Now()))
	flags := overrides{mode: *mode, duration: *duration, startYear: *startYear, endYear: *endYear}
	for _, edit := range flags.edits() {
		if err := sess.Apply(edit); err != nil {
			logger.Fatal("invalid command line override",
				zap.String("op", "main"),
				zap.String("field", string(edit.Field)),
				zap.Error(err),
			)
		}
	}

	var adviceText string
	if *advice || *complexName != "" {
		services, err := conf.BuildServices(logger)
		if err != nil {
			logger.Fatal("failed to configure services",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if *complexName != "" {
			token := sess.Begin(session.Lookup)
			answer := services.Lookup.Lookup(ctx, *complexName)
			sess.CompleteLookup(token, answer)
			if !sess.ApplyLookup() {
				logger.Warn("complex not found, keeping configured areas",
					zap.String("op", "main"),
					zap.String("name", *complexName),
				)
			}
		}

		if *advice {
			token := sess.Begin(session.Advice)
			text, _ := services.Advisor.Advise(ctx, sess.Inputs(), sess.Result())
			sess.CompleteAdvice(token, text)
			adviceText = sess.Advice()
		}
	}

	in := sess.Inputs()
	report := output.NewReport(in, validation.ValidateInputs(in))
	report.Advice = adviceText

	if err := write(os.Stdout, outputFormat, *outPath, conf.Output.File, report); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.String("format", outputFormat),
			zap.Error(err),
		)
	}
}

func write(w io.Writer, format, outPath, configuredPath string, report output.Report) error {
	switch format {
	case constants.OutputFormatCSV:
		return output.CSV(w, report)
	case constants.OutputFormatJSON:
		return output.JSON(w, report)
	case constants.OutputFormatXLSX:
		path := outPath
		if path == "" {
			path = configuredPath
		}
		if path == "" {
			path = constants.DefaultXLSXFile
		}
		if err := output.SaveXLSX(path, report); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "wrote %s\n", path)
		return err
	default:
		return output.Pretty(w, report)
	}
}
