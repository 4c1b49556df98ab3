// Command siussummary writes a per start number summary next to each SIUS
// score export it is given.
//
//	siussummary -mode sius -out summaries results/*.csv
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/config"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/dataprocessing"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/infrastructure"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/services"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/validation"
	"github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts"
	api "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/pkg/contracts/api/v1"
)

type options struct {
	delimiter    string
	outDelimiter string
	idColumn     int
	scoreColumn  int
	mode         string
	relay        string
	fieldsFile   string
	outDir       string
	concurrency  int
	logLevel     string
	version      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "siussummary:", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	fs := flag.NewFlagSet("siussummary", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.delimiter, "delimiter", "", "input delimiter (; , tab |); sniffed when empty")
	fs.StringVar(&opts.outDelimiter, "out-delimiter", "", "output delimiter; defaults to the input's")
	fs.IntVar(&opts.idColumn, "id-column", -1, "ID column index; suggested when negative")
	fs.IntVar(&opts.scoreColumn, "score-column", -1, "score column index; suggested when negative")
	fs.StringVar(&opts.mode, "mode", api.ModeBasic, "summary mode: basic | sius")
	fs.StringVar(&opts.relay, "relay", "", "only summarise rows of this relay")
	fs.StringVar(&opts.fieldsFile, "fields", "", "SIUS field list naming headerless columns")
	fs.StringVar(&opts.outDir, "out", ".", "directory summaries are written to; stdout when empty")
	fs.IntVar(&opts.concurrency, "concurrency", runtime.NumCPU(), "files processed at once")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "debug | info | warn | error")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if opts.version {
		return opts, nil, nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return nil, nil, errors.New("at least one input file, directory or pattern is required")
	}
	if opts.mode != api.ModeBasic && opts.mode != api.ModeSIUS {
		return nil, nil, fmt.Errorf("unknown mode %q", opts.mode)
	}
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}
	return opts, fs.Args(), nil
}

func (o *options) exportRequest() api.ExportRequest {
	req := api.ExportRequest{OutputDelimiter: o.outDelimiter}
	req.Delimiter = o.delimiter
	req.Mode = o.mode
	req.Relay = o.relay
	if o.idColumn >= 0 {
		id := o.idColumn
		req.IDColumn = &id
	}
	if o.scoreColumn >= 0 {
		score := o.scoreColumn
		req.ScoreColumn = &score
	}
	return req
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, inputs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	cfg.Logging.Level = opts.logLevel
	cfg.Logging.Format = "text"
	logger := infrastructure.NewLoggerWithWriter(stderr, cfg.Logging)

	validator := validation.NewFileValidator(logger)
	files, err := validator.ExpandInputs(inputs)
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		if err := validator.ValidateOutputDirectory(opts.outDir); err != nil {
			return err
		}
	}

	fieldsFile := opts.fieldsFile
	if fieldsFile == "" {
		fieldsFile = cfg.Scoring.FieldsFile
	}
	fieldNames, err := dataprocessing.LoadFieldNamesFile(fieldsFile)
	if err != nil {
		return fmt.Errorf("load field list: %w", err)
	}

	ac := dataprocessing.DefaultAnalyzerConfig()
	ac.FieldNames = fieldNames
	if cfg.Scoring.SniffLines > 0 {
		ac.SniffLines = cfg.Scoring.SniffLines
	}
	if cfg.Scoring.Precision > 0 {
		ac.Summarizer.Precision = cfg.Scoring.Precision
	}
	service := services.NewScoreService(dataprocessing.NewAnalyzer(logger, ac), nil, nil, logger)

	req := opts.exportRequest()
	out := &syncWriter{w: stdout}
	failures := make([]error, len(files))
	var targets []string
	if opts.outDir != "" {
		targets = validation.SummaryPaths(opts.outDir, files)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// One trace per file
			ctx := infrastructure.EnsureTraceID(ctx)
			var err error
			if opts.outDir == "" {
				err = summarizeToWriter(ctx, service, file, req, out)
			} else {
				target := targets[i]
				if err = summarizeFile(ctx, service, file, target, req); err == nil {
					out.println(file + " -> " + target)
				}
			}
			if err != nil {
				logger.ErrorContext(ctx, "Summary failed",
					infrastructure.FileAttr(file, fileSize(file)),
					slog.String("error", err.Error()))
				failures[i] = fmt.Errorf("%s: %w", file, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
		}
	}
	logger.Info("Summaries written",
		slog.Int("files", len(files)),
		slog.Int("failed", failed))

	return errors.Join(failures...)
}

func fileSize(path string) int {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return int(info.Size())
}

// syncWriter serialises whole writes from concurrent workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *syncWriter) println(line string) {
	_, _ = s.Write([]byte(line + "\n"))
}

// summarizeToWriter renders one summary in memory and writes it to w in a
// single call so concurrent summaries never interleave.
func summarizeToWriter(ctx context.Context, service *services.ScoreService, input string, req api.ExportRequest, w io.Writer) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var buf bytes.Buffer
	if err := service.Export(ctx, data, req, &buf); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// summarizeFile exports one input to target, removing target on failure.
func summarizeFile(ctx context.Context, service *services.ScoreService, input, target string, req api.ExportRequest) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}

	if err := service.Export(ctx, data, req, out); err != nil {
		out.Close()
		os.Remove(target)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("close summary: %w", err)
	}
	return nil
}
