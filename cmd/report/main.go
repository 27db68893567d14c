package main

// Build a report from a saved result, a remote analysis, or a resume:
//   go run ./cmd/report -in result.json
//   go run ./cmd/report -analysis <analysisId>
//   go run ./cmd/report -resume cv.pdf -jd job.txt -out report.json

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"resume-report/internal/backend"
	"resume-report/internal/history"
	"resume-report/internal/reports"
	"resume-report/internal/shared/config"
	"resume-report/internal/shared/storage/db"
	"resume-report/internal/submission"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	inPath     string
	analysisID string
	resumePath string
	jdPath     string
	outPath    string
	save       bool
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.inPath, "in", "", "Path to a raw analysis result JSON file")
	fs.StringVar(&opts.analysisID, "analysis", "", "Remote analysis ID to fetch")
	fs.StringVar(&opts.resumePath, "resume", "", "Path to resume file (pdf, doc or docx) to analyze")
	fs.StringVar(&opts.jdPath, "jd", "", "Path to job description file (optional, with -resume)")
	fs.StringVar(&opts.outPath, "out", "", "Path to write the report JSON (optional)")
	fs.BoolVar(&opts.save, "save", false, "Save the report to history in DATABASE_URL")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	sources := 0
	for _, v := range []string{opts.inPath, opts.analysisID, opts.resumePath} {
		if strings.TrimSpace(v) != "" {
			sources++
		}
	}
	if sources != 1 {
		return options{}, errors.New("exactly one of -in, -analysis or -resume is required")
	}
	if opts.jdPath != "" && opts.resumePath == "" {
		return options{}, errors.New("-jd requires -resume")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	svc := &reports.Service{}
	if opts.save {
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer sqlDB.Close()
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		svc.History = &history.Service{Repo: &history.PGRepo{DB: sqlDB}}
	}

	var payload []byte
	source := reports.SourcePayload
	switch {
	case opts.inPath != "":
		payload, err = os.ReadFile(opts.inPath)
		if err != nil {
			return fmt.Errorf("read result: %w", err)
		}
	case opts.analysisID != "":
		client, err := backend.New(backend.OptionsFromConfig(cfg.Backend))
		if err != nil {
			return err
		}
		source = reports.SourceFetch
		payload, err = client.WaitForResult(ctx, opts.analysisID)
		if err != nil {
			return err
		}
	default:
		source = reports.SourceFetch
		payload, err = analyzeResume(ctx, cfg, opts)
		if err != nil {
			return err
		}
	}

	report, err := svc.Build(ctx, source, payload)
	if err != nil {
		return err
	}
	return writeReport(report, opts.outPath, stdout)
}

func analyzeResume(ctx context.Context, cfg config.Config, opts options) ([]byte, error) {
	validator := submission.NewValidator(cfg.Submission)
	content, err := os.ReadFile(opts.resumePath)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	fileName, err := submission.CleanFileName(filepath.Base(opts.resumePath))
	if err != nil {
		return nil, err
	}
	mimeType, err := validator.ValidateResume(fileName, content)
	if err != nil {
		return nil, err
	}

	jobDescription := ""
	if opts.jdPath != "" {
		jdBytes, err := os.ReadFile(opts.jdPath)
		if err != nil {
			return nil, fmt.Errorf("read job description: %w", err)
		}
		if jobDescription, err = validator.ValidateJobDescription(string(jdBytes)); err != nil {
			return nil, err
		}
	}

	client, err := backend.New(backend.OptionsFromConfig(cfg.Backend))
	if err != nil {
		return nil, err
	}
	_, result, err := client.Analyze(ctx, fileName, mimeType, content, jobDescription)
	return result, err
}

func writeReport(report any, outPath string, stdout io.Writer) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')

	if outPath != "" {
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	_, err = stdout.Write(buf.Bytes())
	return err
}
