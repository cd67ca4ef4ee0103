package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bankcap-dev/bankcap/internal/banks"
	"github.com/bankcap-dev/bankcap/internal/config"
	"github.com/bankcap-dev/bankcap/internal/extract"
	"github.com/bankcap-dev/bankcap/internal/fetch"
	"github.com/bankcap-dev/bankcap/internal/model"
	"github.com/bankcap-dev/bankcap/internal/progress"
	"github.com/bankcap-dev/bankcap/internal/rates"
	"github.com/bankcap-dev/bankcap/internal/report"
	"github.com/bankcap-dev/bankcap/internal/store"
	"github.com/bankcap-dev/bankcap/internal/transform"
)

// Milestone messages written to the progress log, in run order.
const (
	MsgExtractStart   = "Starting the extraction phase of the pipeline"
	MsgExtractDone    = "Extraction phase completed successfully"
	MsgTransformStart = "Starting the transformation phase of the pipeline"
	MsgTransformDone  = "Transformation phase completed successfully"
	MsgCSVStart       = "Saving to CSV file"
	MsgCSVDone        = "Saving to CSV done!"
	MsgDBStart        = "Saving to a database"
	MsgDBDone         = "Saving to database done!"
)

// Milestones records progress messages. *progress.Log implements it.
type Milestones interface {
	Append(msg string) error
}

// Runner executes the pipeline stages in sequence. Every stage fails fast:
// the first error is returned and nothing is retried.
type Runner struct {
	Config *config.Config
	Client *http.Client
	Log    Milestones
	Out    io.Writer
	Logger *slog.Logger
}

// New returns a Runner for cfg, whose paths must already be resolved.
// Query results are printed to out.
func New(cfg *config.Config, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		Config: cfg,
		Client: fetch.NewClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent),
		Log:    progress.New(cfg.Output.LogFile),
		Out:    out,
		Logger: logger,
	}
}

// Selector returns the configured table selector: by header names when any
// are configured, by position otherwise.
func (r *Runner) Selector() extract.Selector {
	if len(r.Config.Source.MatchHeaders) > 0 {
		return extract.ByHeaders(r.Config.Source.MatchHeaders)
	}
	return extract.ByIndex(r.Config.Source.TableIndex)
}

// Run fetches the exchange rates and then runs every stage in order.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.FetchRates(ctx); err != nil {
		return err
	}

	ranked, err := r.Extract(ctx)
	if err != nil {
		return err
	}
	records, err := r.Transform(ranked)
	if err != nil {
		return err
	}
	if err := r.LoadCSV(records); err != nil {
		return err
	}
	if err := r.LoadDB(ctx, records); err != nil {
		return err
	}
	_, err = r.RunQueries(ctx)
	return err
}

// FetchRates downloads the exchange-rate file unless downloads are disabled.
// It is not a logged milestone.
func (r *Runner) FetchRates(ctx context.Context) error {
	if !r.Config.Rates.Download {
		r.Logger.Debug("skipping exchange rate download", "file", r.Config.Rates.File)
		return nil
	}
	if err := fetch.Download(ctx, r.Client, r.Config.Rates.URL, r.Config.Rates.File); err != nil {
		return fmt.Errorf("downloading exchange rates: %w", err)
	}
	r.Logger.Info("exchange rates downloaded", "url", r.Config.Rates.URL, "file", r.Config.Rates.File)
	return nil
}

// Extract reads the market-cap table from the configured page.
func (r *Runner) Extract(ctx context.Context) ([]model.RankedBank, error) {
	var out []model.RankedBank
	err := r.stage(MsgExtractStart, MsgExtractDone, func() error {
		var err error
		out, err = extract.Extract(ctx, r.Client, r.Config.Source.URL, r.Selector())
		if err != nil {
			return fmt.Errorf("extracting %s: %w", r.Config.Source.URL, err)
		}
		r.Logger.Info("extracted", "rows", len(out), "selector", r.Selector().String())
		return nil
	})
	return out, err
}

// Transform converts the market caps using the local exchange-rate file.
func (r *Runner) Transform(ranked []model.RankedBank) ([]model.BankRecord, error) {
	var out []model.BankRecord
	err := r.stage(MsgTransformStart, MsgTransformDone, func() error {
		svc, err := rates.Load(r.Config.Rates.File)
		if err != nil {
			return err
		}
		out, err = transform.Transform(ranked, svc)
		if err != nil {
			return fmt.Errorf("transforming: %w", err)
		}
		if err := banks.Check(out); err != nil {
			return err
		}
		r.Logger.Info("transformed", "rows", len(out))
		return nil
	})
	return out, err
}

// LoadCSV writes records to the configured CSV file.
func (r *Runner) LoadCSV(records []model.BankRecord) error {
	return r.stage(MsgCSVStart, MsgCSVDone, func() error {
		if err := banks.SaveCSV(r.Config.Output.CSVFile, records); err != nil {
			return err
		}
		r.Logger.Info("saved CSV", "file", r.Config.Output.CSVFile, "rows", len(records))
		return nil
	})
}

// LoadDB replaces the configured table with records. The store is opened
// and closed within the call.
func (r *Runner) LoadDB(ctx context.Context, records []model.BankRecord) error {
	return r.stage(MsgDBStart, MsgDBDone, func() error {
		s, err := store.Open(ctx, r.Config.Output.Database)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ReplaceTable(ctx, r.Config.Output.Table, records); err != nil {
			return err
		}
		r.Logger.Info("saved table", "database", r.Config.Output.Database, "table", r.Config.Output.Table, "rows", len(records))
		return nil
	})
}

// RunQueries prints the report queries against the configured table.
func (r *Runner) RunQueries(ctx context.Context) ([]report.Block, error) {
	s, err := store.Open(ctx, r.Config.Output.Database)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return report.Run(ctx, s, r.Config.Output.Table, r.Out, r.Log)
}

func (r *Runner) stage(start, done string, fn func() error) error {
	if err := r.Log.Append(start); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return r.Log.Append(done)
}
