// Package analysis runs the bidding A/B test end to end: load both cohort
// sheets, describe them, merge them, check the test assumptions and run
// the configured significance test.
package analysis

import (
	"context"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/abtest-cli/internal/config"
	"github.com/sells-group/abtest-cli/internal/dataset"
	"github.com/sells-group/abtest-cli/internal/hypothesis"
	"github.com/sells-group/abtest-cli/internal/model"
	"github.com/sells-group/abtest-cli/internal/summary"
)

// Options configures one run.
type Options struct {
	Source   dataset.Source
	Metric   string
	Alpha    float64
	Method   hypothesis.Method
	Center   hypothesis.Center
	HeadRows int
}

// OptionsFromConfig validates cfg and resolves its named settings.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	method, err := hypothesis.ParseMethod(cfg.Analysis.Test)
	if err != nil {
		return Options{}, eris.Wrap(err, "analysis: options")
	}
	center, err := hypothesis.ParseCenter(cfg.Analysis.LeveneCenter)
	if err != nil {
		return Options{}, eris.Wrap(err, "analysis: options")
	}
	if !model.IsMetricColumn(cfg.Analysis.Metric) {
		return Options{}, eris.Wrapf(dataset.ErrUnknownColumn, "analysis: metric %q (want one of %v)", cfg.Analysis.Metric, model.MetricColumns)
	}
	return Options{
		Source: dataset.Source{
			Path:         cfg.Dataset.Path,
			ControlSheet: cfg.Dataset.ControlSheet,
			TestSheet:    cfg.Dataset.TestSheet,
		},
		Metric:   cfg.Analysis.Metric,
		Alpha:    cfg.Analysis.Alpha,
		Method:   method,
		Center:   center,
		HeadRows: cfg.Analysis.HeadRows,
	}, nil
}

// Analyzer executes the A/B test for one workbook.
type Analyzer struct {
	opts  Options
	now   func() time.Time
	newID func() string
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	return &Analyzer{
		opts:  opts,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Describe loads both sheets, summarizes them and merges them. It stops
// before any hypothesis test.
func (a *Analyzer) Describe(ctx context.Context) (*model.AnalysisResult, error) {
	result, _, err := a.prepare(ctx, a.logger())
	return result, err
}

// Run executes the full analysis and returns everything the report prints.
// The first error aborts the run.
func (a *Analyzer) Run(ctx context.Context) (*model.AnalysisResult, error) {
	log := a.logger()
	result, merged, err := a.prepare(ctx, log)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("run_id", result.RunID))

	var samples map[model.Group][]float64
	err = stage(ctx, log, "group means", func() error {
		clean, dropped, err := dataset.DropMissing(merged, a.opts.Metric)
		if err != nil {
			return err
		}
		if dropped > 0 {
			result.Warnings = append(result.Warnings, warnDropped(dropped, a.opts.Metric))
		}
		if result.GroupMeans, err = dataset.GroupMeans(clean, a.opts.Metric); err != nil {
			return err
		}
		samples = make(map[model.Group][]float64, len(model.Groups))
		for _, g := range model.Groups {
			if samples[g], err = dataset.GroupValues(clean, g, a.opts.Metric); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage(ctx, log, "normality", func() error {
		for _, g := range model.Groups {
			res, err := hypothesis.ShapiroWilk(samples[g])
			if err != nil {
				return eris.Wrapf(err, "analysis: normality of %s group", g)
			}
			result.Normality = append(result.Normality, model.NormalityCheck{Group: g, Result: res})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage(ctx, log, "variance", func() error {
		res, err := hypothesis.Levene(a.opts.Center, samples[model.GroupControl], samples[model.GroupTest])
		if err != nil {
			return eris.Wrap(err, "analysis: variance homogeneity")
		}
		result.Variance = &res
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage(ctx, log, "significance", func() error {
		res, err := hypothesis.Compare(a.opts.Method, samples[model.GroupControl], samples[model.GroupTest])
		if err != nil {
			return eris.Wrap(err, "analysis: significance")
		}
		result.Significance = &res
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, w := range assumptionWarnings(a.opts.Method, result, a.opts.Alpha) {
		log.Warn("analysis: "+w, zap.String("test", string(a.opts.Method)))
		result.Warnings = append(result.Warnings, w)
	}

	log.Info("analysis: complete",
		zap.String("test", result.Significance.Test),
		zap.Float64("statistic", result.Significance.Statistic),
		zap.Float64("p_value", result.Significance.PValue),
	)
	return result, nil
}

// prepare runs the load, describe and merge stages shared by Run and
// Describe.
func (a *Analyzer) prepare(ctx context.Context, log *zap.Logger) (*model.AnalysisResult, dataframe.DataFrame, error) {
	result := &model.AnalysisResult{
		RunID:     a.newID(),
		Source:    a.opts.Source.Path,
		Metric:    a.opts.Metric,
		Alpha:     a.opts.Alpha,
		StartedAt: a.now().UTC(),
	}
	log = log.With(zap.String("run_id", result.RunID))
	log.Info("analysis: starting")

	var tables *dataset.Tables
	err := stage(ctx, log, "load", func() error {
		var err error
		tables, err = dataset.Load(a.opts.Source)
		return err
	})
	if err != nil {
		return nil, dataframe.DataFrame{}, err
	}

	err = stage(ctx, log, "describe", func() error {
		for _, g := range model.Groups {
			s, err := summary.Describe(string(g), tables.Get(g), summary.Options{HeadRows: a.opts.HeadRows})
			if err != nil {
				return err
			}
			result.Summaries = append(result.Summaries, s)
		}
		return nil
	})
	if err != nil {
		return nil, dataframe.DataFrame{}, err
	}

	var merged dataframe.DataFrame
	err = stage(ctx, log, "merge", func() error {
		var err error
		if merged, err = dataset.Combine(tables); err != nil {
			return err
		}
		if _, err = dataset.GroupCounts(merged); err != nil {
			return err
		}
		result.MergedRows = merged.Nrow()
		return nil
	})
	if err != nil {
		return nil, dataframe.DataFrame{}, err
	}
	return result, merged, nil
}

func (a *Analyzer) logger() *zap.Logger {
	return zap.L().With(
		zap.String("file", a.opts.Source.Path),
		zap.String("metric", a.opts.Metric),
	)
}

// stage runs fn unless ctx is done, logging its outcome and duration.
func stage(ctx context.Context, log *zap.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrapf(err, "analysis: %s", name)
	}

	start := time.Now()
	err := fn()
	duration := time.Since(start).Milliseconds()

	if err != nil {
		log.Error("analysis: stage failed",
			zap.String("stage", name),
			zap.Int64("duration_ms", duration),
			zap.Error(err),
		)
		return err
	}
	log.Debug("analysis: stage complete",
		zap.String("stage", name),
		zap.Int64("duration_ms", duration),
	)
	return nil
}
