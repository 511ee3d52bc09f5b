// Package analysis runs the STRAC modes configured in an analysis file and
// collects their results into a single report.
package analysis

import (
	"errors"

	"github.com/iwvelando/strac/internal/config"
	"github.com/iwvelando/strac/pkg/strac"
	"go.uber.org/zap"
)

// Report holds the results of every mode that was run.
type Report struct {
	Basic      *BasicReport      `json:"basic,omitempty"`
	Target     *TargetReport     `json:"target,omitempty"`
	Historical *HistoricalReport `json:"historical,omitempty"`
	Strategy   *StrategyReport   `json:"strategy,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// BasicReport is a Basic Calculation with its ratios.
type BasicReport struct {
	Input  strac.Input  `json:"input"`
	Result strac.Result `json:"result"`
	Ratios strac.Ratios `json:"ratios"`
}

// TargetReport is a target analysis, or the reason it could not run.
type TargetReport struct {
	Result *strac.TargetResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// HistoricalReport carries both the raw and the displayed K metrics.
type HistoricalReport struct {
	Base    strac.State            `json:"base"`
	New     strac.State            `json:"new"`
	Raw     strac.HistoricalResult `json:"raw"`
	Display strac.HistoricalResult `json:"display"`
}

// StrategyReport is a strategy sweep, or the reason it produced no rows.
type StrategyReport struct {
	Input strac.StrategyInput `json:"input"`
	Table *strac.Table        `json:"table,omitempty"`
	Error string              `json:"error,omitempty"`
}

// NewBasicReport runs a Basic Calculation.
func NewBasicReport(in strac.Input) *BasicReport {
	result := strac.Calculate(in)
	return &BasicReport{Input: in, Result: result, Ratios: result.Ratios()}
}

// NewTargetReport runs target analysis against the session baseline. A
// missing baseline is reported, not returned.
func NewTargetReport(session *strac.Session, target strac.Input) (*TargetReport, error) {
	result, err := session.Target(target)
	if errors.Is(err, strac.ErrNoBaseline) {
		return &TargetReport{Error: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	return &TargetReport{Result: &result}, nil
}

// NewHistoricalReport compares two periods.
func NewHistoricalReport(base, next strac.State) *HistoricalReport {
	raw := strac.Historical(base, next)
	return &HistoricalReport{Base: base, New: next, Raw: raw, Display: raw.Display()}
}

// NewStrategyReport runs a sweep. A zero step is reported, not returned.
func NewStrategyReport(in strac.StrategyInput) (*StrategyReport, error) {
	table, err := strac.Sweep(in)
	if errors.Is(err, strac.ErrZeroStep) {
		return &StrategyReport{Input: in, Error: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	return &StrategyReport{Input: in, Table: &table}, nil
}

// Run processes every mode present in conf, in the order basic, target,
// historical, strategy. The basic result is stored in session so target
// analysis can read it; a nil session starts empty.
func Run(logger *zap.Logger, conf config.Configuration, session *strac.Session) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if session == nil {
		session = strac.NewSession()
	}

	report := &Report{Warnings: conf.ValidateConfiguration()}

	if conf.Basic != nil {
		report.Basic = NewBasicReport(conf.Basic.Input())
		session.Store(report.Basic.Result)
		logger.Debug("basic calculation complete",
			zap.String("op", "analysis.Run"),
			zap.Int("unset", report.Basic.Input.UnsetCount()),
			zap.Float64("mq", report.Basic.Result.MQ),
		)
	}

	if conf.Target != nil {
		target, err := NewTargetReport(session, conf.Target.Input())
		if err != nil {
			return report, err
		}
		if target.Error != "" {
			logger.Warn("target analysis skipped",
				zap.String("op", "analysis.Run"),
				zap.String("reason", target.Error),
			)
		}
		report.Target = target
	}

	if conf.Historical != nil {
		report.Historical = NewHistoricalReport(conf.Historical.Base.State(), conf.Historical.New.State())
		logger.Debug("historical comparison complete",
			zap.String("op", "analysis.Run"),
			zap.Float64("gk", report.Historical.Raw.GK),
		)
	}

	if conf.Strategy != nil {
		in, err := conf.Strategy.StrategyInput()
		if err != nil {
			return report, err
		}
		strategy, err := NewStrategyReport(in)
		if err != nil {
			return report, err
		}
		if strategy.Error != "" {
			logger.Warn("strategy sweep produced no rows",
				zap.String("op", "analysis.Run"),
				zap.String("reason", strategy.Error),
			)
		} else {
			logger.Debug("strategy sweep complete",
				zap.String("op", "analysis.Run"),
				zap.String("strategy", string(in.Strategy)),
				zap.Int("rows", len(strategy.Table.Rows)),
				zap.Bool("truncated", strategy.Table.Truncated),
			)
		}
		report.Strategy = strategy
	}

	return report, nil
}
