package analysis

import (
	"testing"

	"github.com/iwvelando/strac/internal/config"
	"github.com/iwvelando/strac/pkg/strac"
	"go.uber.org/zap"
)

func TestRunTestConfig(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	conf, err := config.LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	session := strac.NewSession()
	report, err := Run(logger, *conf, session)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Basic == nil {
		t.Fatal("expected basic report")
	}
	if report.Basic.Result.Q != 5 || report.Basic.Result.MQ != 20 {
		t.Errorf("basic result = %+v, expected Q=5 MQ=20", report.Basic.Result)
	}
	if !session.Ready() || session.Baseline().Q != 5 {
		t.Errorf("session should hold the basic result, got %+v", session.Baseline())
	}

	if report.Target == nil || report.Target.Result == nil {
		t.Fatalf("expected target result, got %+v", report.Target)
	}
	if report.Target.Result.Delta.P != 5 || report.Target.Result.Percent.P.Value != 50 {
		t.Errorf("target delta = %+v", report.Target.Result)
	}

	if report.Historical == nil {
		t.Fatal("expected historical report")
	}
	if report.Historical.Raw.VK != 7.5 || report.Historical.Display.VK != -7.5 {
		t.Errorf("VK raw %v display %v, expected 7.5 and -7.5", report.Historical.Raw.VK, report.Historical.Display.VK)
	}

	if report.Strategy == nil || report.Strategy.Table == nil {
		t.Fatalf("expected strategy table, got %+v", report.Strategy)
	}
	if len(report.Strategy.Table.Rows) != 5 {
		t.Errorf("expected 5 strategy rows, got %d", len(report.Strategy.Table.Rows))
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", report.Warnings)
	}
}

func TestRunTargetWithoutBasic(t *testing.T) {
	p := 15.0
	conf := config.Configuration{Target: &config.Values{P: &p}}

	report, err := Run(zap.NewNop(), conf, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Target == nil || report.Target.Result != nil {
		t.Fatalf("expected target to be skipped, got %+v", report.Target)
	}
	if report.Target.Error != strac.ErrNoBaseline.Error() {
		t.Errorf("target error = %q", report.Target.Error)
	}
	if len(report.Warnings) == 0 {
		t.Error("expected a configuration warning")
	}
}

func TestRunTargetUsesExistingSession(t *testing.T) {
	session := strac.NewSession()
	session.Store(strac.NewResult(strac.State{P: 10, V: 6, Q: 5, F: 10, G: 10}))

	q := 10.0
	report, err := Run(nil, config.Configuration{Target: &config.Values{Q: &q}}, session)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Target.Result == nil || report.Target.Result.Percent.Q.Value != 100 {
		t.Errorf("expected DQ%% of 100 against the stored baseline, got %+v", report.Target)
	}
}

func TestRunZeroStep(t *testing.T) {
	zero := 0.0
	conf := config.Configuration{Strategy: &config.StrategyConfig{MQ: 10, Strategy: "PP", Step: &zero}}

	report, err := Run(zap.NewNop(), conf, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Strategy.Table != nil {
		t.Errorf("zero step should produce no table, got %+v", report.Strategy.Table)
	}
	if report.Strategy.Error != strac.ErrZeroStep.Error() {
		t.Errorf("strategy error = %q", report.Strategy.Error)
	}
}

func TestRunUnknownStrategy(t *testing.T) {
	conf := config.Configuration{Strategy: &config.StrategyConfig{MQ: 10, Strategy: "ZZ"}}
	if _, err := Run(zap.NewNop(), conf, nil); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}
