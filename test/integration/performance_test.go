package integration

import (
	"os"
	"testing"
	"time"

	"github.com/iwvelando/strac/internal/analysis"
	"github.com/iwvelando/strac/internal/config"
	"github.com/iwvelando/strac/pkg/strac"
	"go.uber.org/zap"
)

// TestMain runs the package tests.
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	report, err := analysis.Run(logger, *conf, strac.NewSession())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	runTime := time.Since(start)

	if report.Basic == nil {
		t.Fatal("Expected a basic section")
	}

	t.Logf("Performance metrics:")
	t.Logf("  Config loading: %v", loadTime)
	t.Logf("  Analysis run:   %v", runTime)

	if loadTime > 2*time.Second {
		t.Errorf("Config loading took too long: %v", loadTime)
	}
	if runTime > time.Second {
		t.Errorf("Analysis took too long: %v", runTime)
	}
}

// TestSweepCapPerformance checks that a huge range is cut off at the row cap
// rather than iterated.
func TestSweepCapPerformance(t *testing.T) {
	start := time.Now()
	table, err := strac.Sweep(strac.StrategyInput{
		MQ: 100, V: 5, Strategy: strac.PriceBased, Start: 0, End: 1e12, Step: 1,
	})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(table.Rows) != strac.MaxSweepRows {
		t.Fatalf("Expected %d rows, got %d", strac.MaxSweepRows, len(table.Rows))
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("Capped sweep took too long: %v", elapsed)
	}
}

func BenchmarkRun(b *testing.B) {
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		b.Fatalf("LoadConfiguration failed: %v", err)
	}
	logger := zap.NewNop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := analysis.Run(logger, *conf, strac.NewSession()); err != nil {
			b.Fatalf("Run failed: %v", err)
		}
	}
}
