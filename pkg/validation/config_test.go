package validation

import (
	"strings"
	"testing"
)

func TestValidateBasicInputs(t *testing.T) {
	tests := []struct {
		name        string
		unset       int
		wantWarning bool
	}{
		{"All inputs given", 0, false},
		{"One blank input", 1, false},
		{"Two blank inputs", 2, true},
		{"All blank", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateBasicInputs(tt.unset)
			if tt.wantWarning && warning == "" {
				t.Errorf("ValidateBasicInputs(%d) expected a warning", tt.unset)
			}
			if !tt.wantWarning && warning != "" {
				t.Errorf("ValidateBasicInputs(%d) unexpected warning %q", tt.unset, warning)
			}
		})
	}
}

func TestValidateStrategy(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		step     float64
		warnings int
	}{
		{"Price based", "PP", 1, 0},
		{"Quantity based label", "QQ (Q-based)", 0.5, 0},
		{"Lowercase", "q", -1, 0},
		{"Zero step", "PP", 0, 1},
		{"Unknown strategy", "MQ", 1, 1},
		{"Unknown strategy and zero step", "", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateStrategy(tt.strategy, tt.step)
			if len(warnings) != tt.warnings {
				t.Errorf("ValidateStrategy(%q, %v) = %v, expected %d warnings", tt.strategy, tt.step, warnings, tt.warnings)
			}
		})
	}
}

func TestAnalysisValidator_ValidateAll(t *testing.T) {
	tests := []struct {
		name      string
		validator AnalysisValidator
		contains  []string
	}{
		{
			name:      "Empty analysis",
			validator: AnalysisValidator{},
			contains:  []string{"No analysis configured"},
		},
		{
			name:      "Target without basic",
			validator: AnalysisValidator{HasTarget: true},
			contains:  []string{"requires a basic calculation"},
		},
		{
			name:      "Order dependent basic",
			validator: AnalysisValidator{HasBasic: true, BasicUnset: 3},
			contains:  []string{"3 blank inputs"},
		},
		{
			name:      "Zero step sweep",
			validator: AnalysisValidator{HasStrategy: true, Strategy: "PP"},
			contains:  []string{"step is 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.validator.ValidateAll()
			joined := strings.Join(warnings, "\n")
			for _, want := range tt.contains {
				if !strings.Contains(joined, want) {
					t.Errorf("ValidateAll() = %v, expected a warning containing %q", warnings, want)
				}
			}
		})
	}
}

func TestAnalysisValidator_Clean(t *testing.T) {
	validator := AnalysisValidator{
		HasBasic:      true,
		BasicUnset:    1,
		HasTarget:     true,
		HasHistorical: true,
		HasStrategy:   true,
		Strategy:      "PP",
		StrategyStep:  1,
	}
	if warnings := validator.ValidateAll(); len(warnings) != 0 {
		t.Errorf("ValidateAll() = %v, expected no warnings", warnings)
	}
}
