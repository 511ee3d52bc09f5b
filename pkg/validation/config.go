package validation

import (
	"fmt"

	"github.com/iwvelando/strac/pkg/strac"
)

// AnalysisValidator summarizes an analysis file for validation.
type AnalysisValidator struct {
	HasBasic      bool
	BasicUnset    int
	HasTarget     bool
	HasHistorical bool
	HasStrategy   bool
	Strategy      string
	StrategyStep  float64
}

// ValidateBasicInputs warns when more than one basic input is left blank,
// since the solved values then depend on the order they are solved in.
func ValidateBasicInputs(unset int) string {
	if unset > 1 {
		return fmt.Sprintf("Basic calculation has %d blank inputs; with more than one blank the results are order dependent", unset)
	}
	return ""
}

// ValidateStrategy checks the sweep parameters that would make the sweep fail.
func ValidateStrategy(strategy string, step float64) []string {
	var warnings []string

	if _, err := strac.ParseStrategy(strategy); err != nil {
		warnings = append(warnings, fmt.Sprintf("Strategy '%s' is not one of PP or QQ", strategy))
	}

	if step == 0 {
		warnings = append(warnings, "Strategy step is 0; the sweep will not run")
	}

	return warnings
}

// ValidateAll validates the entire analysis and returns warnings
func (av *AnalysisValidator) ValidateAll() []string {
	var warnings []string

	if !av.HasBasic && !av.HasTarget && !av.HasHistorical && !av.HasStrategy {
		warnings = append(warnings, "No analysis configured; add a basic, target, historical or strategy section")
	}

	if av.HasBasic {
		if warning := ValidateBasicInputs(av.BasicUnset); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if av.HasTarget && !av.HasBasic {
		warnings = append(warnings, "Target analysis requires a basic calculation; it will be skipped")
	}

	if av.HasStrategy {
		warnings = append(warnings, ValidateStrategy(av.Strategy, av.StrategyStep)...)
	}

	return warnings
}
