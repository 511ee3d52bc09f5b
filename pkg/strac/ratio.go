package strac

import (
	"encoding/json"
	"strconv"

	"github.com/iwvelando/strac/pkg/constants"
	"github.com/iwvelando/strac/pkg/mathutil"
)

// Ratio is a quotient that is undefined when its denominator is zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// Undefined is the ratio of anything over zero.
var Undefined = Ratio{}

// Quotient returns num/den, or Undefined when den is zero.
func Quotient(num, den float64) Ratio {
	if den == 0 {
		return Undefined
	}
	return Ratio{Value: num / den, Defined: true}
}

// Percent returns num/den*100, or Undefined when den is zero.
func Percent(num, den float64) Ratio {
	v, ok := mathutil.Percentage(num, den)
	return Ratio{Value: v, Defined: ok}
}

// String formats the ratio at one decimal, or as "undefined".
func (r Ratio) String() string {
	if !r.Defined {
		return constants.UndefinedLabel
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

// PercentString is String with a trailing percent sign on defined values.
func (r Ratio) PercentString() string {
	if !r.Defined {
		return constants.UndefinedLabel
	}
	return r.String() + "%"
}

// MarshalJSON emits a number, or the string "undefined".
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return json.Marshal(constants.UndefinedLabel)
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number, null or "undefined".
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch n := v.(type) {
	case float64:
		*r = Ratio{Value: n, Defined: true}
	default:
		*r = Undefined
	}
	return nil
}

// Ratios are the business ratios of a Basic Calculation result.
type Ratios struct {
	VPercent Ratio `json:"vPercent"` // V/P*100
	FM       Ratio `json:"fm"`       // F/MQ*100
	Q0       Ratio `json:"q0"`       // F/M, the break-even quantity
}

// Ratios computes V%, FM and Q0.
func (r Result) Ratios() Ratios {
	return Ratios{
		VPercent: Percent(r.V, r.P),
		FM:       Percent(r.F, r.MQ),
		Q0:       Quotient(r.F, r.M),
	}
}
