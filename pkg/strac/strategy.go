package strac

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/strac/pkg/constants"
	"github.com/iwvelando/strac/pkg/mathutil"
)

// MaxSweepRows is the most rows a single sweep emits.
const MaxSweepRows = constants.MaxSweepRows

var (
	// ErrZeroStep is returned for a sweep whose step is zero.
	ErrZeroStep = errors.New("step cannot be 0")

	// ErrUnknownStrategy is returned for a strategy other than P or Q based.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Strategy selects the swept variable.
type Strategy string

const (
	// PriceBased sweeps P and solves Q.
	PriceBased Strategy = "PP"
	// QuantityBased sweeps Q and solves P.
	QuantityBased Strategy = "QQ"
)

// ParseStrategy accepts PP, P, p-based, QQ, Q and q-based in any case, as
// well as the full selector labels "PP (P-based)" and "QQ (Q-based)".
func ParseStrategy(s string) (Strategy, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if i := strings.IndexByte(key, ' '); i > 0 {
		key = key[:i]
	}
	switch key {
	case "PP", "P", "P-BASED":
		return PriceBased, nil
	case "QQ", "Q", "Q-BASED":
		return QuantityBased, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func (s Strategy) String() string {
	switch s {
	case PriceBased:
		return "PP (P-based)"
	case QuantityBased:
		return "QQ (Q-based)"
	}
	return string(s)
}

// StrategyInput configures an MQ strategy sweep.
type StrategyInput struct {
	MQ       float64  `json:"mq"`
	V        float64  `json:"v"`
	Strategy Strategy `json:"strategy"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	Step     float64  `json:"step"`
}

// Row is one line of a strategy table, every value rounded to one decimal.
type Row struct {
	P  float64 `json:"p"`
	V  float64 `json:"v"`
	M  float64 `json:"m"`
	Q  float64 `json:"q"`
	PQ float64 `json:"pq"`
	VQ float64 `json:"vq"`
	MQ float64 `json:"mq"`
}

// Point is one sample of the strategy curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Table is the ordered sweep output with its strategy curve.
type Table struct {
	Strategy Strategy `json:"strategy"`
	Rows     []Row    `json:"rows"`
	// XLabel and YLabel name the plotted columns: Q against P for a
	// price sweep, P against Q for a quantity sweep.
	XLabel    string  `json:"xLabel"`
	YLabel    string  `json:"yLabel"`
	Plot      []Point `json:"plot"`
	Truncated bool    `json:"truncated"`
}

// Sweep walks the swept variable from Start towards End by Step, holding MQ
// and V fixed, and emits at most MaxSweepRows rows in generation order.
func Sweep(in StrategyInput) (Table, error) {
	if in.Step == 0 {
		return Table{}, ErrZeroStep
	}

	var row func(x float64) Row
	table := Table{Strategy: in.Strategy}
	switch in.Strategy {
	case PriceBased:
		row = in.priceRow
		table.XLabel, table.YLabel = "P", "Q"
	case QuantityBased:
		row = in.quantityRow
		table.XLabel, table.YLabel = "Q", "P"
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, in.Strategy)
	}

	table.Rows = make([]Row, 0)
	for x := in.Start; in.continues(x); x += in.Step {
		if len(table.Rows) == MaxSweepRows {
			table.Truncated = true
			break
		}
		r := row(x)
		table.Rows = append(table.Rows, r)
		if in.Strategy == PriceBased {
			table.Plot = append(table.Plot, Point{X: r.P, Y: r.Q})
		} else {
			table.Plot = append(table.Plot, Point{X: r.Q, Y: r.P})
		}
	}

	return table, nil
}

func (in StrategyInput) continues(x float64) bool {
	if in.Step > 0 {
		return x <= in.End
	}
	return x >= in.End
}

func (in StrategyInput) priceRow(p float64) Row {
	m := p - in.V
	q := mathutil.Round(mathutil.SafeDiv(in.MQ, m))
	return roundRow(p, in.V, m, q)
}

func (in StrategyInput) quantityRow(q float64) Row {
	m := mathutil.Round(mathutil.SafeDiv(in.MQ, q))
	p := in.V + m
	return roundRow(p, in.V, m, q)
}

func roundRow(p, v, m, q float64) Row {
	return Row{
		P:  mathutil.Round(p),
		V:  mathutil.Round(v),
		M:  mathutil.Round(m),
		Q:  mathutil.Round(q),
		PQ: mathutil.Round(p * q),
		VQ: mathutil.Round(v * q),
		MQ: mathutil.Round(m * q),
	}
}
