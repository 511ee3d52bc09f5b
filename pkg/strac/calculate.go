package strac

import "github.com/iwvelando/strac/pkg/mathutil"

// Result is a solved State plus its derived products.
type Result struct {
	State
	M  float64 `json:"m"`
	PQ float64 `json:"pq"`
	VQ float64 `json:"vq"`
	MQ float64 `json:"mq"`
}

// Calculate solves every unset input from the others and derives M, PQ, VQ
// and MQ. Fields are solved in the fixed order P, V, Q, F, G; a division by
// zero while solving yields 0. When several inputs are unset, an operand that
// has not been solved yet reads as 0, so the result depends on that order.
func Calculate(in Input) Result {
	p, v, q, f, g := in.P.Or(0), in.V.Or(0), in.Q.Or(0), in.F.Or(0), in.G.Or(0)

	if !in.P.Set {
		p = mathutil.SafeDiv(v*q+f+g, q)
	}
	if !in.V.Set {
		v = mathutil.SafeDiv(p*q-f-g, q)
	}
	if !in.Q.Set {
		q = mathutil.SafeDiv(f+g, p-v)
	}
	if !in.F.Set {
		f = p*q - v*q - g
	}
	if !in.G.Set {
		g = p*q - v*q - f
	}

	return NewResult(State{P: p, V: v, Q: q, F: f, G: g})
}

// NewResult derives the products of an already determined state.
func NewResult(s State) Result {
	return Result{
		State: s,
		M:     s.M(),
		PQ:    s.PQ(),
		VQ:    s.VQ(),
		MQ:    s.MQ(),
	}
}
