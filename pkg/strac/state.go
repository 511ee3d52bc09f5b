// Package strac implements the STRAC margin-analysis formulas: solving the
// price, variable cost, quantity, fixed cost and gross margin model, target
// and historical deltas, and the MQ strategy sweep.
package strac

// State is one fully determined STRAC snapshot.
type State struct {
	P float64 `json:"p" yaml:"p"` // price
	V float64 `json:"v" yaml:"v"` // variable cost per unit
	Q float64 `json:"q" yaml:"q"` // quantity
	F float64 `json:"f" yaml:"f"` // fixed cost
	G float64 `json:"g" yaml:"g"` // gross margin amount
}

// IsZero reports whether every field is zero, which means no calculation has
// produced this state yet.
func (s State) IsZero() bool {
	return s == State{}
}

// M is the unit margin.
func (s State) M() float64 { return s.P - s.V }

// PQ is revenue.
func (s State) PQ() float64 { return s.P * s.Q }

// VQ is total variable cost.
func (s State) VQ() float64 { return s.V * s.Q }

// MQ is the total margin contributed by volume.
func (s State) MQ() float64 { return s.M() * s.Q }

// Sub returns s - o elementwise.
func (s State) Sub(o State) State {
	return State{
		P: s.P - o.P,
		V: s.V - o.V,
		Q: s.Q - o.Q,
		F: s.F - o.F,
		G: s.G - o.G,
	}
}

// Input holds the five Basic Calculation inputs; any of them may be unset.
type Input struct {
	P Optional `json:"p"`
	V Optional `json:"v"`
	Q Optional `json:"q"`
	F Optional `json:"f"`
	G Optional `json:"g"`
}

// UnsetCount returns how many inputs are unset. More than one makes the
// result order dependent.
func (in Input) UnsetCount() int {
	n := 0
	for _, o := range []Optional{in.P, in.V, in.Q, in.F, in.G} {
		if !o.Set {
			n++
		}
	}
	return n
}

// InputFromState marks every field of s as set.
func InputFromState(s State) Input {
	return Input{P: Some(s.P), V: Some(s.V), Q: Some(s.Q), F: Some(s.F), G: Some(s.G)}
}
