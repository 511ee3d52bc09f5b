package strac

// TargetResult compares a target scenario with the stored baseline.
type TargetResult struct {
	Baseline State       `json:"baseline"`
	Target   State       `json:"target"`
	Delta    State       `json:"delta"`
	Percent  DeltaRatios `json:"percent"`
}

// DeltaRatios are the deltas as a percentage of the baseline.
type DeltaRatios struct {
	P Ratio `json:"p"`
	V Ratio `json:"v"`
	Q Ratio `json:"q"`
	F Ratio `json:"f"`
	G Ratio `json:"g"`
}

// Target computes target minus stored for every field, plus each delta as a
// percentage of the stored value. Unset target fields default to the stored
// value. An all-zero stored state yields ErrNoBaseline.
func Target(stored State, target Input) (TargetResult, error) {
	if stored.IsZero() {
		return TargetResult{}, ErrNoBaseline
	}

	t := State{
		P: target.P.Or(stored.P),
		V: target.V.Or(stored.V),
		Q: target.Q.Or(stored.Q),
		F: target.F.Or(stored.F),
		G: target.G.Or(stored.G),
	}
	d := t.Sub(stored)

	return TargetResult{
		Baseline: stored,
		Target:   t,
		Delta:    d,
		Percent: DeltaRatios{
			P: Percent(d.P, stored.P),
			V: Percent(d.V, stored.V),
			Q: Percent(d.Q, stored.Q),
			F: Percent(d.F, stored.F),
			G: Percent(d.G, stored.G),
		},
	}, nil
}
