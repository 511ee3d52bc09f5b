package strac

import "github.com/iwvelando/strac/pkg/mathutil"

// HistoricalResult holds the K metrics between a base and a new period.
// Prices, costs and margins are weighted by the average quantity; quantity is
// weighted by the average margin.
type HistoricalResult struct {
	PK  float64 `json:"pk"`
	VK  float64 `json:"vk"`
	MK  float64 `json:"mk"`
	QK  float64 `json:"qk"`
	PQK float64 `json:"pqk"`
	VQK float64 `json:"vqk"`
	MQK float64 `json:"mqk"`
	FK  float64 `json:"fk"`
	GK  float64 `json:"gk"`
}

// Historical compares two periods. Missing fields are plain zeros.
func Historical(base, next State) HistoricalResult {
	avgQ := mathutil.Average(next.Q, base.Q)
	avgM := mathutil.Average(next.M(), base.M())

	mqk := next.MQ() - base.MQ()
	fk := next.F - base.F

	return HistoricalResult{
		PK:  (next.P - base.P) * avgQ,
		VK:  (next.V - base.V) * avgQ,
		MK:  (next.M() - base.M()) * avgQ,
		QK:  (next.Q - base.Q) * avgM,
		PQK: next.PQ() - base.PQ(),
		VQK: next.VQ() - base.VQ(),
		MQK: mqk,
		FK:  fk,
		GK:  mqk - fk,
	}
}

// Display returns the values as presented: cost movements VK, VQK and FK are
// negated so that a cost increase reads as a negative contribution.
func (h HistoricalResult) Display() HistoricalResult {
	d := h
	d.VK = -h.VK
	d.VQK = -h.VQK
	d.FK = -h.FK
	return d
}
