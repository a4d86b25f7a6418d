package stats

import "gonum.org/v1/gonum/stat/distuv"

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ZVal returns the two-tailed z-value for a confidence level given in
// percent (0 to 100).
func ZVal(pct float64) float64 {
	return stdNormal.Quantile((1 + pct/100) / 2)
}
