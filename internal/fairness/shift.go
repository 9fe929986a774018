package fairness

import (
	"math"
	"sort"
)

// shiftPValueThreshold flags a pair as shifted when the K-S p-value falls
// below it.
const shiftPValueThreshold = 0.05

// DistributionShift runs a two-sample Kolmogorov-Smirnov test on the
// predicted-outcome sample of every group pair. Pairs where either group is
// empty are skipped.
func DistributionShift(records []GroupRecord) []PairShift {
	byGroup := make(map[string][]float64)
	var order []string
	for _, r := range records {
		if _, ok := byGroup[r.Group]; !ok {
			order = append(order, r.Group)
		}
		byGroup[r.Group] = append(byGroup[r.Group], float64(r.YPred))
	}
	sort.Strings(order)

	var out []PairShift
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, b := byGroup[order[i]], byGroup[order[j]]
			if len(a) == 0 || len(b) == 0 {
				continue
			}
			stat, p := ksTwoSample(a, b)
			out = append(out, PairShift{
				Groups:    [2]string{order[i], order[j]},
				KSStat:    round4(stat),
				PValue:    round4(p),
				SamplesA:  len(a),
				SamplesB:  len(b),
				Shifted:   p < shiftPValueThreshold,
				Threshold: shiftPValueThreshold,
			})
		}
	}
	return out
}

// ksTwoSample computes the two-sample K-S statistic by sweeping the merged
// sorted samples, and its asymptotic p-value.
func ksTwoSample(a, b []float64) (stat, p float64) {
	as := append([]float64(nil), a...)
	bs := append([]float64(nil), b...)
	sort.Float64s(as)
	sort.Float64s(bs)

	na, nb := len(as), len(bs)
	var i, j int
	var d float64
	for i < na && j < nb {
		x := math.Min(as[i], bs[j])
		for i < na && as[i] <= x {
			i++
		}
		for j < nb && bs[j] <= x {
			j++
		}
		diff := math.Abs(float64(i)/float64(na) - float64(j)/float64(nb))
		if diff > d {
			d = diff
		}
	}

	en := math.Sqrt(float64(na) * float64(nb) / float64(na+nb))
	return d, ksProb((en + 0.12 + 0.11/en) * d)
}

// ksProb is the asymptotic Kolmogorov distribution tail
// Q(lambda) = 2 sum_{k>=1} (-1)^{k-1} exp(-2 k^2 lambda^2).
func ksProb(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	var sum float64
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * math.Exp(-2*float64(k*k)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}
	p := 2 * sum
	return math.Max(0, math.Min(1, p))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
