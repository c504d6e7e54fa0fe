package dataprocessing

import (
	"math"
	"sort"

	"github.com/cockroachdb/apd/v3"
	"gonum.org/v1/gonum/stat"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0088

// roundContext rounds to two decimals with ties going to the even digit
var roundContext = func() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Rounding = apd.RoundHalfEven
	return ctx
}()

// Round2 rounds v to two decimal places, ties to even
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	d, err := new(apd.Decimal).SetFloat64(v)
	if err != nil {
		return v
	}
	var out apd.Decimal
	if _, err := roundContext.Quantize(&out, d, -2); err != nil {
		return v
	}
	f, err := out.Float64()
	if err != nil {
		return v
	}
	return f
}

// HaversineKm returns the great-circle distance between two points given in degrees
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const rad = math.Pi / 180
	phi1, phi2 := lat1*rad, lat2*rad
	dPhi := (lat2 - lat1) * rad
	dLambda := (lon2 - lon1) * rad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// meanStdDev returns the mean and sample standard deviation (n-1) of xs.
// The deviation is nil when fewer than two values are present.
func meanStdDev(xs []float64) (float64, *float64) {
	if len(xs) == 0 {
		return math.NaN(), nil
	}
	if len(xs) == 1 {
		return xs[0], nil
	}
	m, s := stat.MeanStdDev(xs, nil)
	return m, &s
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// median averages the two middle values of an even-length sample
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func float64Ptr(v float64) *float64 {
	return &v
}
