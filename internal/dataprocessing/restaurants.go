package dataprocessing

import (
	"fmt"

	"deliverypulse/pkg/contracts/domain"
)

// UniqueDeliveryAgents counts distinct agent ids
func UniqueDeliveryAgents(records []domain.Record) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.DeliveryPersonID] = struct{}{}
	}
	return len(seen)
}

// AvgDistance returns the mean restaurant-to-customer distance in km, rounded to 2 decimals
func AvgDistance(records []domain.Record) (float64, error) {
	if len(records) == 0 {
		return 0, ErrEmptyDataset
	}
	distances := make([]float64, len(records))
	for i, r := range records {
		distances[i] = r.DistanceKm
	}
	return Round2(mean(distances)), nil
}

// TimeStatByFestival returns the requested delivery-time statistic for orders with the
// given festival flag, rounded to 2 decimals
func TimeStatByFestival(records []domain.Record, festival string, kind domain.StatKind) (float64, error) {
	for _, g := range statsBy(records, byFestival, timeTaken) {
		if g.Keys[0] != festival {
			continue
		}
		switch kind {
		case domain.StatAvgTime:
			return Round2(g.Mean), nil
		case domain.StatStdTime:
			if g.StdDev == nil {
				return 0, fmt.Errorf("%w: std_time for festival %q needs at least two orders", ErrUndefinedStatistic, festival)
			}
			return Round2(*g.StdDev), nil
		default:
			return 0, fmt.Errorf("unknown statistic %q", kind)
		}
	}
	return 0, fmt.Errorf("%w: festival %q", ErrGroupNotFound, festival)
}

// TimeStatsByCity returns mean and deviation of delivery time per city
func TimeStatsByCity(records []domain.Record) []domain.GroupStat {
	return statsBy(records, byCity, timeTaken)
}

// TimeStatsByCityAndTraffic returns delivery-time statistics per (city, traffic) and the
// average of the defined group deviations, used as the color midpoint
func TimeStatsByCityAndTraffic(records []domain.Record) domain.TrafficSunburst {
	groups := statsBy(records, byCityTraffic, timeTaken)

	var stds []float64
	for _, g := range groups {
		if g.StdDev != nil {
			stds = append(stds, *g.StdDev)
		}
	}

	out := domain.TrafficSunburst{Groups: groups}
	if len(stds) > 0 {
		out.StdDevMidpoint = float64Ptr(mean(stds))
	}
	return out
}

// AvgDistanceByCity returns the mean delivery distance per city
func AvgDistanceByCity(records []domain.Record) []domain.CityDistance {
	groups := statsBy(records, byCity, func(r domain.Record) float64 { return r.DistanceKm })
	out := make([]domain.CityDistance, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.CityDistance{City: g.Keys[0], DistanceKm: g.Mean})
	}
	return out
}

// TimeStatsByCityAndOrderType returns delivery-time statistics per (city, order type)
func TimeStatsByCityAndOrderType(records []domain.Record) []domain.GroupStat {
	return statsBy(records, byCityOrder, timeTaken)
}
