package dataprocessing

import (
	"sort"
	"time"

	"deliverypulse/pkg/contracts/domain"
)

// OrdersPerDay counts orders per order date, ascending by date
func OrdersPerDay(records []domain.Record) []domain.DateCount {
	counts := make(map[time.Time]int)
	for _, r := range records {
		counts[r.OrderDate]++
	}

	out := make([]domain.DateCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, domain.DateCount{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// TrafficShare returns the fraction of orders per traffic density. Fractions sum to 1.
func TrafficShare(records []domain.Record) []domain.CategoryShare {
	counts := make(map[string]int)
	total := 0
	for _, r := range records {
		if r.Traffic == domain.MissingValue {
			continue
		}
		counts[r.Traffic]++
		total++
	}

	out := make([]domain.CategoryShare, 0, len(counts))
	for _, k := range sortedKeys(counts) {
		out = append(out, domain.CategoryShare{
			Category: k,
			Count:    counts[k],
			Share:    float64(counts[k]) / float64(total),
		})
	}
	return out
}

// OrdersByCityAndTraffic counts orders per (city, traffic density)
func OrdersByCityAndTraffic(records []domain.Record) []domain.CityTrafficCount {
	counts := make(map[groupKey]int)
	for _, r := range records {
		counts[groupKey{r.City, r.Traffic}]++
	}

	out := make([]domain.CityTrafficCount, 0, len(counts))
	for _, k := range sortedGroupKeys(counts) {
		out = append(out, domain.CityTrafficCount{City: k[0], Traffic: k[1], Count: counts[k]})
	}
	return out
}

// OrdersPerWeek counts orders per week-of-year label. Weeks are Sunday based and
// grouped by label only, so the same week number of different years is merged.
func OrdersPerWeek(records []domain.Record) []domain.WeekCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[WeekLabel(r.OrderDate)]++
	}

	out := make([]domain.WeekCount, 0, len(counts))
	for _, k := range sortedKeys(counts) {
		out = append(out, domain.WeekCount{Week: k, Count: counts[k]})
	}
	return out
}

// OrdersPerAgentPerWeek divides each week's orders by the distinct agents active that week
func OrdersPerAgentPerWeek(records []domain.Record) []domain.WeekRatio {
	orders := make(map[string]int)
	agents := make(map[string]map[string]struct{})
	for _, r := range records {
		week := WeekLabel(r.OrderDate)
		orders[week]++
		if agents[week] == nil {
			agents[week] = make(map[string]struct{})
		}
		agents[week][r.DeliveryPersonID] = struct{}{}
	}

	out := make([]domain.WeekRatio, 0, len(orders))
	for _, week := range sortedKeys(orders) {
		ratio := domain.WeekRatio{Week: week, Orders: orders[week], Agents: len(agents[week])}
		if ratio.Agents > 0 {
			ratio.Ratio = float64(ratio.Orders) / float64(ratio.Agents)
		}
		out = append(out, ratio)
	}
	return out
}

// TrafficCentroidByCity returns the median delivery location of every (city, traffic)
// group, skipping groups keyed by the missing-value sentinel
func TrafficCentroidByCity(records []domain.Record) []domain.MapMarker {
	lats := make(map[groupKey][]float64)
	lons := make(map[groupKey][]float64)
	for _, r := range records {
		if r.City == domain.MissingValue || r.Traffic == domain.MissingValue {
			continue
		}
		k := groupKey{r.City, r.Traffic}
		lats[k] = append(lats[k], r.DeliveryLat)
		lons[k] = append(lons[k], r.DeliveryLon)
	}

	out := make([]domain.MapMarker, 0, len(lats))
	for _, k := range sortedGroupKeys(lats) {
		out = append(out, domain.MapMarker{
			City:      k[0],
			Traffic:   k[1],
			Latitude:  median(lats[k]),
			Longitude: median(lons[k]),
		})
	}
	return out
}
