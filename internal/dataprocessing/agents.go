package dataprocessing

import (
	"sort"

	"deliverypulse/pkg/contracts/domain"
)

// TopAgentsPerCity is the number of ranked agents reported for each city
const TopAgentsPerCity = 10

// AgeExtremes returns the oldest and youngest agent age
func AgeExtremes(records []domain.Record) (domain.IntExtremes, error) {
	return intExtremes(records, func(r domain.Record) int { return r.Age })
}

// VehicleConditionExtremes returns the best and worst vehicle condition
func VehicleConditionExtremes(records []domain.Record) (domain.IntExtremes, error) {
	return intExtremes(records, func(r domain.Record) int { return r.VehicleCondition })
}

func intExtremes(records []domain.Record, value func(domain.Record) int) (domain.IntExtremes, error) {
	if len(records) == 0 {
		return domain.IntExtremes{}, ErrEmptyDataset
	}
	ext := domain.IntExtremes{Max: value(records[0]), Min: value(records[0])}
	for _, r := range records[1:] {
		v := value(r)
		if v > ext.Max {
			ext.Max = v
		}
		if v < ext.Min {
			ext.Min = v
		}
	}
	return ext, nil
}

// AvgRatingPerAgent returns each agent's mean rating, ordered by agent id
func AvgRatingPerAgent(records []domain.Record) []domain.AgentRating {
	ratings := make(map[string][]float64)
	for _, r := range records {
		ratings[r.DeliveryPersonID] = append(ratings[r.DeliveryPersonID], r.Rating)
	}

	out := make([]domain.AgentRating, 0, len(ratings))
	for _, id := range sortedKeys(ratings) {
		out = append(out, domain.AgentRating{AgentID: id, Rating: mean(ratings[id])})
	}
	return out
}

// RatingStatsByTraffic returns mean and deviation of rating per traffic density
func RatingStatsByTraffic(records []domain.Record) []domain.GroupStat {
	return statsBy(records, byTraffic, rating)
}

// RatingStatsByWeather returns mean and deviation of rating per weather condition
func RatingStatsByWeather(records []domain.Record) []domain.GroupStat {
	return statsBy(records, byWeather, rating)
}

// TopDeliveryAgents ranks agents by their longest delivery within each city.
// ascending=true lists the fastest agents first. At most TopAgentsPerCity rows are
// returned per city, cities concatenated in domain.Cities order; a city with no
// orders contributes no rows.
func TopDeliveryAgents(records []domain.Record, ascending bool) []domain.AgentTime {
	longest := make(map[groupKey]float64)
	for _, r := range records {
		k := groupKey{r.City, r.DeliveryPersonID}
		if cur, ok := longest[k]; !ok || r.TimeTakenMin > cur {
			longest[k] = r.TimeTakenMin
		}
	}

	byCity := make(map[string][]domain.AgentTime)
	for _, k := range sortedGroupKeys(longest) {
		byCity[k[0]] = append(byCity[k[0]], domain.AgentTime{City: k[0], AgentID: k[1], TimeTakenMin: longest[k]})
	}

	out := make([]domain.AgentTime, 0, len(domain.Cities)*TopAgentsPerCity)
	for _, city := range domain.Cities {
		ranked := byCity[city]
		sort.SliceStable(ranked, func(i, j int) bool {
			if ascending {
				return ranked[i].TimeTakenMin < ranked[j].TimeTakenMin
			}
			return ranked[i].TimeTakenMin > ranked[j].TimeTakenMin
		})
		if len(ranked) > TopAgentsPerCity {
			ranked = ranked[:TopAgentsPerCity]
		}
		out = append(out, ranked...)
	}
	return out
}
