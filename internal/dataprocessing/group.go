package dataprocessing

import (
	"sort"
	"strings"

	"deliverypulse/pkg/contracts/domain"
)

// groupKey is a two-level group-by key such as (city, traffic)
type groupKey [2]string

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedGroupKeys[V any](m map[groupKey]V) []groupKey {
	keys := make([]groupKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	return keys
}

// statsBy groups records by key and reports mean and sample deviation of value per group
func statsBy(records []domain.Record, key func(domain.Record) []string, value func(domain.Record) float64) []domain.GroupStat {
	type bucket struct {
		keys   []string
		values []float64
	}
	buckets := make(map[string]*bucket)
	for _, r := range records {
		keys := key(r)
		id := joinKey(keys)
		b, ok := buckets[id]
		if !ok {
			b = &bucket{keys: keys}
			buckets[id] = b
		}
		b.values = append(b.values, value(r))
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return lessKeys(ordered[i].keys, ordered[j].keys) })

	out := make([]domain.GroupStat, 0, len(ordered))
	for _, b := range ordered {
		m, s := meanStdDev(b.values)
		out = append(out, domain.GroupStat{Keys: b.keys, Count: len(b.values), Mean: m, StdDev: s})
	}
	return out
}

func joinKey(keys []string) string {
	return strings.Join(keys, "\x00")
}

func lessKeys(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func byTraffic(r domain.Record) []string     { return []string{r.Traffic} }
func byWeather(r domain.Record) []string     { return []string{r.Weather} }
func byCity(r domain.Record) []string        { return []string{r.City} }
func byFestival(r domain.Record) []string    { return []string{r.Festival} }
func byCityTraffic(r domain.Record) []string { return []string{r.City, r.Traffic} }
func byCityOrder(r domain.Record) []string   { return []string{r.City, r.OrderType} }

func rating(r domain.Record) float64    { return r.Rating }
func timeTaken(r domain.Record) float64 { return r.TimeTakenMin }
