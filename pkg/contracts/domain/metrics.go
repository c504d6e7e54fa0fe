package domain

import "time"

// DateCount is the number of orders placed on one date
type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// CategoryShare is the fraction of orders falling into one category
type CategoryShare struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// CityTrafficCount is the order count for one (city, traffic) group
type CityTrafficCount struct {
	City    string `json:"city"`
	Traffic string `json:"traffic"`
	Count   int    `json:"count"`
}

// WeekCount is the order count for one week-of-year label
type WeekCount struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

// WeekRatio relates weekly orders to the distinct agents active that week
type WeekRatio struct {
	Week   string  `json:"week"`
	Orders int     `json:"orders"`
	Agents int     `json:"agents"`
	Ratio  float64 `json:"ratio"`
}

// MapMarker is the median delivery location of a (city, traffic) group
type MapMarker struct {
	City      string  `json:"city"`
	Traffic   string  `json:"traffic"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IntExtremes holds the largest and smallest observed value of an integer field
type IntExtremes struct {
	Max int `json:"max"`
	Min int `json:"min"`
}

// AgentRating is the mean rating of one delivery agent
type AgentRating struct {
	AgentID string  `json:"agent_id"`
	Rating  float64 `json:"rating"`
}

// GroupStat is the mean and sample standard deviation of a measure within a group.
// StdDev is nil when the group holds fewer than two rows.
type GroupStat struct {
	Keys   []string `json:"keys"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	StdDev *float64 `json:"std_dev"`
}

// AgentTime is an agent's maximum delivery time within a city
type AgentTime struct {
	City         string  `json:"city"`
	AgentID      string  `json:"agent_id"`
	TimeTakenMin float64 `json:"time_taken_min"`
}

// CityDistance is the mean delivery distance within a city
type CityDistance struct {
	City       string  `json:"city"`
	DistanceKm float64 `json:"distance_km"`
}

// TrafficSunburst is delivery-time statistics per (city, traffic) with the color midpoint
type TrafficSunburst struct {
	Groups         []GroupStat `json:"groups"`
	StdDevMidpoint *float64    `json:"std_dev_midpoint"`
}

// StatKind selects which statistic of delivery time a metric reports
type StatKind string

const (
	StatAvgTime StatKind = "avg_time"
	StatStdTime StatKind = "std_time"
)
