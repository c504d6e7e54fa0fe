package domain

import "time"

// View names
const (
	ViewCompany     = "company"
	ViewAgents      = "agents"
	ViewRestaurants = "restaurants"
)

// Company aggregates
const (
	AggOrdersPerDay           = "orders_per_day"
	AggTrafficShare           = "traffic_share"
	AggOrdersByCityAndTraffic = "orders_by_city_and_traffic"
	AggOrdersPerWeek          = "orders_per_week"
	AggOrdersPerAgentPerWeek  = "orders_per_agent_per_week"
	AggTrafficCentroids       = "traffic_centroids"
)

// Agents aggregates
const (
	AggAge               = "age"
	AggVehicleCondition  = "vehicle_condition"
	AggAvgRatingPerAgent = "avg_rating_per_agent"
	AggRatingByTraffic   = "rating_by_traffic"
	AggRatingByWeather   = "rating_by_weather"
	AggFastestAgents     = "fastest_agents"
	AggSlowestAgents     = "slowest_agents"
)

// Restaurants aggregates
const (
	AggUniqueAgents           = "unique_agents"
	AggAvgDistanceKm          = "avg_distance_km"
	AggAvgTimeFestival        = "avg_time_festival"
	AggStdTimeFestival        = "std_time_festival"
	AggAvgTimeNoFestival      = "avg_time_no_festival"
	AggStdTimeNoFestival      = "std_time_no_festival"
	AggTimeByCity             = "time_by_city"
	AggTimeByCityAndTraffic   = "time_by_city_and_traffic"
	AggAvgDistanceByCity      = "avg_distance_by_city"
	AggTimeByCityAndOrderType = "time_by_city_and_order_type"
)

// Views lists the dashboard views in display order
var Views = []string{ViewCompany, ViewAgents, ViewRestaurants}

// ViewAggregates lists the aggregates of each view in display order
var ViewAggregates = map[string][]string{
	ViewCompany: {
		AggOrdersPerDay, AggTrafficShare, AggOrdersByCityAndTraffic,
		AggOrdersPerWeek, AggOrdersPerAgentPerWeek, AggTrafficCentroids,
	},
	ViewAgents: {
		AggAge, AggVehicleCondition, AggAvgRatingPerAgent, AggRatingByTraffic,
		AggRatingByWeather, AggFastestAgents, AggSlowestAgents,
	},
	ViewRestaurants: {
		AggUniqueAgents, AggAvgDistanceKm, AggAvgTimeFestival, AggStdTimeFestival,
		AggAvgTimeNoFestival, AggStdTimeNoFestival, AggTimeByCity,
		AggTimeByCityAndTraffic, AggAvgDistanceByCity, AggTimeByCityAndOrderType,
	},
}

// DatasetSummary describes the dataset loaded for the session
type DatasetSummary struct {
	Source   string       `json:"source"`
	LoadedAt time.Time    `json:"loaded_at"`
	Report   CleanReport  `json:"report"`
	Bounds   FilterBounds `json:"bounds"`
}

// AggregateError reports a failure of a single aggregate inside a view.
// The other aggregates of the view are still populated.
type AggregateError struct {
	Aggregate string `json:"aggregate"`
	Message   string `json:"message"`
}

// ViewMeta is shared metadata attached to every view
type ViewMeta struct {
	View        string           `json:"view"`
	Filter      FilterOptions    `json:"filter"`
	Rows        int              `json:"rows"`
	GeneratedAt time.Time        `json:"generated_at"`
	Errors      []AggregateError `json:"errors,omitempty"`
}

// CompanyView is the business-wide perspective
type CompanyView struct {
	ViewMeta
	OrdersPerDay           []DateCount        `json:"orders_per_day"`
	TrafficShare           []CategoryShare    `json:"traffic_share"`
	OrdersByCityAndTraffic []CityTrafficCount `json:"orders_by_city_and_traffic"`
	OrdersPerWeek          []WeekCount        `json:"orders_per_week"`
	OrdersPerAgentPerWeek  []WeekRatio        `json:"orders_per_agent_per_week"`
	TrafficCentroids       []MapMarker        `json:"traffic_centroids"`
}

// AgentsView is the delivery-agent perspective
type AgentsView struct {
	ViewMeta
	Age               *IntExtremes  `json:"age"`
	VehicleCondition  *IntExtremes  `json:"vehicle_condition"`
	AvgRatingPerAgent []AgentRating `json:"avg_rating_per_agent"`
	RatingByTraffic   []GroupStat   `json:"rating_by_traffic"`
	RatingByWeather   []GroupStat   `json:"rating_by_weather"`
	FastestAgents     []AgentTime   `json:"fastest_agents"`
	SlowestAgents     []AgentTime   `json:"slowest_agents"`
}

// RestaurantsView is the restaurant perspective
type RestaurantsView struct {
	ViewMeta
	UniqueAgents           *int             `json:"unique_agents"`
	AvgDistanceKm          *float64         `json:"avg_distance_km"`
	AvgTimeFestival        *float64         `json:"avg_time_festival"`
	StdTimeFestival        *float64         `json:"std_time_festival"`
	AvgTimeNoFestival      *float64         `json:"avg_time_no_festival"`
	StdTimeNoFestival      *float64         `json:"std_time_no_festival"`
	TimeByCity             []GroupStat      `json:"time_by_city"`
	TimeByCityAndTraffic   *TrafficSunburst `json:"time_by_city_and_traffic"`
	AvgDistanceByCity      []CityDistance   `json:"avg_distance_by_city"`
	TimeByCityAndOrderType []GroupStat      `json:"time_by_city_and_order_type"`
}
