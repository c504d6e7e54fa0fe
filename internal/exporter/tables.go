package exporter

import (
	"errors"
	"fmt"

	"deliverypulse/pkg/contracts/domain"
)

// ErrUnknownView is returned for values that are not one of the dashboard views
var ErrUnknownView = errors.New("unknown view")

// Table is one aggregate rendered as text cells. It is what both the CSV and
// the workbook writers consume.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// ViewTables renders every aggregate of a computed view, in display order.
// An aggregate that failed for the current filter yields a table with
// headers only.
func ViewTables(view interface{}) ([]Table, error) {
	switch v := view.(type) {
	case *domain.CompanyView:
		return CompanyTables(v), nil
	case *domain.AgentsView:
		return AgentsTables(v), nil
	case *domain.RestaurantsView:
		return RestaurantsTables(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownView, view)
	}
}

// FindTable returns the table with the given aggregate name
func FindTable(tables []Table, name string) (Table, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// CompanyTables renders the company view
func CompanyTables(v *domain.CompanyView) []Table {
	perDay := Table{Name: domain.AggOrdersPerDay, Headers: []string{"order_date", "count"}}
	for _, d := range v.OrdersPerDay {
		perDay.Rows = append(perDay.Rows, []string{formatDate(d.Date), formatInt(d.Count)})
	}

	share := Table{Name: domain.AggTrafficShare, Headers: []string{"traffic", "count", "share"}}
	for _, s := range v.TrafficShare {
		share.Rows = append(share.Rows, []string{s.Category, formatInt(s.Count), formatFloat(s.Share)})
	}

	cityTraffic := Table{Name: domain.AggOrdersByCityAndTraffic, Headers: []string{"city", "traffic", "count"}}
	for _, c := range v.OrdersByCityAndTraffic {
		cityTraffic.Rows = append(cityTraffic.Rows, []string{c.City, c.Traffic, formatInt(c.Count)})
	}

	perWeek := Table{Name: domain.AggOrdersPerWeek, Headers: []string{"week", "count"}}
	for _, w := range v.OrdersPerWeek {
		perWeek.Rows = append(perWeek.Rows, []string{w.Week, formatInt(w.Count)})
	}

	perAgent := Table{Name: domain.AggOrdersPerAgentPerWeek, Headers: []string{"week", "orders", "agents", "ratio"}}
	for _, w := range v.OrdersPerAgentPerWeek {
		perAgent.Rows = append(perAgent.Rows, []string{w.Week, formatInt(w.Orders), formatInt(w.Agents), formatFloat(w.Ratio)})
	}

	centroids := Table{Name: domain.AggTrafficCentroids, Headers: []string{"city", "traffic", "latitude", "longitude"}}
	for _, m := range v.TrafficCentroids {
		centroids.Rows = append(centroids.Rows, []string{m.City, m.Traffic, formatCoordinate(m.Latitude), formatCoordinate(m.Longitude)})
	}

	return []Table{perDay, share, cityTraffic, perWeek, perAgent, centroids}
}

// AgentsTables renders the delivery-agent view
func AgentsTables(v *domain.AgentsView) []Table {
	ratings := Table{Name: domain.AggAvgRatingPerAgent, Headers: []string{"agent_id", "rating"}}
	for _, a := range v.AvgRatingPerAgent {
		ratings.Rows = append(ratings.Rows, []string{a.AgentID, formatFloat(a.Rating)})
	}

	return []Table{
		extremesTable(domain.AggAge, v.Age),
		extremesTable(domain.AggVehicleCondition, v.VehicleCondition),
		ratings,
		groupTable(domain.AggRatingByTraffic, []string{"traffic"}, v.RatingByTraffic),
		groupTable(domain.AggRatingByWeather, []string{"weather"}, v.RatingByWeather),
		agentTimeTable(domain.AggFastestAgents, v.FastestAgents),
		agentTimeTable(domain.AggSlowestAgents, v.SlowestAgents),
	}
}

// RestaurantsTables renders the restaurant view
func RestaurantsTables(v *domain.RestaurantsView) []Table {
	distance := Table{Name: domain.AggAvgDistanceByCity, Headers: []string{"city", "distance_km"}}
	for _, c := range v.AvgDistanceByCity {
		distance.Rows = append(distance.Rows, []string{c.City, formatFloat(c.DistanceKm)})
	}

	var byTraffic []domain.GroupStat
	if v.TimeByCityAndTraffic != nil {
		byTraffic = v.TimeByCityAndTraffic.Groups
	}

	return []Table{
		scalarTable(domain.AggUniqueAgents, formatOptionalInt(v.UniqueAgents)),
		scalarTable(domain.AggAvgDistanceKm, formatOptional(v.AvgDistanceKm)),
		scalarTable(domain.AggAvgTimeFestival, formatOptional(v.AvgTimeFestival)),
		scalarTable(domain.AggStdTimeFestival, formatOptional(v.StdTimeFestival)),
		scalarTable(domain.AggAvgTimeNoFestival, formatOptional(v.AvgTimeNoFestival)),
		scalarTable(domain.AggStdTimeNoFestival, formatOptional(v.StdTimeNoFestival)),
		groupTable(domain.AggTimeByCity, []string{"city"}, v.TimeByCity),
		groupTable(domain.AggTimeByCityAndTraffic, []string{"city", "traffic"}, byTraffic),
		distance,
		groupTable(domain.AggTimeByCityAndOrderType, []string{"city", "order_type"}, v.TimeByCityAndOrderType),
	}
}

func scalarTable(name, value string) Table {
	return Table{Name: name, Headers: []string{name}, Rows: [][]string{{value}}}
}

func extremesTable(name string, ext *domain.IntExtremes) Table {
	t := Table{Name: name, Headers: []string{"max", "min"}}
	if ext != nil {
		t.Rows = [][]string{{formatInt(ext.Max), formatInt(ext.Min)}}
	}
	return t
}

func groupTable(name string, keys []string, groups []domain.GroupStat) Table {
	t := Table{Name: name, Headers: append(append([]string(nil), keys...), "count", "mean", "std_dev")}
	for _, g := range groups {
		row := append(append([]string(nil), g.Keys...), formatInt(g.Count), formatFloat(g.Mean), formatOptional(g.StdDev))
		t.Rows = append(t.Rows, row)
	}
	return t
}

func agentTimeTable(name string, agents []domain.AgentTime) Table {
	t := Table{Name: name, Headers: []string{"city", "agent_id", "time_taken_min"}}
	for _, a := range agents {
		t.Rows = append(t.Rows, []string{a.City, a.AgentID, formatFloat(a.TimeTakenMin)})
	}
	return t
}
