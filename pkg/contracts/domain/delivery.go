package domain

import (
	"strconv"
	"time"
)

// OrderDateLayout is the day-month-year layout used by the extract's Order_Date column
const OrderDateLayout = "02-01-2006"

// TimeTakenLabel precedes the numeric payload of the Time_taken(min) column
const TimeTakenLabel = "(min) "

// Missing-value sentinels as they appear in the extract after trimming
const (
	MissingValue   = "NaN"
	MissingWeather = "conditions NaN"
)

// TrafficDensity represents the road traffic density category of an order
type TrafficDensity = string

const (
	TrafficLow    TrafficDensity = "Low"
	TrafficMedium TrafficDensity = "Medium"
	TrafficHigh   TrafficDensity = "High"
	TrafficJam    TrafficDensity = "Jam"
)

// AllTrafficDensities lists every traffic category in display order
var AllTrafficDensities = []TrafficDensity{TrafficLow, TrafficMedium, TrafficHigh, TrafficJam}

// City categories. "Metropolitian" is the extract's own spelling and is kept verbatim.
const (
	CityMetropolitan = "Metropolitian"
	CityUrban        = "Urban"
	CitySemiUrban    = "Semi-Urban"
)

// Cities is the order in which per-city rankings are concatenated
var Cities = []string{CityMetropolitan, CityUrban, CitySemiUrban}

// Festival flags
const (
	FestivalYes = "Yes"
	FestivalNo  = "No"
)

// RawRecord is one row of the extract with every field kept as text
type RawRecord struct {
	Line                      int    `json:"line"`
	ID                        string `json:"id"`
	DeliveryPersonID          string `json:"delivery_person_id"`
	DeliveryPersonAge         string `json:"delivery_person_age"`
	DeliveryPersonRatings     string `json:"delivery_person_ratings"`
	RestaurantLatitude        string `json:"restaurant_latitude"`
	RestaurantLongitude       string `json:"restaurant_longitude"`
	DeliveryLocationLatitude  string `json:"delivery_location_latitude"`
	DeliveryLocationLongitude string `json:"delivery_location_longitude"`
	OrderDate                 string `json:"order_date"`
	Weatherconditions         string `json:"weatherconditions"`
	RoadTrafficDensity        string `json:"road_traffic_density"`
	VehicleCondition          string `json:"vehicle_condition"`
	TypeOfOrder               string `json:"type_of_order"`
	TypeOfVehicle             string `json:"type_of_vehicle"`
	MultipleDeliveries        string `json:"multiple_deliveries"`
	Festival                  string `json:"festival"`
	City                      string `json:"city"`
	TimeTaken                 string `json:"time_taken"`
}

// Record is a cleaned, typed delivery order
type Record struct {
	ID                 string    `json:"id"`
	DeliveryPersonID   string    `json:"delivery_person_id"`
	Age                int       `json:"age"`
	Rating             float64   `json:"rating"`
	RestaurantLat      float64   `json:"restaurant_latitude"`
	RestaurantLon      float64   `json:"restaurant_longitude"`
	DeliveryLat        float64   `json:"delivery_latitude"`
	DeliveryLon        float64   `json:"delivery_longitude"`
	OrderDate          time.Time `json:"order_date"`
	Weather            string    `json:"weather"`
	Traffic            string    `json:"traffic"`
	VehicleCondition   int       `json:"vehicle_condition"`
	OrderType          string    `json:"order_type"`
	VehicleType        string    `json:"vehicle_type"`
	MultipleDeliveries int       `json:"multiple_deliveries"`
	Festival           string    `json:"festival"`
	City               string    `json:"city"`
	TimeTakenMin       float64   `json:"time_taken_min"`
	DistanceKm         float64   `json:"distance_km"`
}

// Raw renders the record back into extract form. Cleaning the result yields an equal Record.
func (r Record) Raw() RawRecord {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return RawRecord{
		ID:                        r.ID,
		DeliveryPersonID:          r.DeliveryPersonID,
		DeliveryPersonAge:         strconv.Itoa(r.Age),
		DeliveryPersonRatings:     f(r.Rating),
		RestaurantLatitude:        f(r.RestaurantLat),
		RestaurantLongitude:       f(r.RestaurantLon),
		DeliveryLocationLatitude:  f(r.DeliveryLat),
		DeliveryLocationLongitude: f(r.DeliveryLon),
		OrderDate:                 r.OrderDate.Format(OrderDateLayout),
		Weatherconditions:         r.Weather,
		RoadTrafficDensity:        r.Traffic,
		VehicleCondition:          strconv.Itoa(r.VehicleCondition),
		TypeOfOrder:               r.OrderType,
		TypeOfVehicle:             r.VehicleType,
		MultipleDeliveries:        strconv.Itoa(r.MultipleDeliveries),
		Festival:                  r.Festival,
		City:                      r.City,
		TimeTaken:                 TimeTakenLabel + f(r.TimeTakenMin),
	}
}

// FilterOptions holds the user-chosen dashboard filter
type FilterOptions struct {
	// MaxDate is an exclusive upper bound on the order date. Zero means unbounded.
	MaxDate time.Time `json:"max_date"`
	// Traffic is the set of accepted traffic categories. Nil means all; an
	// empty non-nil set accepts none.
	Traffic []string `json:"traffic" validate:"omitempty,dive,traffic"`
}

// FilterBounds describes the filter ranges a client can offer
type FilterBounds struct {
	MinDate time.Time `json:"min_date"`
	MaxDate time.Time `json:"max_date"`
	Traffic []string  `json:"traffic"`
}

// CleanReport summarizes one cleaning run
type CleanReport struct {
	Input   int            `json:"input"`
	Kept    int            `json:"kept"`
	Dropped map[string]int `json:"dropped"`
}
