package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"deliverypulse/pkg/contracts/domain"
)

// orderDateParseLayout accepts one or two digit days and months
const orderDateParseLayout = "2-1-2006"

// Drop reasons reported in CleanReport.Dropped
const (
	DropMissingAge                = "missing_age"
	DropMissingWeather            = "missing_weather"
	DropMissingCity               = "missing_city"
	DropMissingTraffic            = "missing_traffic"
	DropMissingMultipleDeliveries = "missing_multiple_deliveries"
)

type cleanRow struct {
	raw domain.RawRecord
	rec domain.Record
}

// cleanStage transforms the surviving rows. A stage either drops rows or converts one
// field across every row; stages run in order over the whole set.
type cleanStage func(rows []*cleanRow, report *domain.CleanReport) ([]*cleanRow, error)

var cleanStages = []cleanStage{
	trimStage,
	dropSentinelsStage,
	convertStage(ColDeliveryPersonAge, func(r *cleanRow) (string, error) {
		v, err := strconv.Atoi(strings.TrimSpace(r.raw.DeliveryPersonAge))
		r.rec.Age = v
		return r.raw.DeliveryPersonAge, err
	}),
	convertStage(ColDeliveryPersonRate, func(r *cleanRow) (string, error) {
		v, err := parseFloat(r.raw.DeliveryPersonRatings)
		r.rec.Rating = v
		return r.raw.DeliveryPersonRatings, err
	}),
	convertStage(ColOrderDate, func(r *cleanRow) (string, error) {
		v, err := time.Parse(orderDateParseLayout, strings.TrimSpace(r.raw.OrderDate))
		r.rec.OrderDate = v
		return r.raw.OrderDate, err
	}),
	dropMissingMultipleDeliveriesStage,
	convertStage(ColMultipleDeliveries, func(r *cleanRow) (string, error) {
		v, err := strconv.Atoi(strings.TrimSpace(r.raw.MultipleDeliveries))
		r.rec.MultipleDeliveries = v
		return r.raw.MultipleDeliveries, err
	}),
	convertStage(ColTimeTaken, func(r *cleanRow) (string, error) {
		parts := strings.Split(r.raw.TimeTaken, domain.TimeTakenLabel)
		if len(parts) < 2 {
			return r.raw.TimeTaken, ErrStructure
		}
		v, err := parseFloat(parts[1])
		r.rec.TimeTakenMin = v
		return r.raw.TimeTaken, err
	}),
	convertStage(ColVehicleCondition, func(r *cleanRow) (string, error) {
		v, err := strconv.Atoi(strings.TrimSpace(r.raw.VehicleCondition))
		r.rec.VehicleCondition = v
		return r.raw.VehicleCondition, err
	}),
	convertStage(ColRestaurantLat, floatField(func(r *cleanRow) (string, *float64) {
		return r.raw.RestaurantLatitude, &r.rec.RestaurantLat
	})),
	convertStage(ColRestaurantLon, floatField(func(r *cleanRow) (string, *float64) {
		return r.raw.RestaurantLongitude, &r.rec.RestaurantLon
	})),
	convertStage(ColDeliveryLat, floatField(func(r *cleanRow) (string, *float64) {
		return r.raw.DeliveryLocationLatitude, &r.rec.DeliveryLat
	})),
	convertStage(ColDeliveryLon, floatField(func(r *cleanRow) (string, *float64) {
		return r.raw.DeliveryLocationLongitude, &r.rec.DeliveryLon
	})),
	enrichStage,
}

// Clean converts raw extract rows into typed records. Rows carrying a missing-value
// sentinel are dropped; any other malformed value aborts the run with a *CleanError.
// The input is not modified and the relative order of surviving rows is preserved.
func Clean(raw []domain.RawRecord) ([]domain.Record, error) {
	records, _, err := CleanWithReport(raw)
	return records, err
}

// CleanWithReport is Clean plus the per-reason drop counts
func CleanWithReport(raw []domain.RawRecord) ([]domain.Record, domain.CleanReport, error) {
	report := domain.CleanReport{Input: len(raw), Dropped: make(map[string]int)}

	rows := make([]*cleanRow, len(raw))
	for i := range raw {
		rows[i] = &cleanRow{raw: raw[i]}
	}

	var err error
	for _, stage := range cleanStages {
		if rows, err = stage(rows, &report); err != nil {
			return nil, report, err
		}
	}

	records := make([]domain.Record, len(rows))
	for i, r := range rows {
		records[i] = r.rec
	}
	report.Kept = len(records)
	return records, report, nil
}

// IsMissing reports whether a trimmed value is the extract's missing-value sentinel
func IsMissing(value string) bool {
	return strings.TrimSpace(value) == domain.MissingValue
}

func trimStage(rows []*cleanRow, _ *domain.CleanReport) ([]*cleanRow, error) {
	for _, r := range rows {
		raw := &r.raw
		raw.ID = strings.TrimSpace(raw.ID)
		raw.DeliveryPersonID = strings.TrimSpace(raw.DeliveryPersonID)
		raw.RoadTrafficDensity = strings.TrimSpace(raw.RoadTrafficDensity)
		raw.TypeOfOrder = strings.TrimSpace(raw.TypeOfOrder)
		raw.TypeOfVehicle = strings.TrimSpace(raw.TypeOfVehicle)
		raw.City = strings.TrimSpace(raw.City)
		raw.Weatherconditions = strings.TrimSpace(raw.Weatherconditions)
		raw.Festival = strings.TrimSpace(raw.Festival)

		r.rec.ID = raw.ID
		r.rec.DeliveryPersonID = raw.DeliveryPersonID
		r.rec.Traffic = raw.RoadTrafficDensity
		r.rec.OrderType = raw.TypeOfOrder
		r.rec.VehicleType = raw.TypeOfVehicle
		r.rec.City = raw.City
		r.rec.Weather = raw.Weatherconditions
		r.rec.Festival = raw.Festival
	}
	return rows, nil
}

func dropSentinelsStage(rows []*cleanRow, report *domain.CleanReport) ([]*cleanRow, error) {
	kept := rows[:0:0]
	for _, r := range rows {
		switch {
		case IsMissing(r.raw.DeliveryPersonAge):
			report.Dropped[DropMissingAge]++
		case r.raw.Weatherconditions == domain.MissingWeather:
			report.Dropped[DropMissingWeather]++
		case r.raw.City == domain.MissingValue:
			report.Dropped[DropMissingCity]++
		case r.raw.RoadTrafficDensity == domain.MissingValue:
			report.Dropped[DropMissingTraffic]++
		default:
			kept = append(kept, r)
		}
	}
	return kept, nil
}

func dropMissingMultipleDeliveriesStage(rows []*cleanRow, report *domain.CleanReport) ([]*cleanRow, error) {
	kept := rows[:0:0]
	for _, r := range rows {
		if IsMissing(r.raw.MultipleDeliveries) {
			report.Dropped[DropMissingMultipleDeliveries]++
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// convertStage applies convert to every row and stops at the first failure
func convertStage(field string, convert func(*cleanRow) (string, error)) cleanStage {
	return func(rows []*cleanRow, _ *domain.CleanReport) ([]*cleanRow, error) {
		for _, r := range rows {
			if value, err := convert(r); err != nil {
				return nil, &CleanError{Line: r.raw.Line, Field: field, Value: value, Err: err}
			}
		}
		return rows, nil
	}
}

func floatField(field func(*cleanRow) (string, *float64)) func(*cleanRow) (string, error) {
	return func(r *cleanRow) (string, error) {
		text, dst := field(r)
		v, err := parseFloat(text)
		*dst = v
		return text, err
	}
}

func enrichStage(rows []*cleanRow, _ *domain.CleanReport) ([]*cleanRow, error) {
	for _, r := range rows {
		r.rec.DistanceKm = HaversineKm(r.rec.RestaurantLat, r.rec.RestaurantLon, r.rec.DeliveryLat, r.rec.DeliveryLon)
	}
	return rows, nil
}

// parseFloat accepts finite decimal numbers only. strconv also reads "NaN" and
// "Inf", which would turn every mean of the group into NaN.
func parseFloat(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}
