package dataprocessing

import (
	"time"

	"deliverypulse/pkg/contracts/domain"
)

// rawRow returns a well-formed raw record; override fields with the mutate callback
func rawRow(line int, mutate func(*domain.RawRecord)) domain.RawRecord {
	r := domain.RawRecord{
		Line:                      line,
		ID:                        "0x4607 ",
		DeliveryPersonID:          "INDORES13DEL02 ",
		DeliveryPersonAge:         "37",
		DeliveryPersonRatings:     "4.9",
		RestaurantLatitude:        "22.745049",
		RestaurantLongitude:       "75.892471",
		DeliveryLocationLatitude:  "22.765049",
		DeliveryLocationLongitude: "75.912471",
		OrderDate:                 "19-03-2022",
		Weatherconditions:         "conditions Sunny",
		RoadTrafficDensity:        "High ",
		VehicleCondition:          "2",
		TypeOfOrder:               "Snack ",
		TypeOfVehicle:             "motorcycle ",
		MultipleDeliveries:        "0",
		Festival:                  "No ",
		City:                      "Urban ",
		TimeTaken:                 "(min) 24",
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func date(day, month int) time.Time {
	return time.Date(2022, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// rec builds a cleaned record with the fields aggregations look at
func rec(agent, city, traffic string, minutes float64) domain.Record {
	return domain.Record{
		ID:               agent + city + traffic,
		DeliveryPersonID: agent,
		City:             city,
		Traffic:          traffic,
		TimeTakenMin:     minutes,
		OrderDate:        date(13, 2),
		Festival:         domain.FestivalNo,
		Weather:          "conditions Sunny",
		OrderType:        "Snack",
	}
}

func with(r domain.Record, mutate func(*domain.Record)) domain.Record {
	mutate(&r)
	return r
}
