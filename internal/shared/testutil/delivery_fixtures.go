package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"deliverypulse/pkg/contracts/domain"
)

// ExtractHeader is the header row of a delivery extract
const ExtractHeader = "ID,Delivery_person_ID,Delivery_person_Age,Delivery_person_Ratings," +
	"Restaurant_latitude,Restaurant_longitude,Delivery_location_latitude,Delivery_location_longitude," +
	"Order_Date,Weatherconditions,Road_traffic_density,Vehicle_condition,Type_of_order," +
	"Type_of_vehicle,multiple_deliveries,Festival,City,Time_taken(min)"

// SampleExtractRows returns a small extract covering every city, every traffic category,
// both festival flags and one row dropped for a missing age
func SampleExtractRows() []string {
	return []string{
		"0x4607 ,INDORES13DEL02 ,37,4.9,22.745049,75.892471,22.765049,75.912471,19-03-2022,conditions Sunny,High ,2,Snack ,motorcycle ,0,No ,Urban ,(min) 24",
		"0xb379 ,BANGRES18DEL02 ,34,4.5,12.913041,77.683237,13.043041,77.813237,25-03-2022,conditions Stormy,Jam ,2,Snack ,scooter ,1,No ,Metropolitian ,(min) 33",
		"0x5d6d ,BANGRES19DEL01 ,23,4.4,12.914264,77.6784,12.924264,77.6884,19-03-2022,conditions Sandstorms,Low ,0,Drinks ,motorcycle ,1,No ,Urban ,(min) 26",
		"0x7a6a ,COIMBRES13DEL02 ,38,4.7,11.003669,76.976494,11.053669,77.026494,05-04-2022,conditions Sunny,Medium ,0,Buffet ,motorcycle ,1,No ,Metropolitian ,(min) 21",
		"0x70a2 ,CHENRES12DEL01 ,32,4.6,12.972793,80.249982,13.012793,80.289982,26-03-2022,conditions Cloudy,High ,1,Snack ,scooter ,1,Yes ,Metropolitian ,(min) 30",
		"0x9bb4 ,HYDRES09DEL03 ,22,4.8,17.431668,78.408321,17.461668,78.438321,11-03-2022,conditions Windy,Jam ,1,Meal ,motorcycle ,1,Yes ,Semi-Urban ,(min) 40",
		"0x95b4 ,RANCHIRES15DEL01 ,NaN ,4.7,23.369746,85.33982,23.479746,85.44982,13-02-2022,conditions Fog,Jam ,2,Meal ,scooter ,1,No ,Metropolitian ,(min) 41",
	}
}

// WriteExtract writes a CSV extract with the given data rows into a temp dir and returns its path
func WriteExtract(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "train.csv")
	content := ExtractHeader + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write extract: %v", err)
	}
	return path
}

// Date returns UTC midnight of the given calendar day
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// SampleRecords returns cleaned records for transport and service tests
func SampleRecords() []domain.Record {
	return []domain.Record{
		{ID: "1", DeliveryPersonID: "A", Age: 30, Rating: 4.5, City: domain.CityUrban, Traffic: domain.TrafficJam,
			Weather: "conditions Sunny", Festival: domain.FestivalNo, OrderType: "Snack", VehicleCondition: 1,
			OrderDate: Date(2022, 2, 13), TimeTakenMin: 20, DistanceKm: 3},
		{ID: "2", DeliveryPersonID: "B", Age: 25, Rating: 4.9, City: domain.CityMetropolitan, Traffic: domain.TrafficLow,
			Weather: "conditions Fog", Festival: domain.FestivalYes, OrderType: "Meal", VehicleCondition: 2,
			OrderDate: Date(2022, 3, 1), TimeTakenMin: 35, DistanceKm: 7},
	}
}
