package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"deliverypulse/pkg/contracts/domain"
)

// Source column names of the extract
const (
	ColID                 = "ID"
	ColDeliveryPersonID   = "Delivery_person_ID"
	ColDeliveryPersonAge  = "Delivery_person_Age"
	ColDeliveryPersonRate = "Delivery_person_Ratings"
	ColRestaurantLat      = "Restaurant_latitude"
	ColRestaurantLon      = "Restaurant_longitude"
	ColDeliveryLat        = "Delivery_location_latitude"
	ColDeliveryLon        = "Delivery_location_longitude"
	ColOrderDate          = "Order_Date"
	ColWeather            = "Weatherconditions"
	ColTraffic            = "Road_traffic_density"
	ColVehicleCondition   = "Vehicle_condition"
	ColOrderType          = "Type_of_order"
	ColVehicleType        = "Type_of_vehicle"
	ColMultipleDeliveries = "multiple_deliveries"
	ColFestival           = "Festival"
	ColCity               = "City"
	ColTimeTaken          = "Time_taken(min)"
)

// RequiredColumns lists every column the cleaner reads
var RequiredColumns = []string{
	ColID, ColDeliveryPersonID, ColDeliveryPersonAge, ColDeliveryPersonRate,
	ColRestaurantLat, ColRestaurantLon, ColDeliveryLat, ColDeliveryLon,
	ColOrderDate, ColWeather, ColTraffic, ColVehicleCondition, ColOrderType,
	ColVehicleType, ColMultipleDeliveries, ColFestival, ColCity, ColTimeTaken,
}

// ParseFile reads a delivery extract. The format is chosen by extension: .csv or .xlsx.
func ParseFile(filePath string) ([]domain.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		f, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		return ParseCSV(f)
	case ".xlsx":
		return ParseXLSX(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filePath))
	}
}

// ParseCSV reads a comma separated extract with a header row
func ParseCSV(r io.Reader) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	var lines []int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
	return parseRows(rows, lines)
}

// ParseXLSX reads the first sheet of a workbook that carries the extract header
func ParseXLSX(filePath string) ([]domain.RawRecord, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if _, err := mapColumns(rows[0]); err == nil {
			return parseRows(rows, nil)
		}
	}
	return nil, fmt.Errorf("could not find delivery data sheet in file: %w", ErrMissingColumn)
}

// parseRows maps data rows onto RawRecords. lines holds the source line of each row;
// when nil the row position is used.
func parseRows(rows [][]string, lines []int) ([]domain.RawRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file has no header", ErrMissingColumn)
	}

	columnMap, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		line := i + 2
		if lines != nil {
			line = lines[i+1]
		}
		cell := func(name string) string {
			idx := columnMap[name]
			if idx >= len(row) {
				return ""
			}
			return row[idx]
		}
		records = append(records, domain.RawRecord{
			Line:                      line,
			ID:                        cell(ColID),
			DeliveryPersonID:          cell(ColDeliveryPersonID),
			DeliveryPersonAge:         cell(ColDeliveryPersonAge),
			DeliveryPersonRatings:     cell(ColDeliveryPersonRate),
			RestaurantLatitude:        cell(ColRestaurantLat),
			RestaurantLongitude:       cell(ColRestaurantLon),
			DeliveryLocationLatitude:  cell(ColDeliveryLat),
			DeliveryLocationLongitude: cell(ColDeliveryLon),
			OrderDate:                 cell(ColOrderDate),
			Weatherconditions:         cell(ColWeather),
			RoadTrafficDensity:        cell(ColTraffic),
			VehicleCondition:          cell(ColVehicleCondition),
			TypeOfOrder:               cell(ColOrderType),
			TypeOfVehicle:             cell(ColVehicleType),
			MultipleDeliveries:        cell(ColMultipleDeliveries),
			Festival:                  cell(ColFestival),
			City:                      cell(ColCity),
			TimeTaken:                 cell(ColTimeTaken),
		})
	}
	return records, nil
}

// mapColumns maps header names to positions. Header cells are matched after trimming
// and a leading UTF-8 BOM is ignored.
func mapColumns(header []string) (map[string]int, error) {
	columnMap := make(map[string]int, len(header))
	for j, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := columnMap[name]; !seen {
			columnMap[name] = j
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := columnMap[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return columnMap, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
