package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"deliverypulse/pkg/contracts/domain"
)

func TestFilter_IntersectionLaw(t *testing.T) {
	maxDate := date(1, 3)
	both := with(rec("A", domain.CityUrban, domain.TrafficJam, 20), func(r *domain.Record) { r.OrderDate = date(28, 2) })
	dateOnly := with(rec("B", domain.CityUrban, domain.TrafficLow, 20), func(r *domain.Record) { r.OrderDate = date(27, 2) })
	trafficOnly := with(rec("C", domain.CityUrban, domain.TrafficJam, 20), func(r *domain.Record) { r.OrderDate = date(1, 3) })
	neither := with(rec("D", domain.CityUrban, domain.TrafficLow, 20), func(r *domain.Record) { r.OrderDate = date(5, 3) })
	records := []domain.Record{both, dateOnly, trafficOnly, neither}

	got := Filter(records, domain.FilterOptions{MaxDate: maxDate, Traffic: []string{domain.TrafficJam}})
	assert.Equal(t, []domain.Record{both}, got)

	var want []domain.Record
	for _, r := range records {
		if r.OrderDate.Before(maxDate) && r.Traffic == domain.TrafficJam {
			want = append(want, r)
		}
	}
	assert.Equal(t, want, got)
}

func TestFilter_Defaults(t *testing.T) {
	records := []domain.Record{
		rec("A", domain.CityUrban, domain.TrafficJam, 20),
		rec("B", domain.CityUrban, domain.TrafficLow, 20),
	}

	assert.Equal(t, records, Filter(records, domain.FilterOptions{}))
	assert.Equal(t, records, Filter(records, DefaultFilterOptions()))
}

func TestFilter_EmptyTrafficSet(t *testing.T) {
	records := []domain.Record{
		rec("A", domain.CityUrban, domain.TrafficJam, 20),
		rec("B", domain.CityUrban, domain.TrafficLow, 20),
	}

	got := Filter(records, domain.FilterOptions{Traffic: []string{}})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = Filter(records, domain.FilterOptions{MaxDate: date(1, 12), Traffic: []string{}})
	assert.Empty(t, got)
}

func TestFilter_ExclusiveUpperBound(t *testing.T) {
	r := rec("A", domain.CityUrban, domain.TrafficJam, 20)
	assert.Empty(t, Filter([]domain.Record{r}, domain.FilterOptions{MaxDate: r.OrderDate}))
	assert.Len(t, Filter([]domain.Record{r}, domain.FilterOptions{MaxDate: r.OrderDate.Add(24 * time.Hour)}), 1)
}

func TestFilter_DoesNotMutate(t *testing.T) {
	records := []domain.Record{
		rec("A", domain.CityUrban, domain.TrafficLow, 20),
		rec("B", domain.CityUrban, domain.TrafficJam, 20),
	}
	original := append([]domain.Record(nil), records...)

	got := Filter(records, domain.FilterOptions{Traffic: []string{domain.TrafficJam}})
	got[0].City = "changed"
	assert.Equal(t, original, records)
}

func TestDateBounds(t *testing.T) {
	lo, hi := DateBounds(nil)
	assert.True(t, lo.IsZero())
	assert.True(t, hi.IsZero())

	records := []domain.Record{
		with(rec("A", domain.CityUrban, domain.TrafficLow, 1), func(r *domain.Record) { r.OrderDate = date(4, 6) }),
		with(rec("B", domain.CityUrban, domain.TrafficLow, 1), func(r *domain.Record) { r.OrderDate = date(11, 2) }),
		with(rec("C", domain.CityUrban, domain.TrafficLow, 1), func(r *domain.Record) { r.OrderDate = date(1, 4) }),
	}
	bounds := Bounds(records)
	assert.Equal(t, date(11, 2), bounds.MinDate)
	assert.Equal(t, date(4, 6), bounds.MaxDate)
	assert.Equal(t, domain.AllTrafficDensities, bounds.Traffic)
}
