package report

import (
	"testing"
	"time"

	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriod(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, loc)

	tests := []struct {
		name     string
		kind     RangeKind
		start    string
		end      string
		wantFrom time.Time
		wantTo   time.Time
		label    string
	}{
		{"today", RangeToday, "", "", time.Date(2026, 3, 15, 0, 0, 0, 0, loc), now, "hom-nay"},
		{"week", RangeWeek, "", "", now.AddDate(0, 0, -7), now, "tuan-nay"},
		{"month", RangeMonth, "", "", time.Date(2026, 3, 1, 0, 0, 0, 0, loc), now, "thang-nay"},
		{"default", "", "", "", time.Date(2026, 3, 1, 0, 0, 0, 0, loc), now, "thang-nay"},
		{"year", RangeYear, "", "", time.Date(2026, 1, 1, 0, 0, 0, 0, loc), now, "nam-nay"},
		{"custom", RangeCustom, "2026-02-01", "2026-02-28", time.Date(2026, 2, 1, 0, 0, 0, 0, loc), time.Date(2026, 3, 1, 0, 0, 0, 0, loc), "2026-02-01_2026-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePeriod(tt.kind, tt.start, tt.end, now, loc)
			require.NoError(t, err)
			assert.True(t, p.From.Equal(tt.wantFrom), p.From)
			assert.True(t, p.To.Equal(tt.wantTo), p.To)
			assert.Equal(t, tt.label, p.Label)
		})
	}

	_, err := ResolvePeriod(RangeCustom, "2026-02-10", "2026-02-01", now, loc)
	assert.Error(t, err)
	_, err = ResolvePeriod(RangeCustom, "bad", "2026-02-01", now, loc)
	assert.Error(t, err)
	_, err = ResolvePeriod("decade", "", "", now, loc)
	assert.Error(t, err)
}

func TestPeriodFileName(t *testing.T) {
	assert.Equal(t, "bao-cao-thang-nay.xlsx", Period{Label: "thang-nay"}.FileName())
}

func TestOverviewFinalize(t *testing.T) {
	o := Overview{
		TotalRevenue: valueobject.VNDFromInt(1000000),
		PaidOrders:   3,
		TotalOrders:  5,
		ActiveUsers:  3,
	}
	o.Finalize()
	assert.True(t, o.AverageOrderValue.Amount().Equal(decimal.RequireFromString("333333.33")))
	assert.True(t, o.ConversionRate.Equal(decimal.RequireFromString("166.67")))

	empty := Overview{}
	empty.Finalize()
	assert.True(t, empty.AverageOrderValue.IsZero())
	assert.True(t, empty.ConversionRate.IsZero())
}
