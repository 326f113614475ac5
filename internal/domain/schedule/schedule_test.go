package schedule

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "10:00", want: 600},
		{in: "07:30:00", want: 450},
		{in: " 23:59 ", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "10", wantErr: true},
		{in: "ten:00", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedule_TimeSlot(t *testing.T) {
	s := &Schedule{StartTime: "07:30:00", EndTime: "09:00"}
	assert.Equal(t, "07:30 - 09:00", s.TimeSlot())
}

func TestSchedule_NotifiedOn(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	today := time.Date(2026, 10, 19, 10, 3, 0, 0, wib)

	s := &Schedule{}
	assert.False(t, s.NotifiedOn(today))

	// DATE columns come back as UTC midnight.
	s.LastNotifiedDate = sql.NullTime{Time: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), Valid: true}
	assert.True(t, s.NotifiedOn(today))

	s.LastNotifiedDate.Time = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	assert.False(t, s.NotifiedOn(today))
}

func TestSchedule_EndMinute(t *testing.T) {
	s := &Schedule{EndTime: "10:00:00"}
	m, err := s.EndMinute()
	require.NoError(t, err)
	assert.Equal(t, 600, m)
}

func TestTeachingAssignment_ClassName(t *testing.T) {
	assert.Equal(t, "X RPL 1", (&TeachingAssignment{LevelName: "X", MajorName: "RPL", RombelName: "1"}).ClassName())
	assert.Equal(t, "XII 2", (&TeachingAssignment{LevelName: "XII", RombelName: " 2 "}).ClassName())
	assert.Equal(t, "", (&TeachingAssignment{}).ClassName())
}

func TestDayOf(t *testing.T) {
	assert.Equal(t, DaySenin, DayOf(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, DayJumat, DayOf(time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, DayMinggu, DayOf(time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay(" Kamis ")
	require.NoError(t, err)
	assert.Equal(t, DayKamis, d)

	_, err = ParseDay("thursday")
	assert.Error(t, err)
}
