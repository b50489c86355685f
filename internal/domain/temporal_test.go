package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_rater/internal/domain"
)

func TestISOFormat(t *testing.T) {
	dt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	withMicros := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	offset := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 2*3600))
	d := domain.Date{Year: 2024, Month: time.March, Day: 1}
	tm := domain.NewTimeOfDay(9, 5, 7)

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"datetime", dt, "2024-03-01T12:00:00"},
		{"datetime pointer", &dt, "2024-03-01T12:00:00"},
		{"datetime micros", withMicros, "2024-03-01T12:00:00.123456"},
		{"datetime offset", offset, "2024-03-01T12:00:00+02:00"},
		{"date", d, "2024-03-01"},
		{"date pointer", &d, "2024-03-01"},
		{"time", tm, "09:05:07"},
		{"time pointer", &tm, "09:05:07"},
		{"time micros", domain.TimeOfDay{Hour: 23, Minute: 59, Second: 59, Nanosecond: 500000000}, "23:59:59.500000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.ISOFormat(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestISOFormat_RejectsNonTemporal(t *testing.T) {
	for _, in := range []any{"2024-03-01", 42, nil, (*domain.TimeOfDay)(nil), (*time.Time)(nil), (*domain.Date)(nil)} {
		_, err := domain.ISOFormat(in)
		require.Error(t, err, "input %#v", in)
		var se *domain.SerializeError
		assert.True(t, errors.As(err, &se))
		assert.ErrorIs(t, err, domain.ErrNotSerializable)
	}
	_, err := domain.ISOFormat("x")
	assert.EqualError(t, err, "type string not serializable")
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := domain.ParseTimeOfDay("09:00:00")
	require.NoError(t, err)
	assert.Equal(t, domain.NewTimeOfDay(9, 0, 0), got)

	got, err = domain.ParseTimeOfDay("21:30")
	require.NoError(t, err)
	assert.Equal(t, domain.NewTimeOfDay(21, 30, 0), got)

	got, err = domain.ParseTimeOfDay("07:15:02.250000")
	require.NoError(t, err)
	assert.Equal(t, domain.TimeOfDay{Hour: 7, Minute: 15, Second: 2, Nanosecond: 250000000}, got)

	_, err = domain.ParseTimeOfDay("noon")
	assert.Error(t, err)
}

func TestTimeOfDay_Scan(t *testing.T) {
	var v domain.TimeOfDay
	require.NoError(t, v.Scan([]byte("22:00:00")))
	assert.Equal(t, "22:00:00", v.String())

	require.NoError(t, v.Scan("08:45:00"))
	assert.Equal(t, domain.NewTimeOfDay(8, 45, 0), v)

	assert.Error(t, v.Scan(nil))
	assert.Error(t, v.Scan(12))

	val, err := domain.NewTimeOfDay(6, 0, 0).Value()
	require.NoError(t, err)
	assert.Equal(t, "06:00:00", val)
}

func TestParseDateTime(t *testing.T) {
	got, err := domain.ParseDateTime("2024-03-01T12:00:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, got.Location())

	got, err = domain.ParseDateTime("2024-03-01T12:00:00+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	_, err = domain.ParseDateTime("yesterday")
	assert.Error(t, err)
}
