package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/clpir/errs"
)

func chicagoMetadata(t *testing.T) *Metadata {
	t.Helper()

	m, err := NewMetadata(2005689603190, "yy/MM/dd HH:mm:ss", "America/Chicago")
	require.NoError(t, err)

	return m
}

func TestLogEvent_Accessors(t *testing.T) {
	m := chicagoMetadata(t)
	e := NewLogEvent(" hello", 2005689603190, 3, m)

	require.Equal(t, " hello", e.Message())
	require.Equal(t, int64(2005689603190), e.Timestamp())
	require.Equal(t, uint64(3), e.Index())
	require.Same(t, m, e.Metadata())
	require.Equal(t, m.Timezone(), e.Timezone())
	require.Equal(t, int64(2005689603190), e.Time().UnixMilli())
}

func TestLogEvent_Formatting(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	t.Run("metadata timezone", func(t *testing.T) {
		e := NewLogEvent(" hello", 2005689603190, 0, chicagoMetadata(t))
		require.Equal(t, "2033-07-22 19:00:03.190-05:00", e.FormattedTimestamp(nil))
		require.Equal(t, "2033-07-22 19:00:03.190-05:00 hello", e.FormattedMessage(nil))
		require.Equal(t, e.FormattedMessage(nil), e.String())
	})

	t.Run("explicit timezone wins", func(t *testing.T) {
		e := NewLogEvent(" hello", 2005689603190, 0, chicagoMetadata(t))
		require.Equal(t, "2033-07-22 20:00:03.190-04:00 hello", e.FormattedMessage(newYork))
		require.Equal(t, "2033-07-23 00:00:03.190+00:00 hello", e.FormattedMessage(time.UTC))
	})

	t.Run("utc without metadata", func(t *testing.T) {
		e := NewLogEvent(" hello", 2005689603190, 0, nil)
		require.Nil(t, e.Metadata())
		require.Equal(t, time.UTC, e.Timezone())
		require.Equal(t, "2033-07-23 00:00:03.190+00:00", e.FormattedTimestamp(nil))
	})

	t.Run("half hour offset", func(t *testing.T) {
		m, err := NewMetadata(0, "", "Australia/Adelaide")
		require.NoError(t, err)
		e := NewLogEvent("x", 1700000000123, 0, m)
		require.Equal(t, "2023-11-15 08:43:20.123+10:30", e.FormattedTimestamp(nil))
	})

	t.Run("offset with seconds", func(t *testing.T) {
		e := NewLogEvent("x", -3000000000000, 0, nil)
		require.Equal(t, "1874-12-07 13:43:58.000-04:56:02", e.FormattedTimestamp(newYork))
	})
}

func TestLogEvent_JSON(t *testing.T) {
	original := NewLogEvent(" hello\n", 2005689603190, 7, chicagoMetadata(t))

	data, err := json.Marshal(original)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"message":" hello\n","timestamp":2005689603190,"index":7,"timezone":"America/Chicago"}`,
		string(data))

	var restored LogEvent
	require.NoError(t, json.Unmarshal(data, &restored))

	require.Nil(t, restored.Metadata())
	require.Equal(t, original.Message(), restored.Message())
	require.Equal(t, original.Timestamp(), restored.Timestamp())
	require.Equal(t, original.Index(), restored.Index())
	require.Equal(t, original.FormattedMessage(nil), restored.FormattedMessage(nil))
	require.Equal(t, original.String(), restored.String())
}

func TestLogEvent_JSON_UTC(t *testing.T) {
	original := NewLogEvent("msg", 1000, 0, nil)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored LogEvent
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, time.UTC, restored.Timezone())
	require.Equal(t, "1970-01-01 00:00:01.000+00:00msg", restored.String())
}

func TestLogEvent_JSON_UnknownTimezone(t *testing.T) {
	var e LogEvent
	err := json.Unmarshal([]byte(`{"message":"m","timestamp":1,"index":0,"timezone":"Nowhere/Town"}`), &e)
	require.ErrorIs(t, err, errs.ErrUnresolvedTimezone)
}
