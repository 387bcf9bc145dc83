package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/clpir/event"
)

func newEvent(t *testing.T, message string, ts int64, index uint64) *event.LogEvent {
	t.Helper()

	m, err := event.NewMetadata(0, "", "America/Chicago")
	require.NoError(t, err)

	return event.NewLogEvent(message, ts, index, m)
}

func TestNew_Defaults(t *testing.T) {
	q, err := New()
	require.NoError(t, err)

	require.Equal(t, int64(math.MinInt64), q.LowerBound())
	require.Equal(t, int64(math.MaxInt64), q.UpperBound())
	require.Equal(t, DefaultTerminationMargin, q.TerminationMargin())
	require.Empty(t, q.Wildcards())
	require.Empty(t, q.Expression())

	require.True(t, q.Matches(newEvent(t, "anything", math.MinInt64, 0)))
	require.True(t, q.Matches(newEvent(t, "", math.MaxInt64, 0)))
	require.False(t, q.TerminatesAt(math.MaxInt64))
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"inverted range", []Option{WithTimeRange(10, 5)}},
		{"inverted bounds", []Option{WithLowerBound(10), WithUpperBound(9)}},
		{"negative margin", []Option{WithTerminationMargin(-1)}},
		{"empty expression", []Option{WithExpression("  ")}},
		{"invalid expression", []Option{WithExpression("message ==")}},
		{"non bool expression", []Option{WithExpression("timestamp + 1")}},
		{"unknown variable", []Option{WithExpression("level == 'INFO'")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New(tt.opts...)
			require.Error(t, err)
			require.Nil(t, q)
		})
	}
}

func TestQuery_TimeRange(t *testing.T) {
	q, err := New(WithTimeRange(100, 200))
	require.NoError(t, err)

	tests := []struct {
		ts   int64
		want bool
	}{
		{99, false},
		{100, true},
		{150, true},
		{200, true},
		{201, false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, q.MatchesTimeRange(tt.ts), "ts=%d", tt.ts)
		require.Equal(t, tt.want, q.Matches(newEvent(t, "msg", tt.ts, 0)), "ts=%d", tt.ts)
	}
}

func TestQuery_TerminatesAt(t *testing.T) {
	t.Run("default margin", func(t *testing.T) {
		q, err := New(WithUpperBound(1000))
		require.NoError(t, err)

		require.False(t, q.TerminatesAt(1000))
		require.False(t, q.TerminatesAt(61000))
		require.True(t, q.TerminatesAt(61001))
	})

	t.Run("zero margin", func(t *testing.T) {
		q, err := New(WithUpperBound(1000), WithTerminationMargin(0))
		require.NoError(t, err)

		require.False(t, q.TerminatesAt(1000))
		require.True(t, q.TerminatesAt(1001))
	})

	t.Run("upper bound near max does not overflow", func(t *testing.T) {
		q, err := New(WithUpperBound(math.MaxInt64 - 10))
		require.NoError(t, err)
		require.False(t, q.TerminatesAt(math.MaxInt64))
	})

	t.Run("lower bound only never terminates", func(t *testing.T) {
		q, err := New(WithLowerBound(0))
		require.NoError(t, err)
		require.False(t, q.TerminatesAt(math.MaxInt64))
	})
}

func TestQuery_Wildcards(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		message string
		want    bool
	}{
		{"full match", []Option{WithWildcard("*ERROR*", true)}, "an ERROR here\n", true},
		{"not a substring match", []Option{WithWildcard("ERROR", true)}, "an ERROR here", false},
		{"case sensitive miss", []Option{WithWildcard("*error*", true)}, "an ERROR here", false},
		{"case insensitive hit", []Option{WithWildcard("*error*", false)}, "an ERROR here", true},
		{"single char", []Option{WithWildcard("user?", true)}, "user1", true},
		{"single char needs one", []Option{WithWildcard("user?", true)}, "user", false},
		{"escaped star", []Option{WithWildcard(`a\*b`, true)}, "a*b", true},
		{"escaped star is literal", []Option{WithWildcard(`a\*b`, true)}, "axxb", false},
		{"any of", []Option{WithWildcard("*foo*", true), WithWildcard("*bar*", true)}, "xbarx", true},
		{"none of", []Option{WithWildcard("*foo*", true), WithWildcard("*bar*", true)}, "baz", false},
		{"substring", []Option{WithSubstring("disk full", true)}, "error: disk full!\n", true},
		{"substring with metachars", []Option{WithSubstring("50%*?", true)}, "at 50%*? done", true},
		{"substring metachars literal", []Option{WithSubstring("a*b", true)}, "a and b", false},
		{"substring case insensitive", []Option{WithSubstring("Disk", false)}, "DISK ok", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New(tt.opts...)
			require.NoError(t, err)
			require.Equal(t, tt.want, q.MatchesMessage(tt.message))
			require.Equal(t, tt.want, q.Matches(newEvent(t, tt.message, 0, 0)))
		})
	}
}

func TestQuery_Expression(t *testing.T) {
	q, err := New(WithExpression(`index % 2 == 0 && message contains "ERROR"`))
	require.NoError(t, err)
	require.Equal(t, `index % 2 == 0 && message contains "ERROR"`, q.Expression())

	require.True(t, q.Matches(newEvent(t, "ERROR x", 0, 4)))
	require.False(t, q.Matches(newEvent(t, "ERROR x", 0, 3)))
	require.False(t, q.Matches(newEvent(t, "INFO x", 0, 4)))

	t.Run("timestamp and timezone", func(t *testing.T) {
		q, err := New(WithExpression(`timestamp > 1000 && timezone == "America/Chicago"`))
		require.NoError(t, err)
		require.True(t, q.Matches(newEvent(t, "m", 1001, 0)))
		require.False(t, q.Matches(newEvent(t, "m", 1000, 0)))
	})

	t.Run("combined with range and wildcard", func(t *testing.T) {
		q, err := New(
			WithTimeRange(10, 20),
			WithWildcard("*disk*", false),
			WithExpression(`index < 5`),
		)
		require.NoError(t, err)
		require.True(t, q.Matches(newEvent(t, "Disk", 15, 1)))
		require.False(t, q.Matches(newEvent(t, "Disk", 25, 1)))
		require.False(t, q.Matches(newEvent(t, "cpu", 15, 1)))
		require.False(t, q.Matches(newEvent(t, "Disk", 15, 9)))
	})
}

func TestQuery_MatchesIsRepeatable(t *testing.T) {
	q, err := New(WithTimeRange(0, 10), WithSubstring("x", true), WithExpression(`index == 1`))
	require.NoError(t, err)

	e := newEvent(t, "x", 5, 1)
	for range 5 {
		require.True(t, q.Matches(e))
	}
}

func TestQuery_WildcardsReturnsCopy(t *testing.T) {
	q, err := New(WithWildcard("a*", true))
	require.NoError(t, err)

	ws := q.Wildcards()
	ws[0].Pattern = "changed"
	require.Equal(t, "a*", q.Wildcards()[0].Pattern)
}

func TestEscapeWildcard(t *testing.T) {
	require.Equal(t, `a\*b\?c\\d`, EscapeWildcard(`a*b?c\d`))
	require.Equal(t, "plain", EscapeWildcard("plain"))
}

func TestQuery_String(t *testing.T) {
	q, err := New(WithTimeRange(1, 2), WithWildcard("*x*", false), WithExpression("index > 0"))
	require.NoError(t, err)

	s := q.String()
	require.Contains(t, s, "lower=1, upper=2")
	require.Contains(t, s, `wildcard="*x*" (case_sensitive=false)`)
	require.Contains(t, s, `expr="index > 0"`)
}
