// Package query filters decoded log events by timestamp range, wildcard
// patterns and an optional boolean expression.
//
// A Query is immutable once built by New and safe for concurrent use. The
// decoder evaluates the cheap timestamp checks (MatchesTimeRange, TerminatesAt)
// before a record's message text is expanded, and only calls Matches on records
// whose timestamp is in range.
package query

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/tidwall/match"

	"github.com/arloliu/clpir/event"
	"github.com/arloliu/clpir/internal/options"
)

// DefaultTerminationMargin is how far past the upper bound, in milliseconds, a
// search keeps scanning before it stops. Log appenders may write records
// slightly out of timestamp order.
const DefaultTerminationMargin int64 = 60 * 1000

// Option configures a Query.
type Option = options.Option[*Query]

// WildcardQuery is a pattern that must match an entire message.
//
// '*' matches any run of characters, '?' matches one character and '\' escapes
// the next character.
type WildcardQuery struct {
	Pattern       string
	CaseSensitive bool
}

// Matches reports whether message matches the pattern.
func (w WildcardQuery) Matches(message string) bool {
	if w.CaseSensitive {
		return match.Match(message, w.Pattern)
	}

	return match.Match(strings.ToLower(message), strings.ToLower(w.Pattern))
}

// Env is the environment an expression condition is evaluated against.
type Env struct {
	Message   string `expr:"message"`
	Timestamp int64  `expr:"timestamp"`
	Index     uint64 `expr:"index"`
	Timezone  string `expr:"timezone"`
}

var envPool = sync.Pool{
	New: func() any { return &Env{} },
}

// Query is an immutable predicate over log events.
type Query struct {
	lower      int64
	upper      int64
	margin     int64
	wildcards  []WildcardQuery
	exprSource string
	program    *vm.Program
}

// New builds a Query. Without options the query matches every event.
func New(opts ...Option) (*Query, error) {
	q := &Query{
		lower:  math.MinInt64,
		upper:  math.MaxInt64,
		margin: DefaultTerminationMargin,
	}

	if err := options.Apply(q, opts...); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return q, nil
}

// Validate checks that the time range is not empty.
func (q *Query) Validate() error {
	if q.lower > q.upper {
		return fmt.Errorf("lower bound %d is after upper bound %d", q.lower, q.upper)
	}

	return nil
}

// WithTimeRange restricts matches to timestamps in [lower, upper], inclusive.
func WithTimeRange(lower, upper int64) Option {
	return options.NoError(func(q *Query) {
		q.lower = lower
		q.upper = upper
	})
}

// WithLowerBound restricts matches to timestamps >= lower.
func WithLowerBound(lower int64) Option {
	return options.NoError(func(q *Query) {
		q.lower = lower
	})
}

// WithUpperBound restricts matches to timestamps <= upper.
func WithUpperBound(upper int64) Option {
	return options.NoError(func(q *Query) {
		q.upper = upper
	})
}

// WithTerminationMargin sets how many milliseconds past the upper bound a search
// keeps scanning. Zero stops at the first record after the upper bound.
func WithTerminationMargin(margin int64) Option {
	return options.Named("WithTerminationMargin", func(q *Query) error {
		if margin < 0 {
			return fmt.Errorf("margin must not be negative: %d", margin)
		}
		q.margin = margin

		return nil
	})
}

// WithWildcard adds a wildcard pattern. A message matches when it matches any
// of the query's patterns.
func WithWildcard(pattern string, caseSensitive bool) Option {
	return options.NoError(func(q *Query) {
		q.wildcards = append(q.wildcards, WildcardQuery{Pattern: pattern, CaseSensitive: caseSensitive})
	})
}

// WithSubstring adds a pattern matching messages that contain text literally.
func WithSubstring(text string, caseSensitive bool) Option {
	return WithWildcard("*"+EscapeWildcard(text)+"*", caseSensitive)
}

// WithExpression adds a boolean condition in the expr language, evaluated
// against Env, e.g. `index % 2 == 0 && message contains "ERROR"`.
func WithExpression(source string) Option {
	return options.Named("WithExpression", func(q *Query) error {
		if strings.TrimSpace(source) == "" {
			return errors.New("empty expression")
		}

		program, err := expr.Compile(source, expr.Env(&Env{}), expr.AsBool())
		if err != nil {
			return err
		}
		q.exprSource = source
		q.program = program

		return nil
	})
}

// EscapeWildcard escapes the wildcard metacharacters in text.
func EscapeWildcard(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch r {
		case '*', '?', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}

	return sb.String()
}

// LowerBound returns the inclusive lower bound, math.MinInt64 when unbounded.
func (q *Query) LowerBound() int64 { return q.lower }

// UpperBound returns the inclusive upper bound, math.MaxInt64 when unbounded.
func (q *Query) UpperBound() int64 { return q.upper }

// TerminationMargin returns the termination margin in milliseconds.
func (q *Query) TerminationMargin() int64 { return q.margin }

// Wildcards returns a copy of the wildcard patterns.
func (q *Query) Wildcards() []WildcardQuery {
	out := make([]WildcardQuery, len(q.wildcards))
	copy(out, q.wildcards)

	return out
}

// Expression returns the expression source, or "" if there is none.
func (q *Query) Expression() string { return q.exprSource }

// MatchesTimeRange reports whether ts lies in the query's time range.
func (q *Query) MatchesTimeRange(ts int64) bool {
	return ts >= q.lower && ts <= q.upper
}

// TerminatesAt reports whether a search can stop once it decodes a record
// with timestamp ts: ts is past the upper bound by more than the margin.
func (q *Query) TerminatesAt(ts int64) bool {
	if q.upper > math.MaxInt64-q.margin {
		return false
	}

	return ts > q.upper+q.margin
}

// MatchesMessage reports whether message satisfies the wildcard patterns.
func (q *Query) MatchesMessage(message string) bool {
	if len(q.wildcards) == 0 {
		return true
	}

	for _, w := range q.wildcards {
		if w.Matches(message) {
			return true
		}
	}

	return false
}

// Matches reports whether e satisfies every condition of the query.
//
// An expression that fails at runtime does not match.
func (q *Query) Matches(e *event.LogEvent) bool {
	if !q.MatchesTimeRange(e.Timestamp()) || !q.MatchesMessage(e.Message()) {
		return false
	}
	if q.program == nil {
		return true
	}

	env, _ := envPool.Get().(*Env)
	defer func() {
		*env = Env{}
		envPool.Put(env)
	}()

	env.Message = e.Message()
	env.Timestamp = e.Timestamp()
	env.Index = e.Index()
	env.Timezone = e.Timezone().String()

	output, err := expr.Run(q.program, env)
	if err != nil {
		return false
	}
	matched, ok := output.(bool)

	return ok && matched
}

func (q *Query) String() string {
	var sb strings.Builder
	sb.WriteString("Query(")
	fmt.Fprintf(&sb, "lower=%d, upper=%d, margin=%d", q.lower, q.upper, q.margin)
	for _, w := range q.wildcards {
		fmt.Fprintf(&sb, ", wildcard=%q (case_sensitive=%t)", w.Pattern, w.CaseSensitive)
	}
	if q.exprSource != "" {
		fmt.Fprintf(&sb, ", expr=%q", q.exprSource)
	}
	sb.WriteString(")")

	return sb.String()
}
