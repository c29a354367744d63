package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/owl-K/nebula-carina"
)

// DataType describes one nGQL scalar type: its validation rule and its
// literal rendering. Values of this package are immutable and shared.
type DataType interface {
	// Name returns the nGQL type text used in DDL, e.g. "int16" or "fixed_string(30)".
	Name() string
	// Validate reports whether v can be stored in this type.
	Validate(v any) error
	// Coerce validates v and returns its canonical Go value.
	Coerce(v any) (any, error)
	// Literal renders v as directly embeddable nGQL syntax.
	Literal(v any) (string, error)
	// Parse is the inverse of Literal.
	Parse(lit string) (any, error)
}

// Auto is a default value for temporal fields that is filled in by the
// server when the statement runs, e.g. datetime().
var Auto = AutoValue{}

// AutoValue is the type of Auto.
type AutoValue struct{}

// String implements fmt.Stringer.
func (AutoValue) String() string { return "auto" }

// Temporal patterns. They never depend on the process locale.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05.000000"
	DatetimeLayout = "2006-01-02T15:04:05.000000"
)

// The data type catalog.
var (
	TypeString    DataType = &dataType{name: "string", coerce: coerceString(-1), render: renderString, parse: parseString}
	TypeInt64     DataType = intType(64)
	TypeInt32     DataType = intType(32)
	TypeInt16     DataType = intType(16)
	TypeInt8      DataType = intType(8)
	TypeFloat     DataType = &dataType{name: "float", coerce: coerceFloat32, render: renderFloat(32), parse: parseFloat(32)}
	TypeDouble    DataType = &dataType{name: "double", coerce: coerceFloat64, render: renderFloat(64), parse: parseFloat(64)}
	TypeBool      DataType = &dataType{name: "bool", coerce: coerceBool, render: renderBool, parse: parseBool}
	TypeDate      DataType = &dataType{name: "date", auto: "date()", coerce: coerceDate, render: renderTemporal("date", DateLayout), parse: parseTemporal("date", DateLayout)}
	TypeTime      DataType = &dataType{name: "time", auto: "time()", coerce: coerceTime, render: renderTemporal("time", TimeLayout), parse: parseTemporal("time", TimeLayout)}
	TypeDatetime  DataType = &dataType{name: "datetime", auto: "datetime()", coerce: coerceDatetime, render: renderTemporal("datetime", DatetimeLayout), parse: parseTemporal("datetime", DatetimeLayout)}
	TypeTimestamp DataType = &dataType{name: "timestamp", auto: "timestamp()", coerce: coerceTimestamp, render: renderTimestamp, parse: parseTimestamp}
)

// FixedStringType returns the fixed_string(size) type. Values longer than
// size bytes are rejected.
func FixedStringType(size int) DataType {
	return &dataType{
		name:   fmt.Sprintf("fixed_string(%d)", size),
		coerce: coerceString(size),
		render: renderString,
		parse:  parseString,
	}
}

// LookupType returns the data type with the given nGQL name, as reported
// by DESCRIBE TAG/EDGE.
func LookupType(name string) (DataType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if rest, ok := strings.CutPrefix(name, "fixed_string("); ok {
		size, err := strconv.Atoi(strings.TrimSuffix(rest, ")"))
		if err != nil || !strings.HasSuffix(rest, ")") || size <= 0 {
			return nil, false
		}
		return FixedStringType(size), true
	}
	for _, t := range []DataType{
		TypeString, TypeInt64, TypeInt32, TypeInt16, TypeInt8, TypeFloat,
		TypeDouble, TypeBool, TypeDate, TypeTime, TypeDatetime, TypeTimestamp,
	} {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

type dataType struct {
	name   string
	auto   string // server-side constructor rendered for Auto
	coerce func(*dataType, any) (any, error)
	render func(any) string
	parse  func(*dataType, string) (any, error)
}

func (t *dataType) Name() string   { return t.name }
func (t *dataType) String() string { return t.name }

func (t *dataType) Validate(v any) error {
	_, err := t.Coerce(v)
	return err
}

func (t *dataType) Coerce(v any) (any, error) {
	switch v.(type) {
	case nil:
		return nil, nil
	case AutoValue:
		if t.auto == "" {
			return nil, carina.NewTypeConstraintError(t.name, "no server-side default", v)
		}
		return Auto, nil
	}
	return t.coerce(t, v)
}

func (t *dataType) Literal(v any) (string, error) {
	c, err := t.Coerce(v)
	if err != nil {
		return "", err
	}
	switch c.(type) {
	case nil:
		return "NULL", nil
	case AutoValue:
		return t.auto, nil
	}
	return t.render(c), nil
}

func (t *dataType) Parse(lit string) (any, error) {
	lit = strings.TrimSpace(lit)
	switch {
	case strings.EqualFold(lit, "NULL"):
		return nil, nil
	case t.auto != "" && lit == t.auto:
		return Auto, nil
	}
	return t.parse(t, lit)
}

func (t *dataType) mismatch(v any) error {
	return carina.NewTypeConstraintError(t.name, fmt.Sprintf("value of type %T", v), v)
}

func (t *dataType) syntax(lit string) error {
	return carina.NewTypeConstraintError(t.name, "literal syntax", lit)
}

func intType(bits int) DataType {
	lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
	bound := fmt.Sprintf("[%d, %d]", lo, hi)
	check := func(t *dataType, orig any, n int64) (any, error) {
		if n < lo || n > hi {
			return nil, carina.NewTypeConstraintError(t.name, bound, orig)
		}
		return n, nil
	}
	return &dataType{
		name: fmt.Sprintf("int%d", bits),
		coerce: func(t *dataType, v any) (any, error) {
			n, ok, overflow := toInt64(v)
			if overflow {
				return nil, carina.NewTypeConstraintError(t.name, bound, v)
			}
			if !ok {
				return nil, t.mismatch(v)
			}
			return check(t, v, n)
		},
		render: func(v any) string { return strconv.FormatInt(v.(int64), 10) },
		parse: func(t *dataType, lit string) (any, error) {
			n, err := strconv.ParseInt(lit, 10, 64)
			if err != nil {
				return nil, t.syntax(lit)
			}
			return check(t, lit, n)
		},
	}
}

// toInt64 converts any Go integer, or an integral float, to int64.
// ToInt64 converts a Go integer or an integral float to int64.
func ToInt64(v any) (int64, error) {
	n, ok, overflow := toInt64(v)
	switch {
	case !ok:
		return 0, fmt.Errorf("%v (%T) is not an integer", v, v)
	case overflow:
		return 0, fmt.Errorf("%v overflows int64", v)
	}
	return n, nil
}

func toInt64(v any) (n int64, ok, overflow bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true, false
	case int8:
		return int64(v), true, false
	case int16:
		return int64(v), true, false
	case int32:
		return int64(v), true, false
	case int64:
		return v, true, false
	case uint:
		return int64(v), true, uint64(v) > math.MaxInt64
	case uint8:
		return int64(v), true, false
	case uint16:
		return int64(v), true, false
	case uint32:
		return int64(v), true, false
	case uint64:
		return int64(v), true, v > math.MaxInt64
	case float32:
		return toInt64(float64(v))
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false, false
		}
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, true, true
		}
		return int64(v), true, false
	}
	return 0, false, false
}

func toFloat64(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	if n, ok, overflow := toInt64(v); ok && !overflow {
		return float64(n), true
	}
	return 0, false
}

func coerceFloat64(t *dataType, v any) (any, error) {
	f, ok := toFloat64(v)
	if !ok {
		return nil, t.mismatch(v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, carina.NewTypeConstraintError(t.name, "finite", v)
	}
	return f, nil
}

// coerceFloat32 rounds to float32 precision, which is what the server stores.
func coerceFloat32(t *dataType, v any) (any, error) {
	c, err := coerceFloat64(t, v)
	if err != nil {
		return nil, err
	}
	f := c.(float64)
	if math.Abs(f) > math.MaxFloat32 {
		return nil, carina.NewTypeConstraintError(t.name, fmt.Sprintf("|x| <= %g", math.MaxFloat32), v)
	}
	return float64(float32(f)), nil
}

func renderFloat(bits int) func(any) string {
	return func(v any) string {
		s := strconv.FormatFloat(v.(float64), 'f', -1, bits)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
}

func parseFloat(bits int) func(*dataType, string) (any, error) {
	return func(t *dataType, lit string) (any, error) {
		f, err := strconv.ParseFloat(lit, bits)
		if err != nil {
			return nil, t.syntax(lit)
		}
		return t.coerce(t, f)
	}
}

func coerceBool(t *dataType, v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, t.mismatch(v)
	}
	return b, nil
}

func renderBool(v any) string { return strconv.FormatBool(v.(bool)) }

func parseBool(t *dataType, lit string) (any, error) {
	switch lit {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, t.syntax(lit)
}

func coerceString(size int) func(*dataType, any) (any, error) {
	return func(t *dataType, v any) (any, error) {
		var s string
		switch v := v.(type) {
		case string:
			s = v
		case []byte:
			s = string(v)
		default:
			return nil, t.mismatch(v)
		}
		if size >= 0 && len(s) > size {
			return nil, carina.NewTypeConstraintError(t.name, fmt.Sprintf("len <= %d", size), v)
		}
		return s, nil
	}
}

func renderString(v any) string { return Quote(v.(string)) }

func parseString(t *dataType, lit string) (any, error) {
	s, err := Unquote(lit)
	if err != nil {
		return nil, t.syntax(lit)
	}
	return t.coerce(t, s)
}

// coerceTemporal accepts time.Time or a string in the given layout (with
// optional fractional seconds) and passes the wall clock to build.
func coerceTemporal(t *dataType, v any, layouts []string, build func(time.Time) time.Time) (any, error) {
	switch v := v.(type) {
	case time.Time:
		return build(v), nil
	case string:
		for _, layout := range layouts {
			if tm, err := time.Parse(layout, v); err == nil {
				return build(tm), nil
			}
		}
		return nil, carina.NewTypeConstraintError(t.name, "layout "+layouts[0], v)
	}
	return nil, t.mismatch(v)
}

func coerceDate(t *dataType, v any) (any, error) {
	return coerceTemporal(t, v, []string{DateLayout}, func(tm time.Time) time.Time {
		return time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC)
	})
}

func coerceTime(t *dataType, v any) (any, error) {
	return coerceTemporal(t, v, []string{TimeLayout, "15:04:05.999999999", "15:04:05"}, func(tm time.Time) time.Time {
		return time.Date(1, 1, 1, tm.Hour(), tm.Minute(), tm.Second(), micro(tm.Nanosecond()), time.UTC)
	})
}

// coerceDatetime keeps the wall clock and drops the location: nGQL
// datetime values carry no zone.
func coerceDatetime(t *dataType, v any) (any, error) {
	return coerceTemporal(t, v, []string{DatetimeLayout, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02 15:04:05"}, func(tm time.Time) time.Time {
		return time.Date(tm.Year(), tm.Month(), tm.Day(), tm.Hour(), tm.Minute(), tm.Second(), micro(tm.Nanosecond()), time.UTC)
	})
}

func micro(ns int) int { return ns / 1000 * 1000 }

func renderTemporal(fn, layout string) func(any) string {
	return func(v any) string {
		return fn + "(" + Quote(v.(time.Time).Format(layout)) + ")"
	}
}

func parseTemporal(fn, layout string) func(*dataType, string) (any, error) {
	return func(t *dataType, lit string) (any, error) {
		inner, ok := strings.CutPrefix(lit, fn+"(")
		if !ok || !strings.HasSuffix(inner, ")") {
			return nil, t.syntax(lit)
		}
		s, err := Unquote(strings.TrimSuffix(inner, ")"))
		if err != nil {
			return nil, t.syntax(lit)
		}
		tm, err := time.Parse(layout, s)
		if err != nil {
			return nil, t.syntax(lit)
		}
		return t.coerce(t, tm)
	}
}

func coerceTimestamp(t *dataType, v any) (any, error) {
	if tm, ok := v.(time.Time); ok {
		return time.Unix(tm.Unix(), 0).UTC(), nil
	}
	n, ok, overflow := toInt64(v)
	if !ok || overflow {
		return nil, t.mismatch(v)
	}
	return time.Unix(n, 0).UTC(), nil
}

func renderTimestamp(v any) string { return strconv.FormatInt(v.(time.Time).Unix(), 10) }

func parseTimestamp(t *dataType, lit string) (any, error) {
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, t.syntax(lit)
	}
	return t.coerce(t, n)
}
