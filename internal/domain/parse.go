package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order: ISO from the graph, day-first from the spreadsheet.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// Date is a calendar date without time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the calendar date of t in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC on the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(dateLayouts[0])
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ParseDate parses an ISO or day-first date string, ignoring surrounding
// whitespace. A nil or blank input yields a nil date; a string matching
// neither layout is an ErrParse.
func ParseDate(s *string) (*Date, error) {
	if s == nil {
		return nil, nil
	}
	text := strings.TrimSpace(*s)
	if text == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			d := NewDate(t)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("parse date %q: %w", *s, ErrParse)
}

// Number is a parsed numeric field. Value is NaN when the field was absent.
type Number struct {
	Value float64
	IsInt bool
}

// NaN is the sentinel returned for absent numeric input.
func NaN() Number {
	return Number{Value: math.NaN()}
}

// Valid reports whether the number carries a value.
func (n Number) Valid() bool {
	return !math.IsNaN(n.Value)
}

// Ptr returns the value as a pointer, nil when the number is the NaN sentinel.
func (n Number) Ptr() *float64 {
	if !n.Valid() {
		return nil
	}
	v := n.Value
	return &v
}

// Any returns int64 for integral values, float64 otherwise, and nil for NaN.
func (n Number) Any() any {
	switch {
	case !n.Valid():
		return nil
	case n.IsInt:
		return int64(n.Value)
	default:
		return n.Value
	}
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Any())
}

// ParseNumber parses a numeric string, flagging integral values so they can
// be exported as integers. A nil input yields the NaN sentinel.
func ParseNumber(s *string) (Number, error) {
	if s == nil {
		return NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return NaN(), fmt.Errorf("parse number %q: %w", *s, ErrParse)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{Value: v}, nil
	}
	return Number{Value: v, IsInt: v == math.Trunc(v)}, nil
}

// FieldKind tags how a raw source field is decoded.
type FieldKind int

const (
	// KindString passes the raw text through unchanged.
	KindString FieldKind = iota
	// KindLabel is a tower label, normalized into the canonical site name.
	KindLabel
	// KindNumber is parsed by ParseNumber.
	KindNumber
	// KindDate is parsed by ParseDate.
	KindDate
	// KindFlag is true only for the literal text "TRUE".
	KindFlag
)

func (k FieldKind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindFlag:
		return "flag"
	default:
		return "string"
	}
}

// FieldSchema declares the kind of each known field. Fields without an entry
// are KindString.
type FieldSchema map[string]FieldKind

// Kind returns the declared kind of field.
func (s FieldSchema) Kind(field string) FieldKind {
	return s[field]
}

// Value is a decoded field: exactly one of Str, Num, Date or Flag is
// meaningful, selected by Kind. Str is nil for an absent string field.
type Value struct {
	Kind FieldKind
	Str  *string
	Num  Number
	Date *Date
	Flag bool
}

// Any returns the value as a plain Go value suitable for export, nil when absent.
func (v Value) Any() any {
	switch v.Kind {
	case KindNumber:
		return v.Num.Any()
	case KindDate:
		if v.Date == nil {
			return nil
		}
		return v.Date.Time()
	case KindFlag:
		return v.Flag
	default:
		if v.Str == nil {
			return nil
		}
		return *v.Str
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindDate && v.Date != nil {
		return json.Marshal(v.Date.String())
	}
	return json.Marshal(v.Any())
}

// DecodeField decodes raw according to kind.
func DecodeField(kind FieldKind, raw *string) (Value, error) {
	v := Value{Kind: kind}
	switch kind {
	case KindNumber:
		n, err := ParseNumber(raw)
		if err != nil {
			return Value{}, err
		}
		v.Num = n
	case KindDate:
		d, err := ParseDate(raw)
		if err != nil {
			return Value{}, err
		}
		v.Date = d
	case KindFlag:
		v.Flag = raw != nil && *raw == "TRUE"
	case KindLabel:
		if raw != nil {
			name := NormalizeSiteName(*raw)
			v.Str = &name
		}
	default:
		v.Str = raw
	}
	return v, nil
}
