package table

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Kind tags the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value is a single heterogeneous cell: a string, a number, a timestamp or null.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	tm   time.Time
}

// Null returns the missing-value marker.
func Null() Value { return Value{} }

// Str wraps a string cell.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Num wraps a numeric cell. NaN is stored as null.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Time wraps a timestamp cell. The zero time is stored as null.
func Time(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindTime, tm: t}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) Float() float64  { return v.num }
func (v Value) Time() time.Time { return v.tm }

// String renders the cell the way it would appear in a text export.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		if v.tm.Hour() == 0 && v.tm.Minute() == 0 && v.tm.Second() == 0 && v.tm.Nanosecond() == 0 {
			return v.tm.Format("2006-01-02")
		}
		return v.tm.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Key is an identity string: two cells share a Key exactly when they are equal
// for distinct counting and duplicate detection. Nulls compare equal. Strings
// carry their length so that concatenated keys stay unambiguous.
func (v Value) Key() string {
	switch v.kind {
	case KindString:
		return "s" + strconv.Itoa(len(v.str)) + ":" + v.str
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindTime:
		return "t:" + strconv.FormatInt(v.tm.UnixNano(), 10)
	default:
		return "\x00"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.num)
	case KindTime:
		return json.Marshal(v.tm.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}
