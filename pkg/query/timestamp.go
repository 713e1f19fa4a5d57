package query

import "time"

// Precision is the timestamp resolution sent to the server as the
// "precision" URL parameter on writes.
type Precision string

// Valid precision modifiers, from coarsest to finest.
const (
	Hours        Precision = "h"
	Minutes      Precision = "m"
	Seconds      Precision = "s"
	Milliseconds Precision = "ms"
	Microseconds Precision = "u"
	Nanoseconds  Precision = "ns"
)

// Timestamp is the point in time attached to a write. The zero value (or
// Now()) means the server assigns its own time on arrival and no timestamp
// is rendered on the line.
type Timestamp struct {
	value     int64
	precision Precision
	explicit  bool
}

// Now returns a Timestamp that lets the server assign the write time.
func Now() Timestamp {
	return Timestamp{}
}

// At returns an explicit Timestamp with the given value and precision.
func At(value int64, precision Precision) Timestamp {
	return Timestamp{value: value, precision: precision, explicit: true}
}

// FromTime converts a time.Time to a Timestamp in the given precision.
func FromTime(t time.Time, precision Precision) Timestamp {
	ns := t.UTC().UnixNano()
	var v int64
	switch precision {
	case Hours:
		v = ns / int64(time.Hour)
	case Minutes:
		v = ns / int64(time.Minute)
	case Seconds:
		v = ns / int64(time.Second)
	case Milliseconds:
		v = ns / int64(time.Millisecond)
	case Microseconds:
		v = ns / int64(time.Microsecond)
	default:
		precision = Nanoseconds
		v = ns
	}
	return At(v, precision)
}

// Precision returns the modifier to send as the "precision" URL parameter.
// Server-assigned timestamps report nanoseconds, the server default.
func (t Timestamp) Precision() Precision {
	if !t.explicit || t.precision == "" {
		return Nanoseconds
	}
	return t.precision
}

// Value returns the raw timestamp value and whether it was set explicitly.
func (t Timestamp) Value() (int64, bool) {
	return t.value, t.explicit
}
