package query

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

type tag struct {
	key, value string
}

type field struct {
	key   string
	value interface{}
}

// WriteQuery appends one timestamped point to a measurement. Tags and fields
// render in insertion order.
type WriteQuery struct {
	timestamp   Timestamp
	measurement string
	tags        []tag
	fields      []field
}

// Write returns a WriteQuery for the given measurement at the given time.
func Write(ts Timestamp, measurement string) *WriteQuery {
	return &WriteQuery{timestamp: ts, measurement: measurement}
}

// AddTag adds an indexed key/value pair to the point.
func (q *WriteQuery) AddTag(key, value string) *WriteQuery {
	q.tags = append(q.tags, tag{key: key, value: value})
	return q
}

// AddField adds a field to the point. Supported value types are bool, the
// signed and unsigned integer types, float32/float64 and string.
func (q *WriteQuery) AddField(key string, value interface{}) *WriteQuery {
	q.fields = append(q.fields, field{key: key, value: value})
	return q
}

// Precision returns the precision modifier for the write URL.
func (q *WriteQuery) Precision() Precision {
	return q.timestamp.Precision()
}

// Build renders the point to a single line of line protocol:
//
//	<measurement>[,<tag>=<value>...] <field>=<value>[,...] [<timestamp>]
//
// A point without fields is invalid; the server would reject it.
func (q *WriteQuery) Build() (string, error) {
	if q.measurement == "" {
		return "", errors.New("write query has no measurement")
	}
	if len(q.fields) == 0 {
		return "", errors.Errorf("write to %q has no fields", q.measurement)
	}

	buf := make([]byte, 0, 256)
	buf = append(buf, escapeMeasurement(q.measurement)...)

	for _, t := range q.tags {
		buf = append(buf, ',')
		buf = append(buf, escapeTag(t.key)...)
		buf = append(buf, '=')
		buf = append(buf, escapeTag(t.value)...)
	}

	buf = append(buf, ' ')
	for i, f := range q.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, escapeTag(f.key)...)
		buf = append(buf, '=')
		var err error
		buf, err = appendFieldValue(buf, f.value)
		if err != nil {
			return "", errors.Wrapf(err, "field %q of %q", f.key, q.measurement)
		}
	}

	if v, ok := q.timestamp.Value(); ok {
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, v, 10)
	}

	return string(buf), nil
}

// appendFieldValue appends the line protocol form of a field value. Influx
// uses an 'i' suffix to mark integers; strings are double-quoted.
func appendFieldValue(buf []byte, v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case bool:
		return strconv.AppendBool(buf, x), nil
	case int:
		return appendInt(buf, int64(x)), nil
	case int8:
		return appendInt(buf, int64(x)), nil
	case int16:
		return appendInt(buf, int64(x)), nil
	case int32:
		return appendInt(buf, int64(x)), nil
	case int64:
		return appendInt(buf, x), nil
	case uint:
		return appendUint(buf, uint64(x)), nil
	case uint8:
		return appendUint(buf, uint64(x)), nil
	case uint16:
		return appendUint(buf, uint64(x)), nil
	case uint32:
		return appendUint(buf, uint64(x)), nil
	case uint64:
		return appendUint(buf, x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.Errorf("non-finite float value %v", x)
		}
		return strconv.AppendFloat(buf, x, 'f', -1, 64), nil
	case float32:
		return appendFieldValue(buf, float64(x))
	case string:
		buf = append(buf, '"')
		buf = append(buf, escapeStringField(x)...)
		buf = append(buf, '"')
		return buf, nil
	default:
		return nil, errors.Errorf("unsupported field value type %T", v)
	}
}

func appendInt(buf []byte, v int64) []byte {
	buf = strconv.AppendInt(buf, v, 10)
	return append(buf, 'i')
}

func appendUint(buf []byte, v uint64) []byte {
	buf = strconv.AppendUint(buf, v, 10)
	return append(buf, 'i')
}
