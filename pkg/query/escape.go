package query

import "strings"

// Line protocol escaping rules. Measurements escape commas and spaces; tag
// keys, tag values and field keys additionally escape equals signs; string
// field values are double-quoted with quotes and backslashes escaped.

var (
	measurementEscaper = strings.NewReplacer(`,`, `\,`, ` `, `\ `)
	tagEscaper         = strings.NewReplacer(`,`, `\,`, `=`, `\=`, ` `, `\ `)
	stringFieldEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
)

func escapeMeasurement(s string) string {
	return measurementEscaper.Replace(s)
}

func escapeTag(s string) string {
	return tagEscaper.Replace(s)
}

func escapeStringField(s string) string {
	return stringFieldEscaper.Replace(s)
}
