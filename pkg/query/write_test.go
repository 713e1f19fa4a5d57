package query

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestWriteQueryBuild(t *testing.T) {
	cases := []struct {
		desc  string
		query *WriteQuery
		want  string
	}{
		{
			desc: "a regular point",
			query: Write(At(1451606400000000000, Nanoseconds), "cpu").
				AddTag("hostname", "host_0").
				AddTag("region", "eu-west-1").
				AddField("usage_guest_nice", 38.24311829),
			want: "cpu,hostname=host_0,region=eu-west-1 usage_guest_nice=38.24311829 1451606400000000000",
		},
		{
			desc: "a point using int as value",
			query: Write(At(1451606400000000000, Nanoseconds), "cpu").
				AddTag("hostname", "host_0").
				AddField("usage_guest", 38),
			want: "cpu,hostname=host_0 usage_guest=38i 1451606400000000000",
		},
		{
			desc: "a point with multiple fields",
			query: Write(At(1451606400000000000, Nanoseconds), "cpu").
				AddField("big_usage_guest", int64(5000000000)).
				AddField("usage_guest", 38).
				AddField("usage_guest_nice", 38.24311829),
			want: "cpu big_usage_guest=5000000000i,usage_guest=38i,usage_guest_nice=38.24311829 1451606400000000000",
		},
		{
			desc:  "a point with no tags",
			query: Write(At(100, Seconds), "cpu").AddField("usage_guest_nice", 38.24311829),
			want:  "cpu usage_guest_nice=38.24311829 100",
		},
		{
			desc:  "a server-assigned timestamp renders no trailing timestamp",
			query: Write(Now(), "weather").AddField("temperature", 82),
			want:  "weather temperature=82i",
		},
		{
			desc: "bool and string fields",
			query: Write(At(100, Seconds), "weather").
				AddField("raining", true).
				AddField("forecast", "sunny"),
			want: `weather raining=true,forecast="sunny" 100`,
		},
		{
			desc: "escaping of measurement, tags and string fields",
			query: Write(At(100, Seconds), "memory usage").
				AddTag("host name", "eu=1,west").
				AddField("note", `say "hi", backslash \`),
			want: `memory\ usage,host\ name=eu\=1\,west note="say \"hi\", backslash \\" 100`,
		},
		{
			desc:  "unsigned field value",
			query: Write(At(100, Seconds), "cpu").AddField("count", uint64(42)),
			want:  "cpu count=42i 100",
		},
	}

	for _, c := range cases {
		got, err := c.query.Build()
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.desc, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: incorrect line:\ngot\n%s\nwant\n%s", c.desc, got, c.want)
		}
	}
}

func TestWriteQueryBuildErrors(t *testing.T) {
	cases := []struct {
		desc    string
		query   *WriteQuery
		wantSub string
	}{
		{
			desc:    "no measurement",
			query:   Write(Now(), "").AddField("x", 1),
			wantSub: "no measurement",
		},
		{
			desc:    "no fields",
			query:   Write(Now(), "cpu").AddTag("hostname", "host_0"),
			wantSub: "no fields",
		},
		{
			desc:    "NaN field",
			query:   Write(Now(), "cpu").AddField("usage", math.NaN()),
			wantSub: "non-finite",
		},
		{
			desc:    "unsupported field type",
			query:   Write(Now(), "cpu").AddField("usage", struct{}{}),
			wantSub: "unsupported field value type",
		},
	}

	for _, c := range cases {
		_, err := c.query.Build()
		if err == nil {
			t.Errorf("%s: expected error, got none", c.desc)
			continue
		}
		if !strings.Contains(err.Error(), c.wantSub) {
			t.Errorf("%s: error %q does not mention %q", c.desc, err.Error(), c.wantSub)
		}
	}
}

func TestWriteQueryPrecision(t *testing.T) {
	if got := Write(Now(), "cpu").Precision(); got != Nanoseconds {
		t.Errorf("server-assigned timestamp precision: got %q want %q", got, Nanoseconds)
	}
	if got := Write(At(100, Minutes), "cpu").Precision(); got != Minutes {
		t.Errorf("explicit timestamp precision: got %q want %q", got, Minutes)
	}
}

func TestTimestampFromTime(t *testing.T) {
	ref := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		precision Precision
		want      int64
	}{
		{Nanoseconds, 1451606400000000000},
		{Microseconds, 1451606400000000},
		{Milliseconds, 1451606400000},
		{Seconds, 1451606400},
		{Minutes, 24193440},
		{Hours, 403224},
	}
	for _, c := range cases {
		ts := FromTime(ref, c.precision)
		v, ok := ts.Value()
		if !ok {
			t.Errorf("%s: FromTime should be explicit", c.precision)
		}
		if v != c.want {
			t.Errorf("%s: got %d want %d", c.precision, v, c.want)
		}
		if ts.Precision() != c.precision {
			t.Errorf("%s: precision not preserved: got %s", c.precision, ts.Precision())
		}
	}
}
