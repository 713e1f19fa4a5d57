package writer

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/influxwire/influxwire/pkg/query"
)

var testConf = Config{
	Database:  "test db",
	Precision: query.Seconds,
	Username:  "admin",
	Password:  "secret",
}

func TestNewHTTPWriter(t *testing.T) {
	c := testConf
	c.Host = "http://localhost:8086"
	c.Consistency = "one"
	w := NewHTTPWriter(c)

	if got := w.client.Name; got != httpClientName {
		t.Errorf("name of http client is incorrect: got %s want %s", got, httpClientName)
	}

	got := string(w.url)
	if !strings.HasPrefix(got, c.Host+"/write?") {
		t.Errorf("url does not start with the write endpoint: %s", got)
	}
	if want := "db=" + url.QueryEscape(c.Database); !strings.Contains(got, want) {
		t.Errorf("url does not contain escaped database name: looking for %s in %s", want, got)
	}
	if !strings.Contains(got, "precision=s") {
		t.Errorf("url does not carry the precision modifier: %s", got)
	}
	if !strings.Contains(got, "consistency=one") {
		t.Errorf("url does not carry the consistency level: %s", got)
	}
	if w.auth == "" || !strings.HasPrefix(w.auth, "Basic ") {
		t.Errorf("basic auth header not prepared: %q", w.auth)
	}
}

func TestHTTPWriterExecuteReq(t *testing.T) {
	var flip int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.RawQuery, "shouldBackoff"):
			if atomic.AddInt64(&flip, 1)%2 == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, string(backoffMagicWords1))
			} else {
				w.WriteHeader(http.StatusNoContent)
			}
		case strings.Contains(r.URL.RawQuery, "shouldInvalid"):
			fmt.Fprint(w, "success should be an empty msg")
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	c := testConf
	c.Host = srv.URL
	w := NewHTTPWriter(c)
	body := []byte("weather temperature=82i 100\n")

	// Success: no error and a positive latency.
	lat, err := w.WriteLineProtocol(body, false)
	if err != nil {
		t.Errorf("unexpected error received: %v", err)
	}
	if lat <= 0 {
		t.Errorf("latency is unrealistic (<= 0): %d", lat)
	}

	// Backoff: a 500 with magic words maps to ErrBackoff.
	normalURL := w.url
	w.url = []byte(string(normalURL) + "&shouldBackoff=true")
	if _, err = w.WriteLineProtocol(body, false); err != ErrBackoff {
		t.Errorf("unexpected error response received (not backoff error): %v", err)
	}

	// Invalid: any other non-204 response is an error.
	w.url = []byte(string(normalURL) + "&shouldInvalid=true")
	if _, err = w.WriteLineProtocol(body, false); err == nil {
		t.Errorf("unexpected non-error response received")
	}
}

func TestBackpressurePred(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{"yadda yadda" + string(backoffMagicWords0), true},
		{"yadda" + string(backoffMagicWords1), true},
		{string(backoffMagicWords2a), false}, // needs both fragments
		{string(backoffMagicWords2a) + " AND " + string(backoffMagicWords2b), true},
		{string(backoffMagicWords3) + " yadda", true},
		{"yadda " + string(backoffMagicWords4) + " yadda", true},
		{"foo " + string(backoffMagicWords5) + " yadda", true},
		{string(backoffMagicWords0[2:]), false},
	}

	for _, c := range cases {
		if got := backpressurePred([]byte(c.body)); got != c.want {
			t.Errorf("'%s' did not give correct backpressure result: got %v want %v", c.body, got, c.want)
		}
	}
}
