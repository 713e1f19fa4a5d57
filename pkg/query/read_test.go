package query

import "testing"

func TestReadQueryBuild(t *testing.T) {
	q := Read("SELECT * FROM weather")
	got, err := q.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "SELECT * FROM weather" {
		t.Errorf("read query not passed through verbatim: got %q", got)
	}
}

func TestReadQueryBuildEmpty(t *testing.T) {
	for _, q := range []string{"", "   "} {
		if _, err := Read(q).Build(); err == nil {
			t.Errorf("empty query %q: expected error, got none", q)
		}
	}
}

func TestReadQueryReadOnly(t *testing.T) {
	cases := []struct {
		q    string
		want bool
	}{
		{"SELECT * FROM cpu", true},
		{"SHOW DATABASES", true},
		{"CREATE DATABASE test", false},
		{"DROP MEASUREMENT cpu", false},
	}
	for _, c := range cases {
		if got := Read(c.q).ReadOnly(); got != c.want {
			t.Errorf("%q: got %v want %v", c.q, got, c.want)
		}
	}
}
