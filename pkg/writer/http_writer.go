// Package writer is the bulk write path: a fasthttp-backed line protocol
// writer and an asynchronous batching collector on top of it.
package writer

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"

	"github.com/influxwire/influxwire/pkg/query"
)

const (
	httpClientName        = "influxwire"
	headerContentEncoding = "Content-Encoding"
	headerAuthorization   = "Authorization"
	headerGzip            = "gzip"
)

// ErrBackoff means the server reported backpressure; the caller should slow
// down before writing again.
var ErrBackoff = errors.New("backpressure is needed")

// Response body fragments that mark an overloaded server rather than a bad
// request. Taken from the InfluxDB error strings observed in the wild.
var (
	backoffMagicWords0  = []byte("engine: cache maximum memory size exceeded")
	backoffMagicWords1  = []byte("write failed: hinted handoff queue not empty")
	backoffMagicWords2a = []byte("write failed: read message type: read tcp")
	backoffMagicWords2b = []byte("i/o timeout")
	backoffMagicWords3  = []byte("write failed: engine: cache-max-memory-size exceeded")
	backoffMagicWords4  = []byte("timeout")
	backoffMagicWords5  = []byte("write failed: can not exceed max connections of 500")
)

// Config is the configuration used to create an HTTPWriter.
type Config struct {
	// URL of the host, in form "http://example.com:8086".
	Host string

	// Name of the target database into which points will be written.
	Database string

	// Precision modifier for the written timestamps. Empty means the
	// server default (nanoseconds).
	Precision query.Precision

	// Consistency level for clustered servers; empty omits the parameter.
	Consistency string

	// Username/Password, sent as a basic Authorization header when set.
	Username string
	Password string

	// Debug label for more informative errors.
	DebugInfo string
}

// HTTPWriter writes line protocol to an InfluxDB HTTP server.
type HTTPWriter struct {
	client fasthttp.Client

	c    Config
	url  []byte
	auth string
}

// NewHTTPWriter returns a new HTTPWriter from the supplied Config. The write
// URL is built once up front.
func NewHTTPWriter(c Config) *HTTPWriter {
	u := c.Host + "/write?db=" + url.QueryEscape(c.Database)
	if c.Precision != "" {
		u += "&precision=" + string(c.Precision)
	}
	if c.Consistency != "" {
		u += "&consistency=" + url.QueryEscape(c.Consistency)
	}

	auth := ""
	if c.Username != "" {
		auth = "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Username+":"+c.Password))
	}

	return &HTTPWriter{
		client: fasthttp.Client{
			Name: httpClientName,
		},

		c:    c,
		url:  []byte(u),
		auth: auth,
	}
}

// Precision returns the precision modifier the writer's URL was built with.
// An unset Config.Precision is the server default, nanoseconds.
func (w *HTTPWriter) Precision() query.Precision {
	if w.c.Precision == "" {
		return query.Nanoseconds
	}
	return w.c.Precision
}

var (
	methodPost = []byte("POST")
	textPlain  = []byte("text/plain")
)

func (w *HTTPWriter) initializeReq(req *fasthttp.Request, body []byte, isGzip bool) {
	req.Header.SetContentTypeBytes(textPlain)
	req.Header.SetMethodBytes(methodPost)
	req.Header.SetRequestURIBytes(w.url)
	if isGzip {
		req.Header.Add(headerContentEncoding, headerGzip)
	}
	if w.auth != "" {
		req.Header.Add(headerAuthorization, w.auth)
	}
	req.SetBody(body)
}

func (w *HTTPWriter) executeReq(req *fasthttp.Request, resp *fasthttp.Response) (time.Duration, error) {
	start := time.Now()
	err := w.client.Do(req, resp)
	lat := time.Since(start)
	if err == nil {
		sc := resp.StatusCode()
		if sc == fasthttp.StatusInternalServerError && backpressurePred(resp.Body()) {
			err = ErrBackoff
		} else if sc != fasthttp.StatusNoContent {
			err = errors.Errorf("[DebugInfo: %s] invalid write response (status %d): %s",
				w.c.DebugInfo, sc, resp.Body())
		}
	}
	return lat, err
}

// WriteLineProtocol writes the given byte slice to the server described by
// the writer's Config. It returns the request latency and any transport
// error, or a new error if the HTTP response isn't as expected.
func (w *HTTPWriter) WriteLineProtocol(body []byte, isGzip bool) (time.Duration, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	w.initializeReq(req, body, isGzip)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	return w.executeReq(req, resp)
}

func backpressurePred(body []byte) bool {
	switch {
	case bytes.Contains(body, backoffMagicWords0),
		bytes.Contains(body, backoffMagicWords1),
		bytes.Contains(body, backoffMagicWords2a) && bytes.Contains(body, backoffMagicWords2b),
		bytes.Contains(body, backoffMagicWords3),
		bytes.Contains(body, backoffMagicWords4),
		bytes.Contains(body, backoffMagicWords5):
		return true
	}
	return false
}

// Gzip compresses a request body for use with the gzip Content-Encoding.
func Gzip(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, errors.Wrap(err, "gzipping body")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "gzipping body")
	}
	return buf.Bytes(), nil
}
