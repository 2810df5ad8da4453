package exchange

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const acceptEncoding = "gzip, deflate, br, zstd"

// decompressTransport advertises the encodings it can decode and replaces
// the response body with the decoded stream.
type decompressTransport struct {
	next http.RoundTripper
}

func (t *decompressTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" && req.Header.Get("Range") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	if encoding == "" || encoding == "identity" || req.Method == http.MethodHead {
		return resp, nil
	}
	body, err := newDecoder(encoding, resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	if body == nil {
		// Unknown encoding: hand the raw bytes to the caller.
		return resp, nil
	}

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

type decodedBody struct {
	io.Reader
	closeDecoder func()
	raw          io.ReadCloser
}

func (b *decodedBody) Close() error {
	if b.closeDecoder != nil {
		b.closeDecoder()
	}
	return b.raw.Close()
}

// newDecoder returns nil, nil for encodings it does not know.
func newDecoder(encoding string, raw io.ReadCloser) (io.ReadCloser, error) {
	switch encoding {
	case "gzip", "x-gzip":
		r, err := gzip.NewReader(raw)
		if err != nil {
			return nil, errors.Wrap(err, "reading gzip response body")
		}
		return &decodedBody{Reader: r, closeDecoder: func() { r.Close() }, raw: raw}, nil
	case "deflate":
		r, err := zlib.NewReader(raw)
		if err != nil {
			return nil, errors.Wrap(err, "reading deflate response body")
		}
		return &decodedBody{Reader: r, closeDecoder: func() { r.Close() }, raw: raw}, nil
	case "br":
		return &decodedBody{Reader: brotli.NewReader(raw), raw: raw}, nil
	case "zstd":
		r, err := zstd.NewReader(raw)
		if err != nil {
			return nil, errors.Wrap(err, "reading zstd response body")
		}
		return &decodedBody{Reader: r, closeDecoder: r.Close, raw: raw}, nil
	default:
		return nil, nil
	}
}
