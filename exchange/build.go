package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/HexmosTech/hreq/input"
	"github.com/HexmosTech/hreq/version"
	"github.com/pkg/errors"
)

// BuildHTTPRequest turns spec into an *http.Request. The body is sent as is
// and the content type, when set, becomes the Content-Type header.
func BuildHTTPRequest(ctx context.Context, spec *input.RequestSpec, options *Options) (*http.Request, error) {
	u, err := url.Parse(spec.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing URL: %s", spec.URL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("URL has no host: %s", spec.URL)
	}

	header := make(http.Header)
	if spec.ContentType != nil {
		header.Set("Content-Type", spec.ContentType.String())
	}
	header.Set("User-Agent", userAgent(options))

	var body io.ReadCloser
	var contentLength int64
	if spec.HasBody() {
		body = io.NopCloser(strings.NewReader(*spec.Body))
		contentLength = int64(len(*spec.Body))
	}

	r := &http.Request{
		Method:        spec.Method.HTTPMethod(),
		URL:           u,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Host:          u.Host,
		Body:          body,
		ContentLength: contentLength,
	}
	if body != nil {
		payload := *spec.Body
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(payload)), nil
		}
	}
	if options.Auth.Enabled {
		r.SetBasicAuth(options.Auth.UserName, options.Auth.Password)
	}
	return r.WithContext(ctx), nil
}

func userAgent(options *Options) string {
	if options.UserAgent != "" {
		return options.UserAgent
	}
	return fmt.Sprintf("hreq/%s", version.Current())
}
