package exchange

import (
	"context"
	"net/http"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/HexmosTech/hreq/input"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SendRequest performs a single round trip for spec. The caller closes the
// response body.
func SendRequest(ctx context.Context, spec *input.RequestSpec, options *Options, logger *zap.Logger) (*http.Response, error) {
	client, err := BuildHTTPClient(options)
	if err != nil {
		return nil, err
	}
	r, err := BuildHTTPRequest(ctx, spec, options)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
		zap.Duration("timeout", options.Timeout),
	}
	if spec.ContentType != nil {
		fields = append(fields, zap.Stringer("content_type", spec.ContentType))
	}
	if spec.HasBody() {
		fields = append(fields, zap.String("body_size", bytefmt.ByteSize(uint64(len(*spec.Body)))))
	}
	logger.Debug("sending request", fields...)

	start := time.Now()
	resp, err := client.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "sending HTTP request")
	}

	logger.Debug("received response",
		zap.String("status", resp.Status),
		zap.String("proto", resp.Proto),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("decompressed", resp.Uncompressed),
	)
	return resp, nil
}

// IsSuccess reports whether the status code is 2xx.
func IsSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
