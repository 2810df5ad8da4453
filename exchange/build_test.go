package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/HexmosTech/hreq/input"
	"github.com/HexmosTech/hreq/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func contentTypePtr(c input.ContentType) *input.ContentType {
	return &c
}

func readAll(t *testing.T, reader io.Reader) string {
	b, err := io.ReadAll(reader)
	require.NoError(t, err, "failed to read all")
	return string(b)
}

func TestBuildHTTPRequest(t *testing.T) {
	// Setup
	spec := &input.RequestSpec{
		Method:      input.MethodPost,
		URL:         "https://localhost:4000/foo?q=hello+world",
		Body:        strPtr(`{"hoge": "fuga"}`),
		ContentType: contentTypePtr(input.ContentTypeJSON),
	}
	options := Options{
		Auth: AuthOptions{
			Enabled:  true,
			UserName: "alice",
			Password: "open sesame",
		},
	}

	// Exercise
	actual, err := BuildHTTPRequest(context.Background(), spec, &options)
	require.NoError(t, err)

	// Verify
	assert.Equal(t, http.MethodPost, actual.Method)
	assert.Equal(t, "https://localhost:4000/foo?q=hello+world", actual.URL.String())
	expectedHeader := http.Header{
		"Content-Type":  []string{"application/json"},
		"User-Agent":    []string{fmt.Sprintf("hreq/%s", version.Current())},
		"Authorization": []string{"Basic YWxpY2U6b3BlbiBzZXNhbWU="},
	}
	assert.Equal(t, expectedHeader, actual.Header)
	assert.Equal(t, "localhost:4000", actual.Host)
	assert.Equal(t, int64(len(`{"hoge": "fuga"}`)), actual.ContentLength)
	assert.Equal(t, `{"hoge": "fuga"}`, readAll(t, actual.Body))

	replay, err := actual.GetBody()
	require.NoError(t, err)
	assert.Equal(t, `{"hoge": "fuga"}`, readAll(t, replay))
}

func TestBuildHTTPRequest_ContentTypeHeader(t *testing.T) {
	testCases := []struct {
		title       string
		spec        *input.RequestSpec
		contentType string
		hasBody     bool
	}{
		{
			title: "No body and no content type",
			spec:  &input.RequestSpec{Method: input.MethodGet, URL: "http://example.com/"},
		},
		{
			title:       "Content type without body",
			spec:        &input.RequestSpec{Method: input.MethodGet, URL: "http://example.com/", ContentType: contentTypePtr(input.ContentTypeText)},
			contentType: "text/plain",
		},
		{
			title: "Form body",
			spec: &input.RequestSpec{
				Method:      input.MethodPut,
				URL:         "http://example.com/",
				Body:        strPtr("a=b"),
				ContentType: contentTypePtr(input.ContentTypeForm),
			},
			contentType: "application/x-www-form-urlencoded",
			hasBody:     true,
		},
		{
			title: "Multipart body",
			spec: &input.RequestSpec{
				Method:      input.MethodPost,
				URL:         "http://example.com/",
				Body:        strPtr("------boundary\r\n"),
				ContentType: contentTypePtr(input.ContentTypeMultipart),
			},
			contentType: "multipart/form-data",
			hasBody:     true,
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			r, err := BuildHTTPRequest(context.Background(), tt.spec, &Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, r.Header.Get("Content-Type"))
			assert.Equal(t, tt.hasBody, r.Body != nil)
			assert.Equal(t, tt.spec.Method.String(), r.Method)
		})
	}
}

func TestBuildHTTPRequest_UserAgent(t *testing.T) {
	spec := &input.RequestSpec{Method: input.MethodGet, URL: "http://example.com/"}

	r, err := BuildHTTPRequest(context.Background(), spec, &Options{UserAgent: "probe/2.0"})
	require.NoError(t, err)

	assert.Equal(t, "probe/2.0", r.Header.Get("User-Agent"))
}

func TestBuildHTTPRequest_InvalidURL(t *testing.T) {
	testCases := []struct {
		title string
		url   string
	}{
		{title: "Control character", url: "http://exa\x7fmple.com/"},
		{title: "No host", url: "http://"},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			spec := &input.RequestSpec{Method: input.MethodGet, URL: tt.url}
			_, err := BuildHTTPRequest(context.Background(), spec, &Options{})
			assert.Error(t, err)
		})
	}
}
