package hreq

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HexmosTech/hreq/flags"
	"github.com/HexmosTech/hreq/input"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

func newEchoServer(t *testing.T, status int, responseBody string) (*httptest.Server, *recordedRequest) {
	recorded := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*recorded = recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        string(b),
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("X-Served-By", "hreq-test")
		w.WriteHeader(status)
		io.WriteString(w, responseBody)
	}))
	t.Cleanup(server.Close)
	return server, recorded
}

func runArgs(t *testing.T, args ...string) (string, string, error) {
	t.Setenv("HREQ_NO_COLOR", "true")
	var stdout, stderr strings.Builder
	argv := append([]string{"hreq", "--ignore-stdin"}, args...)
	err := run(context.Background(), argv, strings.NewReader(""), &stdout, &stderr, &Options{})
	return stdout.String(), stderr.String(), err
}

func TestRun_GuessesContentType(t *testing.T) {
	testCases := []struct {
		title               string
		args                []string
		expectedMethod      string
		expectedContentType string
		expectedBody        string
	}{
		{
			title:               "JSON body",
			args:                []string{"-m", "post", "-d", `{"name":"hreq"}`},
			expectedMethod:      "POST",
			expectedContentType: "application/json",
			expectedBody:        `{"name":"hreq"}`,
		},
		{
			title:               "Form body",
			args:                []string{"-m", "PUT", "-d", "a=b&c=d"},
			expectedMethod:      "PUT",
			expectedContentType: "application/x-www-form-urlencoded",
			expectedBody:        "a=b&c=d",
		},
		{
			title:               "Multipart body",
			args:                []string{"-m", "POST", "-d", "------WebKitFormBoundary\r\n"},
			expectedMethod:      "POST",
			expectedContentType: "multipart/form-data",
			expectedBody:        "------WebKitFormBoundary\r\n",
		},
		{
			title:               "Text body",
			args:                []string{"-m", "POST", "-d", "hello world"},
			expectedMethod:      "POST",
			expectedContentType: "text/plain",
			expectedBody:        "hello world",
		},
		{
			title:               "Explicit content type",
			args:                []string{"-m", "POST", "-t", "text", "-d", `{"name":"hreq"}`},
			expectedMethod:      "POST",
			expectedContentType: "text/plain",
			expectedBody:        `{"name":"hreq"}`,
		},
		{
			title:               "No body",
			args:                []string{},
			expectedMethod:      "GET",
			expectedContentType: "",
			expectedBody:        "",
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			// Setup
			server, recorded := newEchoServer(t, http.StatusOK, "ok")
			args := append(tt.args, server.URL+"/echo")

			// Exercise
			stdout, _, err := runArgs(t, args...)
			require.NoError(t, err)

			// Verify
			assert.Equal(t, "ok", stdout)
			assert.Equal(t, tt.expectedMethod, recorded.method)
			assert.Equal(t, "/echo", recorded.path)
			assert.Equal(t, tt.expectedContentType, recorded.contentType)
			assert.Equal(t, tt.expectedBody, recorded.body)
		})
	}
}

func TestRun_URLWithoutScheme(t *testing.T) {
	server, recorded := newEchoServer(t, http.StatusOK, "ok")
	hostPort := strings.TrimPrefix(server.URL, "http://")

	stdout, _, err := runArgs(t, hostPort+"/bare")
	require.NoError(t, err)

	assert.Equal(t, "ok", stdout)
	assert.Equal(t, "/bare", recorded.path)
}

func TestRun_PrintHeaders(t *testing.T) {
	server, _ := newEchoServer(t, http.StatusCreated, "created")

	stdout, _, err := runArgs(t, "-p", "hb", server.URL)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "HTTP/1.1 201 Created\n"), stdout)
	assert.Contains(t, stdout, "X-Served-By: hreq-test\n")
	assert.True(t, strings.HasSuffix(stdout, "\n\ncreated"), stdout)
}

func TestRun_PrintRequest(t *testing.T) {
	server, _ := newEchoServer(t, http.StatusOK, "ok")

	stdout, _, err := runArgs(t, "-p", "HB", "-m", "post", "-d", "a=b", server.URL+"/form")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "POST "+server.URL+"/form HTTP/1.1\n"), stdout)
	assert.Contains(t, stdout, "Content-Type: application/x-www-form-urlencoded\n")
	assert.True(t, strings.HasSuffix(stdout, "\n\na=b"), stdout)
	assert.NotContains(t, stdout, "ok")
}

func TestRun_CheckStatus(t *testing.T) {
	server, _ := newEchoServer(t, http.StatusInternalServerError, "boom")

	stdout, _, err := runArgs(t, server.URL)
	require.NoError(t, err)
	assert.Equal(t, "boom", stdout)

	stdout, _, err = runArgs(t, "--check-status", server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, "boom", stdout)
}

func TestRun_Download(t *testing.T) {
	// Setup
	server, _ := newEchoServer(t, http.StatusOK, "file contents")
	outputFile := filepath.Join(t.TempDir(), "saved.txt")

	// Exercise
	stdout, stderr, err := runArgs(t, "-o", outputFile, server.URL+"/file.txt")
	require.NoError(t, err)

	// Verify
	saved, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, "file contents", string(saved))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "saved to "+outputFile)
}

func TestRun_Verbose(t *testing.T) {
	server, _ := newEchoServer(t, http.StatusOK, "ok")

	_, stderr, err := runArgs(t, "-v", server.URL)
	require.NoError(t, err)

	assert.Contains(t, stderr, "sending request")
	assert.Contains(t, stderr, "received response")
}

func TestRun_Errors(t *testing.T) {
	t.Run("Unknown method", func(t *testing.T) {
		_, _, err := runArgs(t, "-m", "FETCH", "example.com")
		var unknown *input.UnknownMethodError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "FETCH", unknown.Text)
	})

	t.Run("Unknown content type", func(t *testing.T) {
		_, _, err := runArgs(t, "-t", "yaml", "-d", "a: b", "example.com")
		var unknown *input.UnknownContentTypeError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "yaml", unknown.Text)
	})

	t.Run("Missing URL prints usage", func(t *testing.T) {
		_, stderr, err := runArgs(t)
		_, ok := errors.Cause(err).(*flags.UsageError)
		assert.True(t, ok)
		assert.Contains(t, stderr, "URL")
	})

	t.Run("Connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, _, err := runArgs(t, url)
		assert.Error(t, err)
	})
}

func TestRun_Informational(t *testing.T) {
	stdout, _, err := runArgs(t, "--version")
	require.NoError(t, err)
	assert.Regexp(t, `^hreq \d+\.\d+\.\d+\n$`, stdout)

	stdout, _, err = runArgs(t, "--licenses")
	require.NoError(t, err)
	assert.Contains(t, stdout, "getopt:")

	stdout, _, err = runArgs(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--data")
}
