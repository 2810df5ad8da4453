package output

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
)

const (
	defaultFileName  = "index"
	downloadBufSize  = 32 * 1024
	progressInterval = 256 * 1024
)

var reIndexSuffix = regexp.MustCompile(`\.(\d+)$`)

type FileWriter struct {
	fullPath string
}

// NewFileWriter names the file after options.OutputFile or, when empty, the
// last segment of the URL path.
func NewFileWriter(u *url.URL, options *Options) *FileWriter {
	var fullPath string

	if options.OutputFile == "" {
		name := path.Base(u.Path)
		if name == "/" || name == "." || name == "" {
			name = defaultFileName
		}
		fullPath = filepath.Join(".", name)
	} else {
		fullPath = options.OutputFile
	}

	if !options.Overwrite {
		fullPath = makeNonOverlappingFilename(fullPath)
	}

	return &FileWriter{
		fullPath: fullPath,
	}
}

// makeNonOverlappingFilename appends or increments a ".N" suffix until the
// path does not exist.
func makeNonOverlappingFilename(p string) string {
	for {
		if _, err := os.Stat(p); err != nil {
			return p
		}
		if m := reIndexSuffix.FindStringSubmatchIndex(p); m != nil {
			i, _ := strconv.Atoi(p[m[2]:m[3]])
			p = fmt.Sprintf("%s.%d", p[:m[0]], i+1)
		} else {
			p = fmt.Sprintf("%s.%d", p, 1)
		}
	}
}

// Download copies the response body into the file, reporting progress on
// progress.
func (f *FileWriter) Download(resp *http.Response, progress io.Writer) error {
	file, err := os.Create(f.fullPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", f.fullPath)
	}
	defer file.Close()

	total := resp.ContentLength
	buf := make([]byte, downloadBufSize)
	var written, lastReported int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return errors.Wrapf(err, "writing %s", f.fullPath)
			}
			written += int64(n)
			if written-lastReported >= progressInterval {
				reportProgress(progress, written, total)
				lastReported = written
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.Wrap(readErr, "reading response body")
		}
	}

	reportProgress(progress, written, total)
	fmt.Fprintf(progress, "\nDone. %s saved to %s\n", bytefmt.ByteSize(uint64(written)), f.fullPath)
	return nil
}

func reportProgress(w io.Writer, written, total int64) {
	if total <= 0 {
		fmt.Fprintf(w, "\rDownloading: %s", bytefmt.ByteSize(uint64(written)))
		return
	}
	fmt.Fprintf(w, "\rDownloading: %s / %s (%d%%)",
		bytefmt.ByteSize(uint64(written)),
		bytefmt.ByteSize(uint64(total)),
		written*100/total)
}

func (f *FileWriter) Filename() string {
	return filepath.Base(f.fullPath)
}

func (f *FileWriter) FullPath() string {
	return f.fullPath
}
