package output

import (
	"io"
	"net/http"
)

type Printer interface {
	PrintStatusLine(proto string, status string, statusCode int) error
	PrintRequestLine(req *http.Request) error
	PrintHeader(header http.Header) error
	PrintBody(body io.Reader, contentType string) error
}

type PrinterConfig struct {
	Writer       io.Writer
	EnableFormat bool
	EnableColor  bool
}

// NewPrinter picks the pretty printer when formatting is enabled.
func NewPrinter(config PrinterConfig) Printer {
	if config.EnableFormat {
		return NewPrettyPrinter(PrettyPrinterConfig{
			Writer:      config.Writer,
			EnableColor: config.EnableColor,
		})
	}
	return NewPlainPrinter(config.Writer)
}
