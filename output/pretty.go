package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

type PrettyPrinter struct {
	writer        io.Writer
	aurora        aurora.Aurora
	headerPalette *HeaderPalette
}

type PrettyPrinterConfig struct {
	Writer      io.Writer
	EnableColor bool
}

type HeaderPalette struct {
	Method         aurora.Color
	URL            aurora.Color
	Proto          aurora.Color
	SuccessStatus  aurora.Color
	ErrorStatus    aurora.Color
	FieldName      aurora.Color
	FieldValue     aurora.Color
	FieldSeparator aurora.Color
}

var defaultHeaderPalette = HeaderPalette{
	Method:         aurora.GreenFg | aurora.BoldFm,
	URL:            aurora.CyanFg | aurora.UnderlineFm,
	Proto:          aurora.BlueFg,
	SuccessStatus:  aurora.BrownFg | aurora.BoldFm,
	ErrorStatus:    aurora.RedFg | aurora.BoldFm,
	FieldName:      aurora.WhiteFg,
	FieldValue:     aurora.CyanFg,
	FieldSeparator: aurora.WhiteFg,
}

func NewPrettyPrinter(config PrettyPrinterConfig) Printer {
	return &PrettyPrinter{
		writer:        config.Writer,
		aurora:        aurora.NewAurora(config.EnableColor),
		headerPalette: &defaultHeaderPalette,
	}
}

func (p *PrettyPrinter) PrintStatusLine(proto string, status string, statusCode int) error {
	statusColor := p.headerPalette.SuccessStatus
	if statusCode >= 400 {
		statusColor = p.headerPalette.ErrorStatus
	}
	fmt.Fprintf(p.writer, "%s %s\n",
		p.aurora.Colorize(proto, p.headerPalette.Proto),
		p.aurora.Colorize(status, statusColor))
	return nil
}

func (p *PrettyPrinter) PrintRequestLine(req *http.Request) error {
	fmt.Fprintf(p.writer, "%s %s %s\n",
		p.aurora.Colorize(req.Method, p.headerPalette.Method),
		p.aurora.Colorize(req.URL, p.headerPalette.URL),
		p.aurora.Colorize(req.Proto, p.headerPalette.Proto))
	return nil
}

func (p *PrettyPrinter) PrintHeader(header http.Header) error {
	for _, name := range sortedNames(header) {
		for _, value := range header[name] {
			fmt.Fprintf(p.writer, "%s%s %s\n",
				p.aurora.Colorize(name, p.headerPalette.FieldName),
				p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
				p.aurora.Colorize(value, p.headerPalette.FieldValue))
		}
	}
	fmt.Fprintln(p.writer)
	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	// application/problem+json etc. (RFC 6839)
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// PrintBody indents JSON bodies. The Content-Type decides; when it is
// missing the body is sniffed. Anything that fails to parse is printed raw.
func (p *PrettyPrinter) PrintBody(body io.Reader, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "reading body")
	}

	if contentType == "" {
		contentType = mimetype.Detect(b).String()
	}
	if !isJSON(contentType) {
		return p.writeRaw(b)
	}

	var formatted bytes.Buffer
	if err := json.Indent(&formatted, b, "", "    "); err != nil {
		return p.writeRaw(b)
	}
	formatted.WriteByte('\n')
	if _, err := formatted.WriteTo(p.writer); err != nil {
		return errors.Wrap(err, "printing body")
	}
	return nil
}

func (p *PrettyPrinter) writeRaw(b []byte) error {
	if _, err := p.writer.Write(b); err != nil {
		return errors.Wrap(err, "printing body")
	}
	return nil
}
