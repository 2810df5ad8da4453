package input

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ContentType is the kind of request body, serialized as a MIME type.
type ContentType int

const (
	ContentTypeText ContentType = iota
	ContentTypeJSON
	ContentTypeForm // application/x-www-form-urlencoded
	ContentTypeMultipart
)

var ContentTypes = []ContentType{
	ContentTypeText,
	ContentTypeJSON,
	ContentTypeForm,
	ContentTypeMultipart,
}

type UnknownContentTypeError struct {
	Text string
}

func (e *UnknownContentTypeError) Error() string {
	return "unknown content type: " + e.Text
}

// ParseContentType accepts a short alias (text, json, form, file) or the
// exact MIME type, case-insensitively.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(s) {
	case "text", "text/plain":
		return ContentTypeText, nil
	case "json", "application/json":
		return ContentTypeJSON, nil
	case "form", "application/x-www-form-urlencoded":
		return ContentTypeForm, nil
	case "file", "multipart/form-data":
		return ContentTypeMultipart, nil
	default:
		return ContentTypeText, errors.WithStack(&UnknownContentTypeError{Text: s})
	}
}

func (c ContentType) String() string {
	switch c {
	case ContentTypeText:
		return "text/plain"
	case ContentTypeJSON:
		return "application/json"
	case ContentTypeForm:
		return "application/x-www-form-urlencoded"
	case ContentTypeMultipart:
		return "multipart/form-data"
	default:
		return fmt.Sprintf("ContentType(%d)", int(c))
	}
}

// Alias returns the short name accepted by ParseContentType.
func (c ContentType) Alias() string {
	switch c {
	case ContentTypeText:
		return "text"
	case ContentTypeJSON:
		return "json"
	case ContentTypeForm:
		return "form"
	case ContentTypeMultipart:
		return "file"
	default:
		return ""
	}
}
