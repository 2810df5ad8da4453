package input

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Method is one of the HTTP methods hreq knows how to send.
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
	MethodPatch
	MethodHead
	MethodOptions
)

// Methods lists every supported method in display order.
var Methods = []Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodPatch,
	MethodHead,
	MethodOptions,
}

type UnknownMethodError struct {
	Text string
}

func (e *UnknownMethodError) Error() string {
	return "unknown HTTP method: " + e.Text
}

// ParseMethod matches s case-insensitively against the supported methods.
func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(s) {
	case "GET":
		return MethodGet, nil
	case "POST":
		return MethodPost, nil
	case "PUT":
		return MethodPut, nil
	case "DELETE":
		return MethodDelete, nil
	case "PATCH":
		return MethodPatch, nil
	case "HEAD":
		return MethodHead, nil
	case "OPTIONS":
		return MethodOptions, nil
	default:
		return MethodGet, errors.WithStack(&UnknownMethodError{Text: s})
	}
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodDelete:
		return "DELETE"
	case MethodPatch:
		return "PATCH"
	case MethodHead:
		return "HEAD"
	case MethodOptions:
		return "OPTIONS"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// HTTPMethod returns the net/http constant for m.
func (m Method) HTTPMethod() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodDelete:
		return http.MethodDelete
	case MethodPatch:
		return http.MethodPatch
	case MethodHead:
		return http.MethodHead
	case MethodOptions:
		return http.MethodOptions
	default:
		return ""
	}
}
