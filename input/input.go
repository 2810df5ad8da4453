package input

// Args is what the user typed, before validation.
type Args struct {
	Method      string
	URL         string
	Body        *string
	ContentType string // empty when not given
}

// RequestSpec is a validated request, ready to be sent once.
type RequestSpec struct {
	Method      Method
	URL         string
	Body        *string
	ContentType *ContentType // never nil when Body is set
}

// HasBody reports whether a request body was supplied (possibly empty).
func (s *RequestSpec) HasBody() bool {
	return s.Body != nil
}
