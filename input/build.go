package input

import "strings"

// BuildRequestSpec validates args. The content type is guessed from the body
// when one was given without an explicit type.
func BuildRequestSpec(args *Args) (*RequestSpec, error) {
	method, err := ParseMethod(args.Method)
	if err != nil {
		return nil, err
	}

	spec := RequestSpec{
		Method: method,
		URL:    normalizeURL(args.URL),
	}

	if args.ContentType != "" {
		contentType, err := ParseContentType(args.ContentType)
		if err != nil {
			return nil, err
		}
		spec.ContentType = &contentType
	}

	if args.Body != nil {
		body := *args.Body
		spec.Body = &body
		if spec.ContentType == nil {
			guessed := GuessContentType(body)
			spec.ContentType = &guessed
		}
	}

	return &spec, nil
}

func normalizeURL(s string) string {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "http://" + s
}
