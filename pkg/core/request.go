package core

import (
	"maps"
	"net/http"
)

// Params holds query parameters. Nil values (including typed nil pointers) are
// dropped when the request is sent; everything else is rendered as a string.
type Params map[string]any

// Request describes one outbound call. Endpoint functions build it and hand it to
// the dispatcher; it is not modified after that.
type Request struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Query  Params `json:"query,omitempty"`
	Body   any    `json:"body,omitempty"`
	// BaseURL overrides the client-wide endpoint for this call.
	BaseURL string `json:"base_url,omitempty"`
}

// NewRequest creates a request. An empty method means GET.
func NewRequest(method, path string) *Request {
	if method == "" {
		method = http.MethodGet
	}
	return &Request{
		Method: method,
		Path:   path,
		Query:  make(Params),
	}
}

func (r *Request) SetQuery(key string, value any) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	r.Query[key] = value
	return r
}

func (r *Request) SetQueryParams(params Params) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	maps.Copy(r.Query, params)
	return r
}

func (r *Request) SetBody(body any) *Request {
	r.Body = body
	return r
}

func (r *Request) SetBaseURL(baseURL string) *Request {
	r.BaseURL = baseURL
	return r
}
