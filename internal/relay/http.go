package relay

import (
	"io"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// HTTPHandler adapts the relay to a plain net/http handler, the shape
// serverless Go runtimes invoke.
type HTTPHandler struct {
	relay *Relay
	cors  CORS
}

// NewHTTPHandler creates a net/http adapter that sets cors on every response.
func NewHTTPHandler(r *Relay, cors CORS) *HTTPHandler {
	return &HTTPHandler{relay: r, cors: cors}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.cors.Apply(w.Header(), r.Header.Get("Origin"))

	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, requestID)

	req := Request{Method: r.Method, RequestID: requestID}
	if r.Method == http.MethodPost && r.Body != nil {
		req.Body, req.ReadErr = io.ReadAll(r.Body)
	}

	resp := h.relay.Handle(r.Context(), req)
	if resp.StatusCode == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", AllowMethods)
	}
	write(w, resp)
}

func write(w http.ResponseWriter, resp Response) {
	if len(resp.Body) == 0 {
		w.WriteHeader(resp.StatusCode)
		return
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}
