package route

import (
	"mime"
	"net/http"
	"strings"

	"github.com/evergreen-ci/gimlet"
)

// NewJSONBodyMiddleware returns a middleware that only lets requests with a
// body through when the body is declared as JSON, and that caps the body at
// maxBytes.
func NewJSONBodyMiddleware(maxBytes int64) gimlet.Middleware {
	return gimlet.WrapperHandlerMiddleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}

			if !isJSONContentType(r.Header.Get("Content-Type")) {
				gimlet.WriteJSONResponse(w, http.StatusUnsupportedMediaType, gimlet.ErrorResponse{
					StatusCode: http.StatusUnsupportedMediaType,
					Message:    "request body must be sent as application/json",
				})
				return
			}

			if r.ContentLength > maxBytes {
				gimlet.WriteJSONResponse(w, http.StatusRequestEntityTooLarge, gimlet.ErrorResponse{
					StatusCode: http.StatusRequestEntityTooLarge,
					Message:    "request body is too large",
				})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	})
}

func isJSONContentType(header string) bool {
	if header == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}

	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
