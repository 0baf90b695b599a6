package authenticate

import (
	"log/slog"
	"net/http"
	"strings"
	"xtvredirect/entity"
	"xtvredirect/lib/api/cont"
	"xtvredirect/lib/api/response"
	"xtvredirect/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Authenticate interface {
	AuthenticateByToken(token string) (*entity.ApiClient, error)
}

// New guards a route group with a bearer token. The authenticated client is
// stored in the request context for handlers.
func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	log = log.With(sl.Module("middleware.authenticate"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				reject(w, r, log, "Bearer token required", nil)
				return
			}
			if auth == nil {
				reject(w, r, log, "Authentication not enabled", nil)
				return
			}
			client, err := auth.AuthenticateByToken(token)
			if err != nil {
				reject(w, r, log, "Invalid token", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(cont.PutClient(r.Context(), client)))
		})
	}
}

func bearer(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}

func reject(w http.ResponseWriter, r *http.Request, log *slog.Logger, message string, err error) {
	attrs := []any{
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	}
	if err != nil {
		attrs = append(attrs, sl.Err(err))
	}
	log.Warn(message, attrs...)

	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(message))
}
