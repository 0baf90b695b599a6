package health

import (
	"net/http"
	"xtvredirect/lib/api/response"

	"github.com/go-chi/render"
)

// Health answers liveness probes from the hosting platform.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok(map[string]string{"status": "ok"}))
	}
}
