package redirects

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"xtvredirect/entity"
	"xtvredirect/impl/core"
	"xtvredirect/lib/api/response"
	"xtvredirect/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	Stats(ctx context.Context) (*entity.Stats, error)
	Redirects(ctx context.Context, page int) (*entity.RedirectPage, error)
}

func Stats(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.redirects")
		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		stats, err := handler.Stats(r.Context())
		if err != nil {
			log.Error("stats", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Redirect store unavailable"))
			return
		}
		render.JSON(w, r, response.Ok(stats))
	}
}

func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.redirects")
		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		page := 0
		if p := r.URL.Query().Get("page"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 || n > core.MaxPage {
				log.Warn("invalid page", slog.String("page", p))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid page"))
				return
			}
			page = n
		}

		result, err := handler.Redirects(r.Context(), page)
		if err != nil {
			log.Error("list redirects", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Redirect store unavailable"))
			return
		}
		render.JSON(w, r, response.Ok(result))
	}
}
