package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"moviegraph/internal/apperror"
	"moviegraph/internal/graph"
	"moviegraph/internal/logger"
	"moviegraph/internal/metrics"
	"moviegraph/internal/movies"
	"moviegraph/internal/query"

	"github.com/labstack/echo/v4"
)

const healthTimeout = 5 * time.Second

// GraphQuerier answers subgraph queries from raw query parameters.
type GraphQuerier interface {
	Graph(ctx context.Context, raw url.Values) (*graph.Subgraph, error)
}

// MovieCatalog serves the movie endpoints and the health check.
type MovieCatalog interface {
	Movie(ctx context.Context, title string) (*movies.Movie, error)
	Vote(ctx context.Context, title string) (*movies.VoteResult, error)
	Search(ctx context.Context, q string, offset, limit int64) ([]movies.SearchResult, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	graph   GraphQuerier
	catalog MovieCatalog
	log     *slog.Logger
}

func NewHandler(graph GraphQuerier, catalog MovieCatalog, log *slog.Logger) *Handler {
	return &Handler{
		graph:   graph,
		catalog: catalog,
		log:     log.With(logger.Scope("handler")),
	}
}

// Graph handles GET /graph.
func (h *Handler) Graph(c echo.Context) error {
	sg, err := h.graph.Graph(c.Request().Context(), c.QueryParams())
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, sg)
}

// Movie handles GET /movie/:title.
func (h *Handler) Movie(c echo.Context) error {
	movie, err := h.catalog.Movie(c.Request().Context(), c.Param("title"))
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, movie)
}

// Vote handles POST /movie/vote/:title.
func (h *Handler) Vote(c echo.Context) error {
	res, err := h.catalog.Vote(c.Request().Context(), c.Param("title"))
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// Search handles GET /search?q=&offset=&limit=.
func (h *Handler) Search(c echo.Context) error {
	var (
		q             string
		offset, limit int64
	)
	err := echo.QueryParamsBinder(c).
		MustString("q", &q).
		Int64("offset", &offset).
		Int64("limit", &limit).
		BindError()
	if err != nil {
		return apperror.NewBadRequest(err.Error())
	}

	results, err := h.catalog.Search(c.Request().Context(), q, offset, limit)
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, results)
}

// Health handles GET /health.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := h.catalog.Ping(ctx); err != nil {
		metrics.StoreErrors.WithLabelValues("health").Inc()
		return apperror.ErrUnavailable.WithMessage("healthcheck failed").WithInternal(err)
	}
	return c.String(http.StatusOK, "ok")
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, query.ErrInvalidRoot), errors.Is(err, movies.ErrInvalidTitle):
		return apperror.NewBadRequest(err.Error())
	case errors.Is(err, movies.ErrMovieNotFound):
		return apperror.ErrNotFound.WithMessage("movie not found")
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.ErrUnavailable.WithMessage("request timed out").WithInternal(err)
	default:
		return apperror.ErrDatabase.WithInternal(err)
	}
}
