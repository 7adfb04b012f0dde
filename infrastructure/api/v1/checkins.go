package v1

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scoutline/scoutline"
	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/api/middleware"
	"github.com/scoutline/scoutline/infrastructure/api/v1/dto"
	"github.com/scoutline/scoutline/internal/log"
)

// CheckInsRouter handles check-in endpoints.
type CheckInsRouter struct {
	client *scoutline.Client
	logger *log.Logger
}

// NewCheckInsRouter creates a new CheckInsRouter.
func NewCheckInsRouter(client *scoutline.Client) *CheckInsRouter {
	return &CheckInsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for check-in endpoints.
func (rt *CheckInsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", rt.List)
	router.Get("/{id}", rt.Get)
	router.Post("/{id}/review", rt.Review)

	return router
}

// List handles GET /api/v1/checkins.
func (rt *CheckInsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	filters := []query.Option{}
	if id, ok := queryID(req, "introduction_id"); ok {
		filters = append(filters, checkin.WithIntroduction(id))
	}
	if level := req.URL.Query().Get("risk_level"); level != "" {
		filters = append(filters, checkin.WithRiskLevel(checkin.RiskLevel(level)))
	}
	if raw := req.URL.Query().Get("flagged"); raw != "" {
		if flagged, err := strconv.ParseBool(raw); err == nil {
			filters = append(filters, checkin.WithFlagged(flagged))
		}
	}

	checkins, err := rt.client.CheckIns.List(ctx, append(filters, pagination.Options()...)...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	total, err := rt.client.CheckIns.Count(ctx, filters...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.CheckInListResponse{
		Data: dto.CheckInsFromDomain(checkins),
		Meta: pagination.Meta(total),
	})
}

// Get handles GET /api/v1/checkins/{id}.
func (rt *CheckInsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	c, err := rt.client.CheckIns.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.CheckInResponse{Data: dto.CheckInFromDomain(c)})
}

// Review handles POST /api/v1/checkins/{id}/review.
func (rt *CheckInsRouter) Review(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	var body dto.ReviewBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	c, err := rt.client.CheckIns.Review(req.Context(), id, body.Reviewer, body.Notes)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.CheckInResponse{Data: dto.CheckInFromDomain(c)})
}
