package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scoutline/scoutline"
	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/api/middleware"
	"github.com/scoutline/scoutline/infrastructure/api/v1/dto"
	"github.com/scoutline/scoutline/internal/domain"
	"github.com/scoutline/scoutline/internal/log"
)

// IntroductionsRouter handles introduction lifecycle endpoints.
type IntroductionsRouter struct {
	client *scoutline.Client
	logger *log.Logger
}

// NewIntroductionsRouter creates a new IntroductionsRouter.
func NewIntroductionsRouter(client *scoutline.Client) *IntroductionsRouter {
	return &IntroductionsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for introduction endpoints.
func (rt *IntroductionsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", rt.List)
	router.Get("/{id}", rt.Get)
	router.Post("/views", rt.RecordView)
	router.Post("/downloads", rt.RecordDownload)
	router.Post("/requests", rt.Request)
	router.Post("/{id}/final-checkin", rt.TriggerFinalCheckIn)

	return router
}

// List handles GET /api/v1/introductions.
func (rt *IntroductionsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	filters := []query.Option{}
	if s := req.URL.Query().Get("status"); s != "" {
		filters = append(filters, introduction.WithStatus(introduction.Status(s)))
	}
	if id, ok := queryID(req, "employer_id"); ok {
		filters = append(filters, introduction.WithEmployer(id))
	}
	if id, ok := queryID(req, "candidate_id"); ok {
		filters = append(filters, introduction.WithCandidate(id))
	}

	intros, err := rt.client.Introductions.List(ctx, append(filters, pagination.Options()...)...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	total, err := rt.client.Introductions.Count(ctx, filters...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.IntroductionListResponse{
		Data: dto.IntroductionsFromDomain(intros),
		Meta: pagination.Meta(total),
	})
}

// Get handles GET /api/v1/introductions/{id}.
func (rt *IntroductionsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	intro, err := rt.client.Introductions.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.IntroductionResponse{Data: dto.IntroductionFromDomain(intro)})
}

// RecordView handles POST /api/v1/introductions/views.
func (rt *IntroductionsRouter) RecordView(w http.ResponseWriter, req *http.Request) {
	var body dto.PairRequest
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	intro, err := rt.client.Introductions.RecordProfileView(req.Context(), body.EmployerID, body.CandidateID)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.IntroductionResponse{Data: dto.IntroductionFromDomain(intro)})
}

// RecordDownload handles POST /api/v1/introductions/downloads.
func (rt *IntroductionsRouter) RecordDownload(w http.ResponseWriter, req *http.Request) {
	var body dto.PairRequest
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	intro, err := rt.client.Introductions.RecordResumeDownload(req.Context(), body.EmployerID, body.CandidateID)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.IntroductionResponse{Data: dto.IntroductionFromDomain(intro)})
}

// Request handles POST /api/v1/introductions/requests.
func (rt *IntroductionsRouter) Request(w http.ResponseWriter, req *http.Request) {
	var body dto.IntroRequestBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	intro, err := rt.client.Introductions.RequestIntroduction(req.Context(), body.EmployerID, body.CandidateID, body.JobID, body.JobTitle)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusAccepted, dto.IntroductionResponse{Data: dto.IntroductionFromDomain(intro)})
}

// TriggerFinalCheckIn handles POST /api/v1/introductions/{id}/final-checkin.
func (rt *IntroductionsRouter) TriggerFinalCheckIn(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	c, err := rt.client.Protection.TriggerFinalCheckIn(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, dto.CheckInResponse{Data: dto.CheckInFromDomain(c)})
}

// pathID parses a numeric chi URL parameter.
func pathID(req *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(req, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrValidation, name)
	}
	return id, nil
}

// queryID parses an optional numeric query parameter.
func queryID(req *http.Request, name string) (int64, bool) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON request body.
func decodeBody(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err)
	}
	return nil
}
