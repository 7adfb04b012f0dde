package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scoutline/scoutline"
	"github.com/scoutline/scoutline/domain/placement"
	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/api/middleware"
	"github.com/scoutline/scoutline/infrastructure/api/v1/dto"
	"github.com/scoutline/scoutline/internal/log"
)

// PlacementsRouter handles placement payment endpoints.
type PlacementsRouter struct {
	client *scoutline.Client
	logger *log.Logger
}

// NewPlacementsRouter creates a new PlacementsRouter.
func NewPlacementsRouter(client *scoutline.Client) *PlacementsRouter {
	return &PlacementsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for placement endpoints.
func (rt *PlacementsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", rt.List)
	router.Post("/", rt.Create)
	router.Get("/{id}", rt.Get)
	router.Post("/{id}/payments/upfront", rt.ConfirmUpfront)
	router.Post("/{id}/payments/remaining", rt.ConfirmRemaining)

	return router
}

// List handles GET /api/v1/placements.
func (rt *PlacementsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	filters := []query.Option{}
	if s := req.URL.Query().Get("payment_status"); s != "" {
		filters = append(filters, placement.WithPaymentStatus(placement.PaymentStatus(s)))
	}
	if id, ok := queryID(req, "introduction_id"); ok {
		filters = append(filters, placement.WithIntroduction(id))
	}

	placements, err := rt.client.Payments.List(ctx, append(filters, pagination.Options()...)...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	total, err := rt.client.Payments.Count(ctx, filters...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.PlacementListResponse{
		Data: dto.PlacementsFromDomain(placements),
		Meta: pagination.Meta(total),
	})
}

// Create handles POST /api/v1/placements.
func (rt *PlacementsRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.PlacementBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	p, err := rt.client.Payments.RecordPlacement(req.Context(), body.IntroductionID, body.EmployerEmail, body.CandidateName, body.StartDate, body.Salary)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, dto.PlacementResponse{Data: dto.PlacementFromDomain(p)})
}

// Get handles GET /api/v1/placements/{id}.
func (rt *PlacementsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	p, err := rt.client.Payments.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.PlacementResponse{Data: dto.PlacementFromDomain(p)})
}

// ConfirmUpfront handles POST /api/v1/placements/{id}/payments/upfront.
func (rt *PlacementsRouter) ConfirmUpfront(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	p, err := rt.client.Payments.ConfirmUpfront(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.PlacementResponse{Data: dto.PlacementFromDomain(p)})
}

// ConfirmRemaining handles POST /api/v1/placements/{id}/payments/remaining.
func (rt *PlacementsRouter) ConfirmRemaining(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	p, err := rt.client.Payments.ConfirmRemaining(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.PlacementResponse{Data: dto.PlacementFromDomain(p)})
}
