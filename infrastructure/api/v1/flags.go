package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scoutline/scoutline"
	"github.com/scoutline/scoutline/domain/circumvention"
	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/api/middleware"
	"github.com/scoutline/scoutline/infrastructure/api/v1/dto"
	"github.com/scoutline/scoutline/internal/log"
)

// FlagsRouter handles circumvention flag endpoints.
type FlagsRouter struct {
	client *scoutline.Client
	logger *log.Logger
}

// NewFlagsRouter creates a new FlagsRouter.
func NewFlagsRouter(client *scoutline.Client) *FlagsRouter {
	return &FlagsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for flag endpoints.
func (rt *FlagsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", rt.List)
	router.Post("/", rt.Create)
	router.Get("/{id}", rt.Get)
	router.Post("/{id}/resolve", rt.Resolve)
	router.Put("/{id}/estimate", rt.UpdateEstimate)
	router.Post("/{id}/invoice", rt.SendInvoice)
	router.Post("/{id}/invoice/paid", rt.ConfirmInvoicePaid)
	router.Get("/{id}/notes", rt.ListNotes)
	router.Post("/{id}/notes", rt.AddNote)

	return router
}

// List handles GET /api/v1/flags.
func (rt *FlagsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	filters := []query.Option{}
	if s := req.URL.Query().Get("status"); s != "" {
		filters = append(filters, circumvention.WithStatus(circumvention.Status(s)))
	}
	if id, ok := queryID(req, "introduction_id"); ok {
		filters = append(filters, circumvention.WithIntroduction(id))
	}

	flags, err := rt.client.Flags.List(ctx, append(filters, pagination.Options()...)...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	total, err := rt.client.Flags.Count(ctx, filters...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.FlagListResponse{
		Data: dto.FlagsFromDomain(flags),
		Meta: pagination.Meta(total),
	})
}

// Create handles POST /api/v1/flags (manual flags).
func (rt *FlagsRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.ManualFlagBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	flag, err := rt.client.Flags.ManualFlag(req.Context(), body.IntroductionID, body.Evidence, body.EstimatedSalary, body.Actor)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, dto.FlagResponse{Data: dto.FlagFromDomain(flag)})
}

// Get handles GET /api/v1/flags/{id}.
func (rt *FlagsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	flag, err := rt.client.Flags.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FlagResponse{Data: dto.FlagFromDomain(flag)})
}

// Resolve handles POST /api/v1/flags/{id}/resolve.
func (rt *FlagsRouter) Resolve(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	var body dto.ResolveBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	flag, err := rt.client.Flags.Resolve(req.Context(), id, circumvention.Resolution(body.Resolution), body.Notes, body.Actor)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FlagResponse{Data: dto.FlagFromDomain(flag)})
}

// UpdateEstimate handles PUT /api/v1/flags/{id}/estimate.
func (rt *FlagsRouter) UpdateEstimate(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	var body dto.EstimateBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	flag, err := rt.client.Flags.UpdateEstimate(req.Context(), id, body.EstimatedSalary, body.FeePercentage)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FlagResponse{Data: dto.FlagFromDomain(flag)})
}

// SendInvoice handles POST /api/v1/flags/{id}/invoice.
func (rt *FlagsRouter) SendInvoice(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	var body dto.InvoiceBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	flag, err := rt.client.Flags.SendInvoice(req.Context(), id, body.Amount)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FlagResponse{Data: dto.FlagFromDomain(flag)})
}

// ConfirmInvoicePaid handles POST /api/v1/flags/{id}/invoice/paid.
func (rt *FlagsRouter) ConfirmInvoicePaid(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	flag, err := rt.client.Flags.ConfirmInvoicePaid(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FlagResponse{Data: dto.FlagFromDomain(flag)})
}

// ListNotes handles GET /api/v1/flags/{id}/notes.
func (rt *FlagsRouter) ListNotes(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	notes, err := rt.client.Flags.Notes(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.ReviewNoteListResponse{Data: dto.ReviewNotesFromDomain(notes)})
}

// AddNote handles POST /api/v1/flags/{id}/notes.
func (rt *FlagsRouter) AddNote(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	var body dto.NoteBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	note, err := rt.client.Flags.AddNote(req.Context(), id, body.Actor, body.Text)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, dto.ReviewNoteFromDomain(note))
}
