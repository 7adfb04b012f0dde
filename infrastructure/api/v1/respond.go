package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scoutline/scoutline"
	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/infrastructure/api/middleware"
	"github.com/scoutline/scoutline/infrastructure/api/v1/dto"
	"github.com/scoutline/scoutline/internal/log"
)

// RespondRouter handles the public tokened response endpoints. These are
// the only unauthenticated routes: the single-use token is the credential.
type RespondRouter struct {
	client *scoutline.Client
	logger *log.Logger
}

// NewRespondRouter creates a new RespondRouter.
func NewRespondRouter(client *scoutline.Client) *RespondRouter {
	return &RespondRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for the public response endpoints.
func (rt *RespondRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/introductions/respond", rt.IntroductionRespond)
	router.Post("/checkins/respond", rt.CheckInRespond)

	return router
}

// IntroductionRespond handles POST /api/v1/introductions/respond.
func (rt *RespondRouter) IntroductionRespond(w http.ResponseWriter, req *http.Request) {
	var body dto.IntroRespondBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	intro, err := rt.client.Introductions.RespondToIntroduction(req.Context(), body.Token, introduction.Response(body.Response), body.Message)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.IntroductionResponse{Data: dto.IntroductionFromDomain(intro)})
}

// CheckInRespond handles POST /api/v1/checkins/respond.
func (rt *RespondRouter) CheckInRespond(w http.ResponseWriter, req *http.Request) {
	var body dto.CheckInRespondBody
	if err := decodeBody(req, &body); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	c, err := rt.client.CheckIns.Respond(req.Context(), body.Token, body.Reply)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.CheckInResponse{Data: dto.CheckInFromDomain(c)})
}
