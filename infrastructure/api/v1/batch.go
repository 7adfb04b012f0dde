package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scoutline/scoutline"
	"github.com/scoutline/scoutline/infrastructure/api/middleware"
	"github.com/scoutline/scoutline/internal/log"
)

// BatchRouter exposes the daily batch passes to the external scheduler.
// Every pass is idempotent, so a retried cron invocation is harmless.
type BatchRouter struct {
	client *scoutline.Client
	logger *log.Logger
}

// NewBatchRouter creates a new BatchRouter.
func NewBatchRouter(client *scoutline.Client) *BatchRouter {
	return &BatchRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for batch endpoints.
func (rt *BatchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/checkins", rt.RunCheckIns)
	router.Post("/protection", rt.RunProtection)
	router.Post("/payments", rt.RunPayments)

	return router
}

// RunCheckIns handles POST /api/v1/batch/checkins.
func (rt *BatchRouter) RunCheckIns(w http.ResponseWriter, req *http.Request) {
	report, err := rt.client.CheckIns.Run(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, report)
}

// RunProtection handles POST /api/v1/batch/protection.
func (rt *BatchRouter) RunProtection(w http.ResponseWriter, req *http.Request) {
	report, err := rt.client.Protection.Run(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, report)
}

// PaymentsReport is the batch response for the payment reminder pass.
type PaymentsReport struct {
	RemindersSent int64 `json:"reminders_sent"`
}

// RunPayments handles POST /api/v1/batch/payments.
func (rt *BatchRouter) RunPayments(w http.ResponseWriter, req *http.Request) {
	sent, err := rt.client.Payments.SendReminders(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, PaymentsReport{RemindersSent: sent})
}
