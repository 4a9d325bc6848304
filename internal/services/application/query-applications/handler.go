// internal/services/application/query-applications/handler.go
package queryapplications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	applicationstore "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/application-store"

	"github.com/gorilla/mux"
)

// Handler serves the applicant status lookup and the admin endpoints.
type Handler struct {
	store  applicationstore.Store
	errors *apperrors.ErrorHandler
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(store applicationstore.Store, errorHandler *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		store:  store,
		errors: errorHandler,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/application-status", h.Status).Methods(http.MethodGet)
	r.HandleFunc("/api/applications", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/applications/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/applications/{id}", h.UpdateStatus).Methods(http.MethodPatch)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestError(MsgEmailRequired), "")
		return
	}

	summaries, err := h.store.ListByEmail(r.Context(), email)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewDatabaseQueryFailedError(MsgFetchStatusFailed, err), MsgFetchStatusFailed)
		return
	}
	if summaries == nil {
		summaries = []models.StatusSummary{}
	}

	apperrors.WriteJSON(w, http.StatusOK, StatusResponse{Applications: summaries})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ApplicationFilter{
		Email:  strings.TrimSpace(q.Get("email")),
		Status: models.ApplicationStatus(strings.TrimSpace(q.Get("status"))),
	}

	apps, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewDatabaseQueryFailedError(MsgFetchListFailed, err), MsgFetchListFailed)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}

	apperrors.WriteJSON(w, http.StatusOK, apps)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	app, err := h.store.Get(r.Context(), id)
	if errors.Is(err, applicationstore.ErrNotFound) {
		h.errors.WriteError(w, r, apperrors.NewApplicationNotFoundError(id), "")
		return
	}
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewDatabaseQueryFailedError(MsgFetchOneFailed, err), MsgFetchOneFailed)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, app)
}

// UpdateStatus accepts {"status": ...} and nothing else.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestError(MsgInvalidRequestBody), "")
		return
	}

	result, err := statusUpdateSchema.Validate(body)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestError(MsgInvalidRequestBody), "")
		return
	}
	if !result.Valid {
		h.errors.WriteError(w, r, apperrors.NewValidationError(result.FirstMessage(), nil), "")
		return
	}

	status := models.ApplicationStatus(body["status"].(string))
	app, err := h.store.UpdateStatus(r.Context(), id, status, h.now())
	if errors.Is(err, applicationstore.ErrNotFound) {
		h.errors.WriteError(w, r, apperrors.NewApplicationNotFoundError(id), "")
		return
	}
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewDatabaseQueryFailedError(MsgUpdateFailed, err), MsgUpdateFailed)
		return
	}

	h.logger.Info("application status updated", map[string]interface{}{
		"applicationId": id,
		"status":        string(status),
	})
	apperrors.WriteJSON(w, http.StatusOK, app)
}
