// internal/services/application/application-wizard/handler.go
package applicationwizard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	submitapplication "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/submit-application"
	validateapplicationdata "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/validate-application-data"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
)

const uploadField = "paymentScreenshot"

type Handler struct {
	config    *Config
	machine   *Machine
	sessions  *SessionStore
	submitter submitapplication.Submitter
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(
	config *Config,
	machine *Machine,
	sessions *SessionStore,
	submitter submitapplication.Submitter,
	errorHandler *apperrors.ErrorHandler,
	log logger.Logger,
) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config:    config,
		machine:   machine,
		sessions:  sessions,
		submitter: submitter,
		errors:    errorHandler,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Register mounts the wizard routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/wizard", h.Start).Methods(http.MethodPost)
	r.HandleFunc("/api/wizard/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/wizard/{id}", h.Update).Methods(http.MethodPatch)
	r.HandleFunc("/api/wizard/{id}/payment-proof", h.UploadPaymentProof).Methods(http.MethodPut)
	r.HandleFunc("/api/wizard/{id}/next", h.Next).Methods(http.MethodPost)
	r.HandleFunc("/api/wizard/{id}/back", h.Back).Methods(http.MethodPost)
	r.HandleFunc("/api/wizard/{id}/submit", h.Submit).Methods(http.MethodPost)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	state := h.machine.NewState()
	id, err := h.sessions.Create(r.Context(), state)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInternalError("Failed to start application", err), "Failed to start application")
		return
	}
	apperrors.WriteJSON(w, http.StatusCreated, SessionResponse{SessionID: id, State: state.Public()})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state, ok := h.load(w, r, id)
	if !ok {
		return
	}
	h.respond(w, id, state)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch FieldPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestError("Invalid request body"), "")
		return
	}
	h.apply(w, r, func(s *State) error { return h.machine.UpdateFields(s, patch) })
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.machine.Next)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.machine.Back)
}

// UploadPaymentProof accepts a multipart image under paymentScreenshot.
// Oversized bodies are recorded as a field error rather than read.
func (h *Handler) UploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	proof, err := h.readProof(w, r)
	if err != nil {
		h.errors.WriteError(w, r, err, "")
		return
	}
	h.apply(w, r, func(s *State) error { return h.machine.AttachPaymentProof(s, proof) })
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := r.Context()

	if err := h.sessions.Lock(ctx, id); err != nil {
		if errors.Is(err, ErrSubmitInProgress) {
			h.errors.WriteError(w, r, apperrors.NewInvalidStateTransitionError("submission already in progress"), "")
			return
		}
		h.errors.WriteError(w, r, apperrors.NewInternalError("Failed to submit application", err), "")
		return
	}
	defer func() {
		if err := h.sessions.Unlock(context.WithoutCancel(ctx), id); err != nil {
			h.logger.Warn("failed to release submit lock", map[string]interface{}{"sessionId": id, "error": err.Error()})
		}
	}()

	state, ok := h.load(w, r, id)
	if !ok {
		return
	}

	submitErr := h.machine.Submit(ctx, state, h.submitter)

	// Keep the session after a failure so the user can correct and retry.
	if submitErr != nil {
		if err := h.sessions.Save(context.WithoutCancel(ctx), id, state); err != nil {
			h.logger.Warn("failed to save wizard session", map[string]interface{}{"sessionId": id, "error": err.Error()})
		}
		h.errors.WriteError(w, r, submitErr, "")
		return
	}

	if err := h.sessions.Delete(context.WithoutCancel(ctx), id); err != nil {
		h.logger.Warn("failed to delete wizard session", map[string]interface{}{"sessionId": id, "error": err.Error()})
	}
	h.respond(w, id, state)
}

// apply loads the session, runs op and saves the result. Validation
// failures are saved too so the field errors survive a reload.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, op func(*State) error) {
	id := mux.Vars(r)["id"]
	state, ok := h.load(w, r, id)
	if !ok {
		return
	}

	opErr := op(state)
	if opErr != nil && !apperrors.HasCode(opErr, apperrors.ErrCodeValidationFailed) {
		h.errors.WriteError(w, r, opErr, "")
		return
	}

	if err := h.sessions.Save(r.Context(), id, state); err != nil {
		h.errors.WriteError(w, r, apperrors.NewInternalError("Failed to save application progress", err), "Failed to save application progress")
		return
	}

	if opErr != nil {
		h.errors.WriteError(w, r, opErr, "")
		return
	}
	h.respond(w, id, state)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, id string) (*State, bool) {
	state, err := h.sessions.Load(r.Context(), id)
	if errors.Is(err, ErrSessionNotFound) {
		h.errors.WriteError(w, r, apperrors.NewSessionNotFoundError(id), "")
		return nil, false
	}
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInternalError("Failed to load application progress", err), "Failed to load application progress")
		return nil, false
	}
	return state, true
}

func (h *Handler) respond(w http.ResponseWriter, id string, state *State) {
	apperrors.WriteJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: state.Public()})
}

func (h *Handler) readProof(w http.ResponseWriter, r *http.Request) (*models.PaymentProof, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &models.PaymentProof{Size: maxErr.Limit + 1}, nil
		}
		return nil, apperrors.NewFileConstraintError(validateapplicationdata.MsgFileMissing)
	}
	defer file.Close()

	if header.Size > h.config.MaxFileSize {
		return &models.PaymentProof{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		}, nil
	}

	data, err := io.ReadAll(io.LimitReader(file, h.config.MaxFileSize+1))
	if err != nil {
		return nil, apperrors.NewInvalidRequestError("Failed to read upload")
	}

	return &models.PaymentProof{
		Filename:    header.Filename,
		ContentType: mimetype.Detect(data).String(),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
