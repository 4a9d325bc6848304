// internal/services/application/application-wizard/handler_test.go
package applicationwizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/database"
	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	submitapplication "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/submit-application"
	validateapplicationdata "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/validate-application-data"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type wizardEnv struct {
	mr        *miniredis.Miniredis
	router    *mux.Router
	sessions  *SessionStore
	submitter *fakeSubmitter
}

func newWizardEnv(t *testing.T) *wizardEnv {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := LoadConfig()
	log := &testLogger{t: t}
	sessions := NewSessionStore(database.NewRedisFromClient(client), cfg.SessionTTL, cfg.SubmitLockTTL)
	sub := &fakeSubmitter{result: &submitapplication.Result{ApplicationID: "665f1c2e8b3a4d0012345678", ProjectedReturn: 115000}}
	machine := NewMachine(cfg, validateapplicationdata.NewValidator(nil), log)

	h := NewHandler(cfg, machine, sessions, sub, apperrors.NewErrorHandler(log, false), log)
	router := mux.NewRouter()
	h.Register(router)

	return &wizardEnv{mr: mr, router: router, sessions: sessions, submitter: sub}
}

func (e *wizardEnv) do(t *testing.T, method, path string, body []byte, contentType string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func (e *wizardEnv) start(t *testing.T) string {
	rec, body := e.do(t, http.MethodPost, "/api/wizard", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := body["sessionId"].(string)
	require.NotEmpty(t, id)
	return id
}

func stateOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	state, ok := body["state"].(map[string]interface{})
	require.True(t, ok, "missing state in %v", body)
	return state
}

func multipartImage(t *testing.T, filename string, data []byte) ([]byte, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(uploadField, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestHandler_FullFlow(t *testing.T) {
	env := newWizardEnv(t)
	id := env.start(t)
	base := "/api/wizard/" + id

	details := []byte(`{"fullName":"Ada Obi","phone":"08012345678","email":"ada@example.com","investmentAmount":100000}`)
	rec, body := env.do(t, http.MethodPatch, base, details, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(115000), stateOf(t, body)["projectedReturn"])

	rec, body = env.do(t, http.MethodPost, base+"/next", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(models.StepBank), stateOf(t, body)["step"])

	bank := []byte(`{"accountName":"Ada Obi","bankName":"Access Bank","accountNumber":"0123456789"}`)
	rec, _ = env.do(t, http.MethodPatch, base, bank, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodPost, base+"/next", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	upload, ct := multipartImage(t, "receipt.png", pngHeader)
	rec, body = env.do(t, http.MethodPut, base+"/payment-proof", upload, ct)
	require.Equal(t, http.StatusOK, rec.Code)
	form := stateOf(t, body)["form"].(map[string]interface{})
	proof := form["paymentProof"].(map[string]interface{})
	assert.Equal(t, "image/png", proof["contentType"])
	assert.NotContains(t, proof, "data")

	rec, _ = env.do(t, http.MethodPost, base+"/next", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := stateOf(t, body)
	assert.Equal(t, float64(models.StepSuccess), state["step"])
	assert.Equal(t, "665f1c2e8b3a4d0012345678", state["applicationId"])

	assert.Equal(t, 1, env.submitter.calls)
	require.NotNil(t, env.submitter.form.PaymentProof)
	assert.Equal(t, pngHeader, env.submitter.form.PaymentProof.Data)

	assert.False(t, env.mr.Exists(sessionKey(id)))
	assert.False(t, env.mr.Exists(lockKey(id)))
}

func TestHandler_NextValidationPersistsFieldErrors(t *testing.T) {
	env := newWizardEnv(t)
	id := env.start(t)

	rec, body := env.do(t, http.MethodPost, "/api/wizard/"+id+"/next", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, validateapplicationdata.MsgCorrectErrors, body["error"])
	fieldErrors := body["fieldErrors"].(map[string]interface{})
	assert.Equal(t, "Full name is required", fieldErrors["fullName"])

	rec, body = env.do(t, http.MethodGet, "/api/wizard/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := stateOf(t, body)
	assert.Equal(t, float64(models.StepDetails), state["step"])
	assert.Equal(t, validateapplicationdata.MsgCorrectErrors, state["error"])
}

func TestHandler_Errors(t *testing.T) {
	env := newWizardEnv(t)
	id := env.start(t)

	rec, body := env.do(t, http.MethodGet, "/api/wizard/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Wizard session not found", body["error"])

	rec, _ = env.do(t, http.MethodPost, "/api/wizard/"+id+"/back", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/wizard/"+id+"/submit", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, env.submitter.calls)

	rec, body = env.do(t, http.MethodPatch, "/api/wizard/"+id, []byte(`{`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestHandler_UploadOversized(t *testing.T) {
	env := newWizardEnv(t)
	id := env.start(t)

	data := append(append([]byte{}, pngHeader...), make([]byte, 1<<20)...)
	upload, ct := multipartImage(t, "big.png", data)

	rec, body := env.do(t, http.MethodPut, "/api/wizard/"+id+"/payment-proof", upload, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, validateapplicationdata.MsgFileTooLarge, body["error"])

	state, err := env.sessions.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, state.Form.PaymentProof)
	assert.Equal(t, validateapplicationdata.MsgFileTooLarge, state.FieldErrors[validateapplicationdata.FieldPaymentProof])
}

func TestHandler_UploadMissingFile(t *testing.T) {
	env := newWizardEnv(t)
	id := env.start(t)

	rec, body := env.do(t, http.MethodPut, "/api/wizard/"+id+"/payment-proof", []byte("nope"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, validateapplicationdata.MsgFileMissing, body["error"])
}

func TestHandler_SubmitInProgress(t *testing.T) {
	env := newWizardEnv(t)
	id := env.start(t)

	require.NoError(t, env.mr.Set(lockKey(id), "1"))

	rec, _ := env.do(t, http.MethodPost, "/api/wizard/"+id+"/submit", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, env.submitter.calls)
}

func TestHandler_SubmitFailureKeepsSession(t *testing.T) {
	env := newWizardEnv(t)
	env.submitter.err = apperrors.NewValidationError("Invalid email format", nil)

	m := NewMachine(LoadConfig(), validateapplicationdata.NewValidator(nil), &testLogger{t: t})
	s := completeState(m)
	s.Step = models.StepReview
	id, err := env.sessions.Create(context.Background(), s)
	require.NoError(t, err)

	rec, body := env.do(t, http.MethodPost, "/api/wizard/"+id+"/submit", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email format", body["error"])

	saved, err := env.sessions.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StepReview, saved.Step)
	assert.Equal(t, "Invalid email format", saved.Error)
	assert.False(t, saved.Loading)
	assert.False(t, env.mr.Exists(lockKey(id)))
}

func TestSessionStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(database.NewRedisFromClient(client), 30*time.Minute, time.Minute)

	id, err := store.Create(context.Background(), &State{Step: models.StepDetails})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, mr.TTL(sessionKey(id)))

	mr.FastForward(31 * time.Minute)
	_, err = store.Load(context.Background(), id)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSessionStore_RedisErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewSessionStore(database.NewRedisFromClient(client), time.Minute, time.Minute)

	mock.ExpectGet(sessionKey("abc")).SetErr(errors.New("connection refused"))
	_, err := store.Load(context.Background(), "abc")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSessionNotFound))

	mock.ExpectSetNX(lockKey("abc"), "1", time.Minute).SetVal(false)
	err = store.Lock(context.Background(), "abc")
	assert.True(t, errors.Is(err, ErrSubmitInProgress))

	assert.NoError(t, mock.ExpectationsWereMet())
}
