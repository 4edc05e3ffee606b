package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyahq/booking-api/internal/email"
	"github.com/aarogyahq/booking-api/internal/middleware"
	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	"github.com/aarogyahq/booking-api/internal/service/availability"
	"github.com/aarogyahq/booking-api/internal/service/booking"
	"github.com/aarogyahq/booking-api/pkg/logger"
	"github.com/aarogyahq/booking-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("token_handler_test", "test")

type fakeAvailabilityRepo struct {
	repository.AvailabilityRepository

	bookErr error
	avail   *model.DoctorAvailability
}

func (f *fakeAvailabilityRepo) BookToken(ctx context.Context, token *model.Token, event *model.OutboxEvent) (*model.DoctorAvailability, error) {
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	token.ID = uuid.New()
	token.QueueNum = f.avail.FilledTokenCount
	return f.avail, nil
}

func (f *fakeAvailabilityRepo) Upsert(ctx context.Context, upsert *repository.AvailabilityUpsert, event *model.OutboxEvent) (*model.DoctorAvailability, error) {
	return f.avail, nil
}

func (f *fakeAvailabilityRepo) GetDays(ctx context.Context, doctorID uuid.UUID, dates []string) (map[string]*model.DoctorAvailability, error) {
	return map[string]*model.DoctorAvailability{f.avail.Date: f.avail}, nil
}

type fakeTokenRepo struct {
	repository.TokenRepository

	token *model.Token
}

func (f *fakeTokenRepo) Get(ctx context.Context, id uuid.UUID) (*model.Token, error) {
	if f.token == nil {
		return nil, repository.ErrNotFound
	}
	return f.token, nil
}

type fakeUserRepo struct {
	repository.UserRepository

	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type testEnv struct {
	engine    *gin.Engine
	doctorID  uuid.UUID
	patientID uuid.UUID
	availRepo *fakeAvailabilityRepo
	tokenRepo *fakeTokenRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	doctorID, patientID := uuid.New(), uuid.New()
	availRepo := &fakeAvailabilityRepo{
		avail: &model.DoctorAvailability{
			DoctorID:         doctorID,
			Date:             model.Today(),
			TotalTokenCount:  10,
			FilledTokenCount: 3,
		},
	}
	tokenRepo := &fakeTokenRepo{}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		doctorID:  {Base: model.Base{ID: doctorID}, Name: "Dr. Asha", Roles: []model.Role{model.RoleDoctor}},
		patientID: {Base: model.Base{ID: patientID}, Name: "Ravi", Roles: []model.Role{model.RolePatient}},
	}}

	appLogger := logger.NewLogger(nil)
	bookingSvc := booking.NewService(availRepo, tokenRepo, userRepo, email.NewNoopSender(), testMetrics, appLogger)
	availabilitySvc := availability.NewService(availRepo, testMetrics, appLogger)

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.ErrorHandler())
	NewHandler(bookingSvc, availabilitySvc).RegisterRoutes(engine.Group("/v1"))

	return &testEnv{
		engine:    engine,
		doctorID:  doctorID,
		patientID: patientID,
		availRepo: availRepo,
		tokenRepo: tokenRepo,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func TestBookTokenEndpoint_Created(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/tokens/book", gin.H{
		"doctor_id":  env.doctorID,
		"user_id":    env.patientID,
		"token_date": model.Today(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Token struct {
				QueueNum int `json:"queue_num"`
			} `json:"token"`
			RemainingTokens int `json:"remaining_tokens"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 3, resp.Data.Token.QueueNum)
	assert.Equal(t, 7, resp.Data.RemainingTokens)
}

func TestBookTokenEndpoint_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
		wantMsg    string
	}{
		{"day full", repository.ErrNoTokensLeft, http.StatusBadRequest, "no more appointments available for this date"},
		{"stopped", repository.ErrBookingStopped, http.StatusBadRequest, "doctor is not accepting appointments for this date"},
		{"no availability", repository.ErrAvailabilityNotFound, http.StatusBadRequest, "doctor is not available for booking on this date"},
		{"queue race", repository.ErrDuplicateQueueNum, http.StatusConflict, "could not assign a queue number, please retry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.availRepo.bookErr = tt.repoErr

			rec := env.do(t, http.MethodPost, "/v1/tokens/book", gin.H{
				"doctor_id":  env.doctorID,
				"user_id":    env.patientID,
				"token_date": model.Today(),
			})
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var resp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.NotEmpty(t, resp.TraceID)
		})
	}
}

func TestBookTokenEndpoint_RejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/tokens/book", gin.H{
		"doctor_id": env.doctorID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTokenEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.tokenRepo.token = &model.Token{
		ID:        uuid.New(),
		DoctorID:  env.doctorID,
		UserID:    env.patientID,
		TokenDate: model.Today(),
		QueueNum:  2,
	}

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/v1/tokens/token/%s", env.tokenRepo.token.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/tokens/token/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTokenEndpoint_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/v1/tokens/token/%s", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpsertAvailabilityEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/tokens/doctor-availability", gin.H{
		"doctor_id":   env.doctorID,
		"date":        model.Today(),
		"token_count": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			AvailableTokens int `json:"available_tokens"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Data.AvailableTokens)
}

func TestAdjustCountersEndpoint_RejectsZeroDeltas(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/v1/tokens/doctor-availability/counters", gin.H{
		"doctor_id": env.doctorID,
		"date":      model.Today(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNextDaysEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/tokens/doctor-availability/next-days?doctor_id="+env.doctorID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			DoctorID       uuid.UUID         `json:"doctor_id"`
			Availabilities []json.RawMessage `json:"availabilities"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, env.doctorID, resp.Data.DoctorID)
	assert.Len(t, resp.Data.Availabilities, availability.NextDaysWindow)
}
