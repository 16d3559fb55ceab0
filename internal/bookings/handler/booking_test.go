package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/middleware"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBookingService struct {
	createFunc func(ctx context.Context, b *model.Booking) error
	getAllFunc func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	updateFunc func(ctx context.Context, id string, u *model.BookingUpdate) (*model.Booking, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockBookingService) Create(ctx context.Context, b *model.Booking) error {
	return m.createFunc(ctx, b)
}

func (m *mockBookingService) GetByID(_ context.Context, id string) (*model.Booking, error) {
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.getAllFunc(ctx, limit, offset)
}

func (m *mockBookingService) Update(ctx context.Context, id string, u *model.BookingUpdate) (*model.Booking, error) {
	return m.updateFunc(ctx, id, u)
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details map[string]any  `json:"details"`
	Meta    *struct {
		TotalCount int64 `json:"total_count"`
		Limit      int   `json:"limit"`
		Offset     int64 `json:"offset"`
	} `json:"meta"`
}

func serve(t *testing.T, svc *mockBookingService, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	router := httprouter.New()
	NewBookingHandler(svc, logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestCreate(t *testing.T) {
	svc := &mockBookingService{createFunc: func(_ context.Context, b *model.Booking) error {
		b.ID = "0b6f3c3e-8a0e-4d38-9b7a-1f2d3c4b5a69"
		return nil
	}}

	rec, env := serve(t, svc, http.MethodPost, "/api/v1/bookings", `{"vehicle_id":"v-1","customer_name":"Andi"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var b model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Equal(t, "v-1", b.VehicleID)
	assert.NotEmpty(t, b.ID)
}

func TestCreate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "malformed body", body: `{"vehicle_id":`, wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeInvalidInput},
		{name: "vehicle unavailable", body: `{}`, err: apperrors.Conflict("Vehicle is not available"), wantStatus: http.StatusConflict, wantCode: apperrors.CodeConflict},
		{name: "vehicle not found", body: `{}`, err: apperrors.NotFoundWithID("Vehicle", "v-9"), wantStatus: http.StatusNotFound, wantCode: apperrors.CodeNotFound},
		{name: "validation", body: `{}`, err: apperrors.Validation("Invalid booking input", map[string]any{"EndDate": "EndDate must be after StartDate"}), wantStatus: http.StatusUnprocessableEntity, wantCode: apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{createFunc: func(context.Context, *model.Booking) error { return tt.err }}

			rec, env := serve(t, svc, http.MethodPost, "/api/v1/bookings", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestCreate_RateLimitedPerCustomerPhone(t *testing.T) {
	created := 0
	svc := &mockBookingService{createFunc: func(_ context.Context, b *model.Booking) error {
		created++
		return nil
	}}
	limiter := middleware.NewPhoneRateLimiter(1, time.Hour,
		middleware.JSONPhoneExtractor("customer_phone", func(phone string) string {
			return sanitizer.NormalizePhone(phone, "ID")
		}),
		logger.Discard(),
	)
	t.Cleanup(func() { _ = limiter.Close() })

	router := httprouter.New()
	NewBookingHandler(svc, logger.Discard()).WithCreateLimit(limiter).RegisterRoutes(router)
	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)))
		return rec
	}

	assert.Equal(t, http.StatusCreated, post(`{"vehicle_id":"v-1","customer_phone":"0812-3456-7890"}`).Code)

	rec := post(`{"vehicle_id":"v-2","customer_phone":"+62 812 3456 7890"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, apperrors.CodeRateLimited, env.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusCreated, post(`{"vehicle_id":"v-3","customer_phone":"081298765432"}`).Code)
	assert.Equal(t, 2, created)
}

func TestGetAll_Pagination(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	svc := &mockBookingService{getAllFunc: func(_ context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
		gotLimit, gotOffset = limit, offset
		return []*model.Booking{{ID: "b-1"}}, 42, nil
	}}

	rec, env := serve(t, svc, http.MethodGet, "/api/v1/bookings?limit=500&offset=-3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, gotLimit)
	assert.Equal(t, int64(0), gotOffset)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(42), env.Meta.TotalCount)

	rec, env = serve(t, svc, http.MethodGet, "/api/v1/bookings?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeInvalidInput, env.Code)
}

func TestGetByID_NotFound(t *testing.T) {
	rec, env := serve(t, &mockBookingService{}, http.MethodGet, "/api/v1/bookings/id/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Booking not found", env.Error)
	assert.Equal(t, "missing", env.Details["id"])
}

func TestUpdate(t *testing.T) {
	svc := &mockBookingService{updateFunc: func(_ context.Context, id string, u *model.BookingUpdate) (*model.Booking, error) {
		if u.Status == model.BookingCompleted {
			return nil, apperrors.Conflict("invalid booking status transition")
		}
		return &model.Booking{ID: id, Status: u.Status}, nil
	}}

	rec, env := serve(t, svc, http.MethodPatch, "/api/v1/bookings/id/b-1", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	var b model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Equal(t, model.BookingConfirmed, b.Status)

	rec, env = serve(t, svc, http.MethodPatch, "/api/v1/bookings/id/b-1", `{"status":"completed"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperrors.CodeConflict, env.Code)
}

func TestDelete(t *testing.T) {
	var deleted string
	svc := &mockBookingService{deleteFunc: func(_ context.Context, id string) error {
		deleted = id
		return nil
	}}

	rec, _ := serve(t, svc, http.MethodDelete, "/api/v1/bookings/id/b-7", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "b-7", deleted)
}
