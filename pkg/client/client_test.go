package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/analytics"
	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	httputil "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/http"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportClient_FallsBackToLastGoodPayload(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/dashboard", r.URL.Path)
		assert.Equal(t, "week", r.URL.Query().Get("period"))
		if failing.Load() {
			_ = httputil.WriteError(w, apperrors.Unavailable("store"))
			return
		}
		_ = httputil.WriteSuccess(w, analytics.KPISummary{TotalRevenue: 1_250_000, TransactionCount: 3})
	}))

	c := NewReportClient(srv.URL)
	fetchedAt := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	c.clock = func() time.Time { return fetchedAt }
	ctx := context.Background()
	q := period.Query{Token: "week"}

	fresh, err := c.Dashboard(ctx, q)
	require.NoError(t, err)
	assert.False(t, fresh.Stale)
	assert.Equal(t, 1_250_000.0, fresh.Data.TotalRevenue)

	failing.Store(true)
	stale, err := c.Dashboard(ctx, q)
	require.NoError(t, err)
	assert.True(t, stale.Stale)
	assert.Equal(t, 3, stale.Data.TransactionCount)
	assert.True(t, stale.FetchedAt.Equal(fetchedAt))

	srv.Close()
	stale, err = c.Dashboard(ctx, q)
	require.NoError(t, err)
	assert.True(t, stale.Stale)
}

func TestReportClient_NoCacheReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httputil.WriteError(w, apperrors.Unavailable("store"))
	}))
	defer srv.Close()

	_, err := NewReportClient(srv.URL).OrderSources(context.Background(), period.Query{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestReportClient_ClientErrorsAreNotMasked(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_ = httputil.WriteSuccess(w, map[string]any{"revenue": 10})
			return
		}
		_ = httputil.WriteError(w, apperrors.Validation("Invalid report period", nil))
	}))
	defer srv.Close()

	c := NewReportClient(srv.URL)
	q := period.Query{Start: "2025-03-01", End: "2025-03-10"}

	first, err := c.FinancialSummary(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 10.0, first.Data.Revenue)

	_, err = c.FinancialSummary(context.Background(), q)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apperrors.CodeValidation, apiErr.Code)
}

func TestBookingClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			assert.Equal(t, "key-1", r.Header.Get(IdempotencyHeader))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_ = httputil.WriteCreated(w, model.Booking{ID: "b-1", VehicleID: "v-1", Status: model.BookingPending})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/bookings":
			_ = httputil.WritePaginated(w, []model.Booking{{ID: "b-1"}}, 7, 1, 0)
		case r.Method == http.MethodDelete:
			httputil.WriteNoContent(w)
		default:
			_ = httputil.WriteError(w, apperrors.NotFoundWithID("Booking", "b-9"))
		}
	}))
	defer srv.Close()

	c := NewBookingClient(srv.URL)
	ctx := context.Background()

	created, err := c.Create(ctx, &model.Booking{VehicleID: "v-1"}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "b-1", created.ID)

	list, meta, err := c.GetAll(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), meta.TotalCount)

	require.NoError(t, c.Delete(ctx, "b-1"))

	_, err = c.GetByID(ctx, "b-9")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apperrors.CodeNotFound, apiErr.Code)
}
