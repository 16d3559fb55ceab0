package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/repository"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/vehicles/service"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/store"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	repo := repository.NewVehicleRepository(store.NewMemoryStore(), nil)
	for _, v := range []*model.Vehicle{
		{ID: "v-2", PlateNumber: "D 2222 BB", Status: model.VehicleBooked},
		{ID: "v-1", PlateNumber: "B 1111 AA", Status: model.VehicleAvailable},
		{ID: "v-3", PlateNumber: "L 3333 CC", Status: model.VehicleAvailable},
	} {
		require.NoError(t, repo.Save(context.Background(), v))
	}

	cfg := &config.Config{Log: logger.Discard()}
	router := httprouter.New()
	NewVehicleHandler(service.NewVehicleService(repo, cfg), cfg.Log).RegisterRoutes(router)
	return router
}

func get(t *testing.T, router http.Handler, path string) (int, map[string]json.RawMessage) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestVehicleHandler_GetAll(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		path      string
		wantCode  int
		wantPlate []string
	}{
		{path: "/api/v1/vehicles", wantCode: http.StatusOK, wantPlate: []string{"B 1111 AA", "D 2222 BB", "L 3333 CC"}},
		{path: "/api/v1/vehicles?status=available", wantCode: http.StatusOK, wantPlate: []string{"B 1111 AA", "L 3333 CC"}},
		{path: "/api/v1/vehicles?status=flying", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := get(t, router, tt.path)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantPlate == nil {
				return
			}

			var vehicles []model.Vehicle
			require.NoError(t, json.Unmarshal(body["data"], &vehicles))
			var plates []string
			for _, v := range vehicles {
				plates = append(plates, v.PlateNumber)
			}
			assert.Equal(t, tt.wantPlate, plates)
		})
	}
}

func TestVehicleHandler_GetByID(t *testing.T) {
	router := newRouter(t)

	code, body := get(t, router, "/api/v1/vehicles/id/v-2")
	assert.Equal(t, http.StatusOK, code)
	var v model.Vehicle
	require.NoError(t, json.Unmarshal(body["data"], &v))
	assert.Equal(t, model.VehicleBooked, v.Status)

	code, body = get(t, router, "/api/v1/vehicles/id/v-9")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `"`+apperrors.CodeNotFound+`"`, string(body["code"]))
}
