package handler

import (
	"net/http"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/vehicles/service"
	httputil "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/http"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type VehicleHandler struct {
	service service.VehicleService
	log     *logger.Logger
}

func NewVehicleHandler(service service.VehicleService, log *logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		log:     log,
	}
}

func (h *VehicleHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := model.VehicleStatus(r.URL.Query().Get("status"))

	vehicles, err := h.service.GetAll(r.Context(), status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, vehicles); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	vehicle, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, vehicle); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VehicleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/vehicles", h.GetAll)
	router.GET("/api/v1/vehicles/id/:id", h.GetByID)
}
