package handler

import (
	"encoding/json"
	"net/http"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reminders/service"
	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	httputil "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/http"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReminderHandler struct {
	service service.ReminderService
	log     *logger.Logger
}

func NewReminderHandler(service service.ReminderService, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		service: service,
		log:     log,
	}
}

func (h *ReminderHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reminders, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reminders); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var update model.ReminderUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	reminder, err := h.service.Acknowledge(r.Context(), id, &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reminder); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReminderHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reminders", h.GetAll)
	router.PATCH("/api/v1/reminders/id/:id", h.Update)
}
