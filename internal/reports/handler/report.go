package handler

import (
	"net/http"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reports/service"
	httputil "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/http"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"

	"github.com/julienschmidt/httprouter"
)

type ReportHandler struct {
	service service.ReportService
	log     *logger.Logger
}

func NewReportHandler(service service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log,
	}
}

// report adapts a period-scoped report into a route handler.
func (h *ReportHandler) report(name string, fn func(r *http.Request, q period.Query) (any, error)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data, err := fn(r, httputil.ExtractPeriodQuery(r))
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
			}
			return
		}

		if err := httputil.WriteSuccess(w, data); err != nil {
			h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
		}
	}
}

func (h *ReportHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reports/dashboard", h.report("Dashboard", func(r *http.Request, q period.Query) (any, error) {
		return h.service.Dashboard(r.Context(), q)
	}))
	router.GET("/api/v1/reports/realtime", h.report("RealTime", func(r *http.Request, _ period.Query) (any, error) {
		return h.service.RealTime(r.Context())
	}))
	router.GET("/api/v1/reports/profit-loss", h.report("ProfitLoss", func(r *http.Request, _ period.Query) (any, error) {
		return h.service.ProfitLoss(r.Context())
	}))
	router.GET("/api/v1/reports/financial-summary", h.report("FinancialSummary", func(r *http.Request, q period.Query) (any, error) {
		return h.service.FinancialSummary(r.Context(), q)
	}))
	router.GET("/api/v1/reports/rental-sales", h.report("RentalSales", func(r *http.Request, q period.Query) (any, error) {
		return h.service.RentalSales(r.Context(), q)
	}))
	router.GET("/api/v1/reports/outstanding-rentals", h.report("OutstandingRentals", func(r *http.Request, q period.Query) (any, error) {
		return h.service.OutstandingRentals(r.Context(), q)
	}))
	router.GET("/api/v1/reports/driver-performance", h.report("DriverPerformance", func(r *http.Request, q period.Query) (any, error) {
		return h.service.DriverPerformance(r.Context(), q)
	}))
	router.GET("/api/v1/reports/vehicle-performance", h.report("VehiclePerformance", func(r *http.Request, q period.Query) (any, error) {
		return h.service.VehiclePerformance(r.Context(), q)
	}))
	router.GET("/api/v1/reports/customer-analysis", h.report("CustomerAnalysis", func(r *http.Request, q period.Query) (any, error) {
		return h.service.CustomerAnalysis(r.Context(), q)
	}))
	router.GET("/api/v1/reports/order-sources", h.report("OrderSources", func(r *http.Request, q period.Query) (any, error) {
		return h.service.OrderSources(r.Context(), q)
	}))
}
