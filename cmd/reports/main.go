package main

import (
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reports/handler"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reports/service"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/repository"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/app"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
)

const ServiceName = "reports"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStore()

	cfg.Log.Info("Starting Reports service")
	reportService := service.NewReportService(service.Repositories{
		Vehicles:     repository.NewVehicleRepository(cfg.Store, cfg.Now),
		Transactions: repository.NewTransactionRepository(cfg.Store),
		Drivers:      repository.NewDriverRepository(cfg.Store),
		Customers:    repository.NewCustomerRepository(cfg.Store),
		Expenses:     repository.NewExpenseRepository(cfg.Store),
		Assignments:  repository.NewAssignmentRepository(cfg.Store),
	}, cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewReportHandler(reportService, cfg.Log))
	serverApp.Run()
}
