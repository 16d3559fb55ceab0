package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/analytics"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/repository"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"

	"golang.org/x/sync/errgroup"
)

type ReportService interface {
	Dashboard(ctx context.Context, q period.Query) (*analytics.KPISummary, error)
	RealTime(ctx context.Context) (*analytics.RealTimeSnapshot, error)
	ProfitLoss(ctx context.Context) ([]analytics.MonthlyProfitLoss, error)
	FinancialSummary(ctx context.Context, q period.Query) (*FinancialSummary, error)
	RentalSales(ctx context.Context, q period.Query) (*RentalSalesReport, error)
	OutstandingRentals(ctx context.Context, q period.Query) (*OutstandingReport, error)
	DriverPerformance(ctx context.Context, q period.Query) (*DriverReport, error)
	VehiclePerformance(ctx context.Context, q period.Query) (*VehicleReport, error)
	CustomerAnalysis(ctx context.Context, q period.Query) (*CustomerReport, error)
	OrderSources(ctx context.Context, q period.Query) (*OrderSourceReport, error)
}

// Repositories are the collections a report dataset is loaded from.
type Repositories struct {
	Vehicles     repository.VehicleRepository
	Transactions repository.EntityRepository[model.Transaction]
	Drivers      repository.EntityRepository[model.Driver]
	Customers    repository.EntityRepository[model.Customer]
	Expenses     repository.EntityRepository[model.Expense]
	Assignments  repository.EntityRepository[model.Assignment]
}

type reportService struct {
	repos Repositories
	cfg   *config.Config
}

func NewReportService(repos Repositories, cfg *config.Config) ReportService {
	return &reportService{repos: repos, cfg: cfg}
}

// load fetches every collection concurrently into a single dataset.
func (s *reportService) load(ctx context.Context) (*analytics.Dataset, error) {
	d := &analytics.Dataset{}
	g, gctx := errgroup.WithContext(ctx)

	fetch := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				s.cfg.Log.Error("Failed to load report data", "collection", name, "error", err)
				return apperrors.Internal("Failed to load report data", err)
			}
			return nil
		})
	}

	fetch("vehicles", func(ctx context.Context) (err error) {
		d.Vehicles, err = s.repos.Vehicles.FindAll(ctx)
		return err
	})
	fetch("transactions", func(ctx context.Context) (err error) {
		d.Transactions, err = s.repos.Transactions.FindAll(ctx)
		return err
	})
	fetch("drivers", func(ctx context.Context) (err error) {
		d.Drivers, err = s.repos.Drivers.FindAll(ctx)
		return err
	})
	fetch("customers", func(ctx context.Context) (err error) {
		d.Customers, err = s.repos.Customers.FindAll(ctx)
		return err
	})
	fetch("expenses", func(ctx context.Context) (err error) {
		d.Expenses, err = s.repos.Expenses.FindAll(ctx)
		return err
	})
	fetch("assignments", func(ctx context.Context) (err error) {
		d.Assignments, err = s.repos.Assignments.FindAll(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *reportService) resolve(q period.Query) (period.Period, error) {
	p, err := q.Resolve(s.cfg.Now())
	if err != nil {
		if errors.Is(err, period.ErrUnknownPeriod) || errors.Is(err, period.ErrInvalidRange) {
			return period.Period{}, apperrors.Validation("Invalid report period", map[string]any{
				"period": q.Token,
				"start":  q.Start,
				"end":    q.End,
				"reason": err.Error(),
			})
		}
		return period.Period{}, apperrors.Internal("Failed to resolve report period", err)
	}
	return p, nil
}

// prepare resolves the period before touching the store so a bad query
// never costs a dataset load.
func (s *reportService) prepare(ctx context.Context, q period.Query) (*analytics.Dataset, period.Period, error) {
	p, err := s.resolve(q)
	if err != nil {
		return nil, period.Period{}, err
	}
	d, err := s.load(ctx)
	if err != nil {
		return nil, period.Period{}, err
	}
	return d, p, nil
}

func (s *reportService) Dashboard(ctx context.Context, q period.Query) (*analytics.KPISummary, error) {
	d, p, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}
	k := analytics.Summarize(d, p)
	return &k, nil
}

func (s *reportService) RealTime(ctx context.Context) (*analytics.RealTimeSnapshot, error) {
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	snap := analytics.Snapshot(d, s.cfg.Now())
	return &snap, nil
}

func (s *reportService) ProfitLoss(ctx context.Context) ([]analytics.MonthlyProfitLoss, error) {
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ProfitLoss(d, s.cfg.Now()), nil
}

type FinancialSummary struct {
	Period             period.Period      `json:"period"`
	Revenue            float64            `json:"revenue"`
	Expenses           float64            `json:"expenses"`
	Profit             float64            `json:"profit"`
	Margin             float64            `json:"margin"`
	Outstanding        float64            `json:"outstanding"`
	CollectionRate     float64            `json:"collection_rate"`
	RevenueGrowth      float64            `json:"revenue_growth"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
}

func (s *reportService) FinancialSummary(ctx context.Context, q period.Query) (*FinancialSummary, error) {
	d, p, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	k := analytics.Summarize(d, p)
	expenses := d.ApprovedExpensesIn(p)

	spent := analytics.SumExpenses(expenses)
	profit := k.TotalRevenue - spent

	return &FinancialSummary{
		Period:             p,
		Revenue:            k.TotalRevenue,
		Expenses:           spent,
		Profit:             profit,
		Margin:             analytics.Margin(profit, k.TotalRevenue),
		Outstanding:        k.OutstandingAmount,
		CollectionRate:     k.CollectionRate,
		RevenueGrowth:      k.RevenueGrowth,
		ExpensesByCategory: analytics.ExpensesByCategory(expenses),
	}, nil
}

type RentalSale struct {
	TransactionID string              `json:"transaction_id"`
	CreatedAt     time.Time           `json:"created_at"`
	CustomerName  string              `json:"customer_name,omitempty"`
	VehicleID     string              `json:"vehicle_id,omitempty"`
	Vehicle       string              `json:"vehicle,omitempty"`
	OrderSource   string              `json:"order_source,omitempty"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	Amount        float64             `json:"amount"`
	Cost          float64             `json:"cost"`
	Profit        float64             `json:"profit"`
	Margin        float64             `json:"margin"`
}

type RentalSalesReport struct {
	Period      period.Period `json:"period"`
	Sales       []RentalSale  `json:"sales"`
	TotalAmount float64       `json:"total_amount"`
	TotalCost   float64       `json:"total_cost"`
	TotalProfit float64       `json:"total_profit"`
	Margin      float64       `json:"margin"`
}

// RentalSales lists in-period transactions, newest first.
func (s *reportService) RentalSales(ctx context.Context, q period.Query) (*RentalSalesReport, error) {
	d, p, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	names := vehicleNames(d.Vehicles)
	report := &RentalSalesReport{Period: p, Sales: make([]RentalSale, 0)}
	for _, t := range d.TransactionsIn(p) {
		profit := t.Amount - t.Cost
		report.Sales = append(report.Sales, RentalSale{
			TransactionID: t.ID,
			CreatedAt:     t.CreatedAt,
			CustomerName:  t.CustomerName,
			VehicleID:     t.VehicleID,
			Vehicle:       names[t.VehicleID],
			OrderSource:   t.OrderSource,
			PaymentStatus: t.PaymentStatus,
			Amount:        t.Amount,
			Cost:          t.Cost,
			Profit:        profit,
			Margin:        analytics.Margin(profit, t.Amount),
		})
		report.TotalAmount += t.Amount
		report.TotalCost += t.Cost
	}
	report.TotalProfit = report.TotalAmount - report.TotalCost
	report.Margin = analytics.Margin(report.TotalProfit, report.TotalAmount)

	sort.SliceStable(report.Sales, func(i, j int) bool {
		return report.Sales[i].CreatedAt.After(report.Sales[j].CreatedAt)
	})
	return report, nil
}

type OutstandingRental struct {
	TransactionID string              `json:"transaction_id"`
	CreatedAt     time.Time           `json:"created_at"`
	CustomerName  string              `json:"customer_name,omitempty"`
	VehicleID     string              `json:"vehicle_id,omitempty"`
	Vehicle       string              `json:"vehicle,omitempty"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	Amount        float64             `json:"amount"`
	PaidAmount    float64             `json:"paid_amount"`
	Outstanding   float64             `json:"outstanding"`
	DueDate       time.Time           `json:"due_date"`
	OverdueDays   int                 `json:"overdue_days"`
}

type OutstandingReport struct {
	Period           period.Period       `json:"period"`
	Rentals          []OutstandingRental `json:"rentals"`
	TotalOutstanding float64             `json:"total_outstanding"`
}

// OutstandingRentals lists unpaid in-period transactions, most overdue first.
func (s *reportService) OutstandingRentals(ctx context.Context, q period.Query) (*OutstandingReport, error) {
	d, p, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now()
	names := vehicleNames(d.Vehicles)
	report := &OutstandingReport{Period: p, Rentals: make([]OutstandingRental, 0)}
	for _, t := range analytics.Unpaid(d.TransactionsIn(p)) {
		report.Rentals = append(report.Rentals, OutstandingRental{
			TransactionID: t.ID,
			CreatedAt:     t.CreatedAt,
			CustomerName:  t.CustomerName,
			VehicleID:     t.VehicleID,
			Vehicle:       names[t.VehicleID],
			PaymentStatus: t.PaymentStatus,
			Amount:        t.Amount,
			PaidAmount:    t.PaidAmount,
			Outstanding:   t.Outstanding(),
			DueDate:       t.ImpliedDueDate(),
			OverdueDays:   analytics.OutstandingDays(t, now),
		})
		report.TotalOutstanding += t.Outstanding()
	}

	sort.SliceStable(report.Rentals, func(i, j int) bool {
		return report.Rentals[i].OverdueDays > report.Rentals[j].OverdueDays
	})
	return report, nil
}

type DriverReport struct {
	Period  period.Period                 `json:"period"`
	Drivers []analytics.DriverPerformance `json:"drivers"`
	Buckets map[string]int                `json:"buckets"`
}

func (s *reportService) DriverPerformance(ctx context.Context, q period.Query) (*DriverReport, error) {
	d, p, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	rows := analytics.DriverPerformanceIn(d, p)
	buckets := map[string]int{
		analytics.DriverTop:              0,
		analytics.DriverGood:             0,
		analytics.DriverAverage:          0,
		analytics.DriverNeedsImprovement: 0,
	}
	for _, r := range rows {
		buckets[r.Performance]++
	}
	return &DriverReport{Period: p, Drivers: rows, Buckets: buckets}, nil
}

type VehicleReport struct {
	Period   period.Period                  `json:"period"`
	Vehicles []analytics.VehiclePerformance `json:"vehicles"`
	Buckets  map[string]int                 `json:"buckets"`
}

func (s *reportService) VehiclePerformance(ctx context.Context, q period.Query) (*VehicleReport, error) {
	d, p, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	rows := analytics.VehiclePerformanceIn(d, p)
	buckets := map[string]int{
		analytics.VehicleExcellent: 0,
		analytics.VehicleGood:      0,
		analytics.VehicleAverage:   0,
		analytics.VehiclePoor:      0,
	}
	for _, r := range rows {
		buckets[r.Performance]++
	}
	return &VehicleReport{Period: p, Vehicles: rows, Buckets: buckets}, nil
}

type CustomerReport struct {
	Period    period.Period             `json:"period"`
	Customers []analytics.CustomerValue `json:"customers"`
	Segments  map[string]int            `json:"segments"`
}

func (s *reportService) CustomerAnalysis(ctx context.Context, q period.Query) (*CustomerReport, error) {
	d, p, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	values := analytics.CustomerValues(d, p)
	return &CustomerReport{
		Period:    p,
		Customers: values,
		Segments:  analytics.SegmentCounts(values),
	}, nil
}

type OrderSourceReport struct {
	Period  period.Period           `json:"period"`
	Sources []analytics.OrderSource `json:"sources"`
}

func (s *reportService) OrderSources(ctx context.Context, q period.Query) (*OrderSourceReport, error) {
	d, p, err := s.prepare(ctx, q)
	if err != nil {
		return nil, err
	}
	return &OrderSourceReport{Period: p, Sources: analytics.OrderSources(d, p)}, nil
}

func vehicleNames(vehicles []*model.Vehicle) map[string]string {
	names := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		names[v.ID] = v.DisplayName()
	}
	return names
}
