package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/analytics"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reports/service"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"
)

// Result carries a report payload. Stale is set when the server could not be
// reached and the payload is the last good copy, fetched at FetchedAt.
type Result[T any] struct {
	Data      T
	Stale     bool
	FetchedAt time.Time
}

type cachedPayload struct {
	data      json.RawMessage
	fetchedAt time.Time
}

// ReportClient reads the report endpoints. Transport failures and 5xx
// answers fall back to the last good payload of the same request; 4xx
// answers are returned as *APIError.
type ReportClient struct {
	httpClient *HttpClient
	clock      func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedPayload
}

func NewReportClient(baseUrl string) *ReportClient {
	return &ReportClient{
		httpClient: NewHttpClient(baseUrl),
		clock:      time.Now,
		cache:      make(map[string]cachedPayload),
	}
}

func fetch[T any](ctx context.Context, c *ReportClient, report string, q period.Query) (*Result[T], error) {
	path := "/api/v1/reports/" + report
	if params := queryParams(q); params != "" {
		path += "?" + params
	}

	resp, err := c.httpClient.GET(ctx, path)
	if err == nil && resp.StatusCode < http.StatusInternalServerError {
		var raw json.RawMessage
		if _, err := decode(resp, &raw); err != nil {
			return nil, err
		}
		var data T
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}

		now := c.clock()
		c.mu.Lock()
		c.cache[path] = cachedPayload{data: raw, fetchedAt: now}
		c.mu.Unlock()
		return &Result[T]{Data: data, FetchedAt: now}, nil
	}
	if err == nil {
		_, err = decode(resp, nil)
	}

	c.mu.RLock()
	cached, ok := c.cache[path]
	c.mu.RUnlock()
	if !ok {
		return nil, err
	}

	var data T
	if jsonErr := json.Unmarshal(cached.data, &data); jsonErr != nil {
		return nil, errors.Join(err, jsonErr)
	}
	return &Result[T]{Data: data, Stale: true, FetchedAt: cached.fetchedAt}, nil
}

func queryParams(q period.Query) string {
	v := url.Values{}
	if q.Token != "" {
		v.Set("period", q.Token)
	}
	if q.Start != "" {
		v.Set("start", q.Start)
	}
	if q.End != "" {
		v.Set("end", q.End)
	}
	return v.Encode()
}

func (c *ReportClient) Dashboard(ctx context.Context, q period.Query) (*Result[analytics.KPISummary], error) {
	return fetch[analytics.KPISummary](ctx, c, "dashboard", q)
}

func (c *ReportClient) RealTime(ctx context.Context) (*Result[analytics.RealTimeSnapshot], error) {
	return fetch[analytics.RealTimeSnapshot](ctx, c, "realtime", period.Query{})
}

func (c *ReportClient) ProfitLoss(ctx context.Context) (*Result[[]analytics.MonthlyProfitLoss], error) {
	return fetch[[]analytics.MonthlyProfitLoss](ctx, c, "profit-loss", period.Query{})
}

func (c *ReportClient) FinancialSummary(ctx context.Context, q period.Query) (*Result[service.FinancialSummary], error) {
	return fetch[service.FinancialSummary](ctx, c, "financial-summary", q)
}

func (c *ReportClient) RentalSales(ctx context.Context, q period.Query) (*Result[service.RentalSalesReport], error) {
	return fetch[service.RentalSalesReport](ctx, c, "rental-sales", q)
}

func (c *ReportClient) OutstandingRentals(ctx context.Context, q period.Query) (*Result[service.OutstandingReport], error) {
	return fetch[service.OutstandingReport](ctx, c, "outstanding-rentals", q)
}

func (c *ReportClient) DriverPerformance(ctx context.Context, q period.Query) (*Result[service.DriverReport], error) {
	return fetch[service.DriverReport](ctx, c, "driver-performance", q)
}

func (c *ReportClient) VehiclePerformance(ctx context.Context, q period.Query) (*Result[service.VehicleReport], error) {
	return fetch[service.VehicleReport](ctx, c, "vehicle-performance", q)
}

func (c *ReportClient) CustomerAnalysis(ctx context.Context, q period.Query) (*Result[service.CustomerReport], error) {
	return fetch[service.CustomerReport](ctx, c, "customer-analysis", q)
}

func (c *ReportClient) OrderSources(ctx context.Context, q period.Query) (*Result[service.OrderSourceReport], error) {
	return fetch[service.OrderSourceReport](ctx, c, "order-sources", q)
}
