package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
)

const IdempotencyHeader = "Idempotency-Key"

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

// Create submits a booking. A non-empty idempotency key makes retries of the
// same request return the first result.
func (c *BookingClient) Create(ctx context.Context, booking *model.Booking, idempotencyKey string) (*model.Booking, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{IdempotencyHeader: idempotencyKey}
	}

	resp, err := c.httpClient.POSTWithHeaders(ctx, "/api/v1/bookings", booking, headers)
	if err != nil {
		return nil, err
	}
	var created model.Booking
	if _, err := decode(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *BookingClient) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, *Metadata, error) {
	path := fmt.Sprintf("/api/v1/bookings?limit=%d&offset=%d", limit, offset)
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	var bookings []*model.Booking
	meta, err := decode(resp, &bookings)
	if err != nil {
		return nil, nil, err
	}
	return bookings, meta, nil
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if _, err := decode(resp, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) Update(ctx context.Context, id string, update *model.BookingUpdate) (*model.Booking, error) {
	resp, err := c.httpClient.PATCH(ctx, "/api/v1/bookings/id/"+url.PathEscape(id), update)
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if _, err := decode(resp, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) Delete(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	_, err = decode(resp, nil)
	return err
}

func (c *BookingClient) Reminders(ctx context.Context) ([]*model.Reminder, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/reminders")
	if err != nil {
		return nil, err
	}
	var reminders []*model.Reminder
	if _, err := decode(resp, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}
