package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cajero/internal/caja"
)

// IdempotencyHeader carries a per-call key on open and close so that the
// backend can recognize a resent request.
const IdempotencyHeader = "Idempotency-Key"

func idempotent() http.Header {
	return http.Header{IdempotencyHeader: []string{uuid.NewString()}}
}

func (c *Client) OpenRegister(ctx context.Context, req caja.OpenRequest) (*caja.CashRegister, error) {
	var out caja.CashRegister

	in := call{method: http.MethodPost, path: "cajas/create", body: req, header: idempotent()}
	if err := c.do(ctx, in, &out, "caja", "data"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) RecordMovement(ctx context.Context, registerID string, m caja.Movement) (*caja.Movement, error) {
	var out caja.Movement

	in := call{method: http.MethodPost, path: "cajas/" + pathID(registerID) + "/movimientos", body: m}
	if err := c.do(ctx, in, &out, "movimiento", "data"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CloseRegister(ctx context.Context, registerID string, req caja.CloseRequest) (*caja.CashRegister, error) {
	var out caja.CashRegister

	in := call{method: http.MethodPatch, path: "cajas/" + pathID(registerID) + "/cerrar", body: req, header: idempotent()}
	if err := c.do(ctx, in, &out, "caja", "data"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ListRegisters(ctx context.Context, companyID string, page, limit int, f caja.Filters) (*caja.ListResult, error) {
	q := pageQuery(page, limit)
	setIf(q, "estado", string(f.Estado))
	setIf(q, "puntoVenta", f.PuntoVenta)
	setIf(q, "vendedor", f.Vendedor)
	setDate(q, "fechaDesde", f.FechaDesde)
	setDate(q, "fechaHasta", f.FechaHasta)

	var out caja.ListResult

	in := call{method: http.MethodGet, path: "cajas/empresa/" + pathID(companyID), query: q}
	if err := c.do(ctx, in, &out, "data"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) GetRegister(ctx context.Context, id string) (*caja.CashRegister, error) {
	var out caja.CashRegister

	if err := c.do(ctx, call{method: http.MethodGet, path: "cajas/" + pathID(id)}, &out, "caja", "data"); err != nil {
		return nil, err
	}

	return &out, nil
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(page, 1)))

	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setDate(q url.Values, key string, t *time.Time) {
	if t != nil && !t.IsZero() {
		q.Set(key, t.Format(time.DateOnly))
	}
}
