package api

import (
	"context"
	"net/http"

	"github.com/MrJamesThe3rd/cajero/internal/catalog"
)

func (c *Client) ListPointsOfSale(ctx context.Context, companyID string) ([]catalog.PointOfSale, error) {
	var out []catalog.PointOfSale

	in := call{method: http.MethodGet, path: "puntos-venta/empresa/" + pathID(companyID)}
	if err := c.do(ctx, in, &out, "puntosDeVenta", "data"); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) ListProducts(ctx context.Context, companyID string, page, limit int, search string) (*catalog.ProductPage, error) {
	q := pageQuery(page, limit)
	setIf(q, "search", search)

	var out catalog.ProductPage

	in := call{method: http.MethodGet, path: "products/empresa/" + pathID(companyID), query: q}
	if err := c.do(ctx, in, &out, "data"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ListTickets(ctx context.Context, companyID string, page, limit int, f catalog.TicketFilters) (*catalog.TicketPage, error) {
	q := pageQuery(page, limit)
	setIf(q, "puntoVenta", f.PuntoVenta)
	setDate(q, "fechaDesde", f.FechaDesde)
	setDate(q, "fechaHasta", f.FechaHasta)

	var out catalog.TicketPage

	in := call{method: http.MethodGet, path: "tickets/empresa/" + pathID(companyID), query: q}
	if err := c.do(ctx, in, &out, "data"); err != nil {
		return nil, err
	}

	return &out, nil
}
