package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/http/auth"
	"github.com/MrJamesThe3rd/cajero/internal/http/respond"
	"github.com/MrJamesThe3rd/cajero/internal/sandbox"
)

type Handler struct {
	ledger *sandbox.Ledger
}

func NewHandler(ledger *sandbox.Ledger) *Handler {
	return &Handler{ledger: ledger}
}

func (h *Handler) PointOfSaleRoutes(r chi.Router) {
	r.Get("/empresa/{id}", h.pointsOfSale)
}

func (h *Handler) ProductRoutes(r chi.Router) {
	r.Get("/empresa/{id}", h.products)
}

func (h *Handler) TicketRoutes(r chi.Router) {
	r.Get("/empresa/{id}", h.tickets)
}

func (h *Handler) pointsOfSale(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")
	if !auth.SameCompany(w, r, companyID) {
		return
	}

	respond.JSON(w, http.StatusOK, h.ledger.PointsOfSale(companyID))
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")
	if !auth.SameCompany(w, r, companyID) {
		return
	}

	page, limit := respond.PageParams(r)

	respond.JSON(w, http.StatusOK, h.ledger.Products(companyID, page, limit, r.URL.Query().Get("search")))
}

func (h *Handler) tickets(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")
	if !auth.SameCompany(w, r, companyID) {
		return
	}

	page, limit := respond.PageParams(r)

	filters := catalog.TicketFilters{
		PuntoVenta: r.URL.Query().Get("puntoVenta"),
		FechaDesde: respond.DateParam(r, "fechaDesde"),
		FechaHasta: respond.DateParam(r, "fechaHasta"),
	}

	respond.JSON(w, http.StatusOK, h.ledger.Tickets(companyID, page, limit, filters))
}
