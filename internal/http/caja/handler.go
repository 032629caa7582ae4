package caja

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cajero/internal/caja"
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

func (h *Handler) Routes(r chi.Router) {
	r.Post("/create", h.open)
	r.Get("/empresa/{id}", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/movimientos", h.recordMovement)
	r.Patch("/{id}/cerrar", h.close)
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	var req caja.OpenRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	claims := auth.FromContext(r.Context())

	c, err := h.ledger.OpenRegister(claims.CompanyID, r.Header.Get("Idempotency-Key"), req)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, c)
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request) {
	var m caja.Movement
	if !respond.Decode(w, r, &m) {
		return
	}

	claims := auth.FromContext(r.Context())

	recorded, err := h.ledger.RecordMovement(claims.CompanyID, chi.URLParam(r, "id"), m)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, recorded)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	var req caja.CloseRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	claims := auth.FromContext(r.Context())

	c, err := h.ledger.CloseRegister(claims.CompanyID, r.Header.Get("Idempotency-Key"), chi.URLParam(r, "id"), req)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())

	c, err := h.ledger.Register(claims.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")
	if !auth.SameCompany(w, r, companyID) {
		return
	}

	q := r.URL.Query()
	page, limit := respond.PageParams(r)

	filters := caja.Filters{
		Estado:     caja.Status(q.Get("estado")),
		PuntoVenta: q.Get("puntoVenta"),
		Vendedor:   q.Get("vendedor"),
		FechaDesde: respond.DateParam(r, "fechaDesde"),
		FechaHasta: respond.DateParam(r, "fechaHasta"),
	}

	respond.JSON(w, http.StatusOK, h.ledger.Registers(companyID, page, limit, filters))
}
