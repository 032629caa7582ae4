package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cajero/internal/http/respond"
	"github.com/MrJamesThe3rd/cajero/internal/sandbox"
	"github.com/MrJamesThe3rd/cajero/internal/session"
)

type Handler struct {
	ledger *sandbox.Ledger
	tokens *Tokens
}

func NewHandler(ledger *sandbox.Ledger, tokens *Tokens) *Handler {
	return &Handler{ledger: ledger, tokens: tokens}
}

// Routes mounts the public login route.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
}

// CompanyRoutes mounts the authenticated company routes.
func (h *Handler) CompanyRoutes(r chi.Router) {
	r.Get("/get/{id}", h.company)
}

type loginResponse struct {
	User  session.User `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if !respond.Decode(w, r, &creds) {
		return
	}

	if creds.Username == "" || creds.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Usuario y contraseña son obligatorios")
		return
	}

	user, err := h.ledger.Authenticate(creds.Username, creds.Password)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		respond.Error(w, http.StatusInternalServerError, "No se pudo iniciar sesión")

		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{User: user, Token: token})
}

func (h *Handler) company(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !SameCompany(w, r, id) {
		return
	}

	company, err := h.ledger.Company(id)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, company)
}
