package http_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/cajero/internal/api"
	"github.com/MrJamesThe3rd/cajero/internal/caja"
	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	cajeroHttp "github.com/MrJamesThe3rd/cajero/internal/http"
	"github.com/MrJamesThe3rd/cajero/internal/http/auth"
	cajaHandler "github.com/MrJamesThe3rd/cajero/internal/http/caja"
	catalogHandler "github.com/MrJamesThe3rd/cajero/internal/http/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/sandbox"
	"github.com/MrJamesThe3rd/cajero/internal/session"
	"github.com/MrJamesThe3rd/cajero/internal/storage"
	"github.com/MrJamesThe3rd/cajero/internal/storage/memory"
)

type stack struct {
	server   *httptest.Server
	demo     *sandbox.Demo
	backend  *memory.Backend
	client   *api.Client
	sessions *session.Service
	cajas    *caja.Service
	catalog  *catalog.Service
}

func newStack(t *testing.T) *stack {
	t.Helper()

	ledger := sandbox.NewLedger(nil)

	demo, err := sandbox.Seed(ledger, nil, bcrypt.MinCost)
	require.NoError(t, err)

	tokens := auth.NewTokens("test-secret", time.Hour)
	router := cajeroHttp.New(
		tokens,
		auth.NewHandler(ledger, tokens),
		cajaHandler.NewHandler(ledger),
		catalogHandler.NewHandler(ledger),
		[]string{"*"},
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL+"/api/", 5*time.Second)
	require.NoError(t, err)

	ctx := context.Background()
	backend := memory.New()
	store := storage.New(backend)

	sessions := session.NewService(ctx, client, store)
	client.SetTokenSource(sessions)

	cajas := caja.NewService(ctx, client, sessions, store)
	sessions.OnChange(cajas.Reset)

	return &stack{
		server:   srv,
		demo:     demo,
		backend:  backend,
		client:   client,
		sessions: sessions,
		cajas:    cajas,
		catalog:  catalog.NewService(client, sessions, 10),
	}
}

func TestEndToEnd_RegisterLifecycle(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	sess, err := s.sessions.Login(ctx, session.Credentials{Username: "cashier1", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, s.demo.Company.ID, sess.CompanyID())
	assert.Equal(t, "Kiosco Central", sess.Company.NombreEmpresa)

	points, err := s.catalog.PointsOfSale(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, points)

	opened, err := s.cajas.Open(ctx, caja.OpenParams{
		PuntoDeVenta: points[0].ID,
		NombreCaja:   "Turno Mañana",
		MontoInicial: "500",
	})
	require.NoError(t, err)
	assert.Equal(t, caja.StatusOpen, opened.Estado)
	assert.True(t, decimal.NewFromInt(500).Equal(opened.MontoInicial))
	assert.True(t, s.cajas.HasOpenRegisters())

	_, err = s.cajas.RecordMovement(ctx, caja.Movement{
		Tipo:        caja.MovementExpense,
		Monto:       decimal.NewFromInt(50),
		Descripcion: "Compra insumos",
	}, opened.ID)
	require.NoError(t, err)

	current, ok := s.cajas.OpenRegister(opened.ID)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(450).Equal(current.ExpectedBalance()), "expected balance comes from the server")

	diff := caja.ComputeDifference(current.ExpectedBalance(), decimal.NewFromInt(470))
	assert.Equal(t, caja.DifferenceSurplus, diff.Kind)
	assert.True(t, decimal.NewFromInt(20).Equal(diff.Amount))

	closed, err := s.cajas.Close(ctx, caja.CloseParams{MontoFinalReal: "470", ObservacionesCierre: "ok"}, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, caja.StatusClosed, closed.Estado)
	assert.False(t, s.cajas.HasOpenRegisters())

	open, err := s.cajas.ListOpen(ctx, sess.CompanyID(), 1, caja.Filters{Estado: caja.StatusOpen})
	require.NoError(t, err)

	for _, c := range open.Cajas {
		assert.NotEqual(t, opened.ID, c.ID)
	}

	detail, err := s.cajas.Get(ctx, opened.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Transacciones, 1)
	assert.Equal(t, "ok", detail.ObservacionesCierre)

	s.sessions.Logout(ctx)
	assert.Empty(t, s.backend.Snapshot())
}

func TestEndToEnd_OpenWithGarbageAmountSendsZero(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.sessions.Login(ctx, session.Credentials{Username: "cashier1", Password: "pw"})
	require.NoError(t, err)

	opened, err := s.cajas.Open(ctx, caja.OpenParams{PuntoDeVenta: "pv1", NombreCaja: "Turno", MontoInicial: "not-a-number"})
	require.NoError(t, err)
	assert.True(t, opened.MontoInicial.IsZero())
}

func TestEndToEnd_ServerErrorsReachTheUser(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.sessions.Login(ctx, session.Credentials{Username: "cashier1", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "Usuario o contraseña incorrectos", api.Message(err))
	assert.False(t, s.sessions.IsAuthenticated())

	_, err = s.sessions.Login(ctx, session.Credentials{Username: "cashier1", Password: "pw"})
	require.NoError(t, err)

	_, err = s.cajas.Open(ctx, caja.OpenParams{PuntoDeVenta: "pv1", NombreCaja: "Turno"})
	require.NoError(t, err)

	_, err = s.cajas.Open(ctx, caja.OpenParams{PuntoDeVenta: "pv1", NombreCaja: "Otro turno"})
	require.ErrorIs(t, err, api.ErrServer)
	assert.Equal(t, "Ya existe una caja abierta en este punto de venta", api.Message(err))
	assert.Len(t, s.cajas.OpenRegisters(), 1)
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newStack(t)

	resp, err := http.Get(s.server.URL + "/api/cajas/empresa/" + s.demo.Company.ID)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RejectsOtherCompany(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.sessions.Login(ctx, session.Credentials{Username: "cashier1", Password: "pw"})
	require.NoError(t, err)

	_, err = s.client.ListRegisters(ctx, "another-company", 1, 10, caja.Filters{})
	assert.True(t, api.IsStatus(err, http.StatusForbidden))
}

func TestRouter_RejectsMalformedBody(t *testing.T) {
	s := newStack(t)

	tokens := auth.NewTokens("test-secret", time.Hour)
	token, err := tokens.Issue(s.demo.Cashier)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/cajas/create", bytes.NewReader([]byte(`{"montoInicial":`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_HugePageIsEmptyNotAnError(t *testing.T) {
	s := newStack(t)

	tokens := auth.NewTokens("test-secret", time.Hour)
	token, err := tokens.Issue(s.demo.Cashier)
	require.NoError(t, err)

	for _, path := range []string{
		"/api/cajas/empresa/" + s.demo.Company.ID + "?page=500000000000000000&limit=20",
		"/api/cajas/empresa/" + s.demo.Company.ID + "?page=9223372036854775807&limit=100",
		"/api/products/empresa/" + s.demo.Company.ID + "?page=500000000000000000&limit=20",
	} {
		req, err := http.NewRequest(http.MethodGet, s.server.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
