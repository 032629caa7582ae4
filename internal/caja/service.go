// Package caja is the cash-register controller: open, record movements, close
// and list registers, keeping the company's open registers in memory and in
// the session store.
package caja

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/MrJamesThe3rd/cajero/internal/session"
	"github.com/MrJamesThe3rd/cajero/internal/storage"
)

// openListLimit is the page size used when loading the open registers.
const openListLimit = 100

//go:generate mockgen -source=service.go -destination=gateway_mock.go -package=caja
type Gateway interface {
	OpenRegister(ctx context.Context, req OpenRequest) (*CashRegister, error)
	RecordMovement(ctx context.Context, registerID string, m Movement) (*Movement, error)
	CloseRegister(ctx context.Context, registerID string, req CloseRequest) (*CashRegister, error)
	ListRegisters(ctx context.Context, companyID string, page, limit int, filters Filters) (*ListResult, error)
	GetRegister(ctx context.Context, id string) (*CashRegister, error)
}

type Sessions interface {
	RequireSession() (session.Session, error)
}

// Pending is a write still waiting for the backend.
type Pending struct {
	Op    string
	Since time.Time
}

type Service struct {
	gateway  Gateway
	sessions Sessions
	store    *storage.Store
	validate *validator.Validate
	now      func() time.Time
	pageSize int

	inflight singleflight.Group

	mu      sync.RWMutex
	open    []CashRegister
	pending map[string]time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for fechaApertura and pending timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewService loads the open registers persisted by a previous run.
func NewService(ctx context.Context, gateway Gateway, sessions Sessions, store *storage.Store, opts ...Option) *Service {
	s := &Service{
		gateway:  gateway,
		sessions: sessions,
		store:    store,
		validate: newValidator(),
		now:      time.Now,
		pageSize: 20,
		pending:  make(map[string]time.Time),
	}

	for _, opt := range opts {
		opt(s)
	}

	var stored openList
	if s.store.Read(ctx, storage.KeyOpenRegisters, &stored) {
		s.open = stored
	}

	return s
}

// Open creates a register. An empty, unparseable or negative opening amount
// is sent as 0.
func (s *Service) Open(ctx context.Context, p OpenParams) (*CashRegister, error) {
	sess, err := s.sessions.RequireSession()
	if err != nil {
		return nil, err
	}

	req := OpenRequest{
		Empresa:          sess.CompanyID(),
		PuntoDeVenta:     strings.TrimSpace(p.PuntoDeVenta),
		NombreCaja:       strings.TrimSpace(p.NombreCaja),
		VendedorAsignado: cmp.Or(strings.TrimSpace(p.VendedorAsignado), sess.UserID()),
		MontoInicial:     p.MontoInicial.OrZero(),
		FechaApertura:    s.now(),
	}

	if err := s.check(req); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("open:%s:%q:%s:%s", req.PuntoDeVenta, req.NombreCaja, req.VendedorAsignado, req.MontoInicial)

	created, err := guarded(s, key, func() (*CashRegister, error) {
		return s.gateway.OpenRegister(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("opening caja: %w", err)
	}

	s.refreshAfterWrite(ctx, func(list []CashRegister) []CashRegister {
		return append(without(list, created.ID), *created)
	})

	return created, nil
}

// RecordMovement adds a movement to an open register. The running balance
// is not touched locally; the open list is re-fetched instead.
func (s *Service) RecordMovement(ctx context.Context, m Movement, registerID string) (*Movement, error) {
	registerID = strings.TrimSpace(registerID)
	if registerID == "" {
		return nil, invalid("caja", "seleccione una caja")
	}

	m.Descripcion = strings.TrimSpace(m.Descripcion)
	if err := s.check(m); err != nil {
		return nil, err
	}

	if _, ok := s.OpenRegister(registerID); !ok {
		return nil, invalid("caja", "la caja no está abierta")
	}

	key := fmt.Sprintf("movement:%s:%s:%s:%s:%q", registerID, m.Tipo, m.Monto, m.MetodoPago, m.Descripcion)

	recorded, err := guarded(s, key, func() (*Movement, error) {
		return s.gateway.RecordMovement(ctx, registerID, m)
	})
	if err != nil {
		return nil, fmt.Errorf("recording movement on caja %s: %w", registerID, err)
	}

	s.refreshAfterWrite(ctx, nil)

	return recorded, nil
}

// Close finalizes a register. The open list changes only once the backend
// has confirmed the close.
func (s *Service) Close(ctx context.Context, p CloseParams, registerID string) (*CashRegister, error) {
	registerID = strings.TrimSpace(registerID)
	if registerID == "" {
		return nil, invalid("caja", "seleccione una caja")
	}

	sess, err := s.sessions.RequireSession()
	if err != nil {
		return nil, err
	}

	req := CloseRequest{
		MontoFinalReal:      p.MontoFinalReal.OrZero(),
		ObservacionesCierre: strings.TrimSpace(p.ObservacionesCierre),
		UsuarioCierre:       cmp.Or(strings.TrimSpace(p.UsuarioCierre), sess.UserID()),
	}

	if err := s.check(req); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("close:%s:%s:%s:%q", registerID, req.MontoFinalReal, req.UsuarioCierre, req.ObservacionesCierre)

	closed, err := guarded(s, key, func() (*CashRegister, error) {
		return s.gateway.CloseRegister(ctx, registerID, req)
	})
	if err != nil {
		return nil, fmt.Errorf("closing caja %s: %w", registerID, err)
	}

	s.refreshAfterWrite(ctx, func(list []CashRegister) []CashRegister {
		return without(list, registerID)
	})

	return closed, nil
}

// ListOpen queries registers of a company. Despite the name it honours any
// Estado filter; the zero Filters lists every register.
func (s *Service) ListOpen(ctx context.Context, companyID string, page int, filters Filters) (*ListResult, error) {
	if page < 1 {
		page = 1
	}

	res, err := s.gateway.ListRegisters(ctx, companyID, page, s.pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("listing cajas: %w", err)
	}

	return res, nil
}

// Refresh replaces the open list with the backend's view of the current
// company's open registers.
func (s *Service) Refresh(ctx context.Context) error {
	sess, err := s.sessions.RequireSession()
	if err != nil {
		return err
	}

	res, err := s.gateway.ListRegisters(ctx, sess.CompanyID(), 1, openListLimit, Filters{Estado: StatusOpen})
	if err != nil {
		return fmt.Errorf("refreshing open cajas: %w", err)
	}

	open := make([]CashRegister, 0, len(res.Cajas))
	for _, c := range res.Cajas {
		if c.IsOpen() {
			open = append(open, c)
		}
	}

	s.replace(ctx, open)

	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*CashRegister, error) {
	c, err := s.gateway.GetRegister(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching caja %s: %w", id, err)
	}

	return c, nil
}

// OpenRegisters returns a copy of the open list.
func (s *Service) OpenRegisters() []CashRegister {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.open)
}

func (s *Service) HasOpenRegisters() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.open) > 0
}

func (s *Service) OpenRegister(id string) (CashRegister, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.open, func(c CashRegister) bool { return c.ID == id })
	if i < 0 {
		return CashRegister{}, false
	}

	return s.open[i], true
}

// Reset forgets the open list without touching the store. The session
// controller clears the store itself on login and logout.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = nil
}

// InFlight lists the writes still waiting for the backend, oldest first.
func (s *Service) InFlight() []Pending {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Pending, 0, len(s.pending))
	for op, since := range s.pending {
		out = append(out, Pending{Op: op, Since: since})
	}

	slices.SortFunc(out, func(a, b Pending) int { return a.Since.Compare(b.Since) })

	return out
}

// refreshAfterWrite re-fetches the open list after a confirmed write. If the
// re-fetch fails, fallback (when set) is applied to the current list.
func (s *Service) refreshAfterWrite(ctx context.Context, fallback func([]CashRegister) []CashRegister) {
	err := s.Refresh(ctx)
	if err == nil {
		return
	}

	slog.Warn("refreshing open cajas after write", "error", err)

	if fallback == nil {
		return
	}

	s.replace(ctx, fallback(s.OpenRegisters()))
}

func (s *Service) replace(ctx context.Context, open []CashRegister) {
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()

	if len(open) == 0 {
		s.store.Remove(ctx, storage.KeyOpenRegisters)
		return
	}

	s.store.Write(ctx, storage.KeyOpenRegisters, openList(open))
}

// guarded runs fn once per key: a duplicate call made while the first is
// still pending waits for and shares its result. Keys carry every field of the
// request, so only identical submissions are shared.
func guarded[T any](s *Service, key string, fn func() (*T, error)) (*T, error) {
	s.mu.Lock()
	if _, ok := s.pending[key]; !ok {
		s.pending[key] = s.now()
	}
	s.mu.Unlock()

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		defer func() {
			s.mu.Lock()
			delete(s.pending, key)
			s.mu.Unlock()
		}()

		return fn()
	})
	if err != nil {
		return nil, err
	}

	return v.(*T), nil
}

func without(list []CashRegister, id string) []CashRegister {
	return slices.DeleteFunc(slices.Clone(list), func(c CashRegister) bool { return c.ID == id })
}
