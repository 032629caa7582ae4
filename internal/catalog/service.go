// Package catalog reads products, tickets and points of sale for the
// current company.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/cajero/internal/session"
)

// ErrSuperseded is returned by a fetch that a newer fetch of the same kind
// replaced before it finished. Callers drop it silently.
var ErrSuperseded = errors.New("superseded by a newer request")

//go:generate mockgen -source=service.go -destination=gateway_mock.go -package=catalog
type Gateway interface {
	ListPointsOfSale(ctx context.Context, companyID string) ([]PointOfSale, error)
	ListProducts(ctx context.Context, companyID string, page, limit int, search string) (*ProductPage, error)
	ListTickets(ctx context.Context, companyID string, page, limit int, filters TicketFilters) (*TicketPage, error)
}

type Sessions interface {
	RequireSession() (session.Session, error)
}

type Service struct {
	gateway  Gateway
	sessions Sessions
	pageSize int

	products latest
	tickets  latest
}

func NewService(gateway Gateway, sessions Sessions, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = 20
	}

	return &Service{gateway: gateway, sessions: sessions, pageSize: pageSize}
}

// PointsOfSale lists the active points of sale of the current company.
func (s *Service) PointsOfSale(ctx context.Context) ([]PointOfSale, error) {
	sess, err := s.sessions.RequireSession()
	if err != nil {
		return nil, err
	}

	all, err := s.gateway.ListPointsOfSale(ctx, sess.CompanyID())
	if err != nil {
		return nil, fmt.Errorf("listing points of sale: %w", err)
	}

	active := make([]PointOfSale, 0, len(all))
	for _, p := range all {
		if p.Activo {
			active = append(active, p)
		}
	}

	return active, nil
}

// Products searches the product catalog. Starting a new search cancels the
// one still running, which then returns ErrSuperseded.
func (s *Service) Products(ctx context.Context, page int, search string) (*ProductPage, error) {
	sess, err := s.sessions.RequireSession()
	if err != nil {
		return nil, err
	}

	ctx, seq, done := s.products.begin(ctx)
	defer done()

	res, err := s.gateway.ListProducts(ctx, sess.CompanyID(), max(page, 1), s.pageSize, strings.TrimSpace(search))
	if !s.products.current(seq) {
		return nil, ErrSuperseded
	}

	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return res, nil
}

// Tickets lists sales tickets, newest first as the backend returns them.
func (s *Service) Tickets(ctx context.Context, page int, filters TicketFilters) (*TicketPage, error) {
	sess, err := s.sessions.RequireSession()
	if err != nil {
		return nil, err
	}

	ctx, seq, done := s.tickets.begin(ctx)
	defer done()

	res, err := s.gateway.ListTickets(ctx, sess.CompanyID(), max(page, 1), s.pageSize, filters)
	if !s.tickets.current(seq) {
		return nil, ErrSuperseded
	}

	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}

	return res, nil
}
