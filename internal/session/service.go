// Package session owns login, logout and the persisted user/company pair.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/cajero/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("username and password are required")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNoCompany          = errors.New("user has no company assigned")
)

//go:generate mockgen -source=service.go -destination=gateway_mock.go -package=session
type Gateway interface {
	Login(ctx context.Context, creds Credentials) (*User, error)
	GetCompany(ctx context.Context, id string) (*Company, error)
}

// Service is the session controller. A user and company are always stored
// together: there is never one without the other.
type Service struct {
	gateway Gateway
	store   *storage.Store

	mu       sync.RWMutex
	current  *Session
	onChange []func()

	// loginToken is the token of a login still fetching its company.
	loginToken string
}

// NewService restores a previous session from store. A half-written session
// (only one of user and company present) is discarded.
func NewService(ctx context.Context, gateway Gateway, store *storage.Store) *Service {
	s := &Service{gateway: gateway, store: store}
	s.current = s.rehydrate(ctx)

	return s
}

func (s *Service) rehydrate(ctx context.Context) *Session {
	var (
		user    User
		company Company
	)

	hasUser := s.store.Read(ctx, storage.KeyUser, &user)
	hasCompany := s.store.Read(ctx, storage.KeyCompany, &company)

	if hasUser && hasCompany && user.Empresa.ID == company.ID {
		return &Session{User: user, Company: company}
	}

	if hasUser || hasCompany {
		slog.Warn("discarding incomplete stored session", "user", hasUser, "company", hasCompany)
	}

	s.store.Remove(ctx, storage.KeyUser, storage.KeyCompany, storage.KeyOpenRegisters)

	return nil
}

// OnChange registers fn to run after every login and logout.
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = append(s.onChange, fn)
}

// Login authenticates, fetches the user's company and persists both. Blank
// credentials fail with ErrInvalidCredentials without contacting the backend.
// On any failure the previous state is left as it was.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	found, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	user := *found

	if user.Empresa.IsZero() {
		return nil, ErrNoCompany
	}

	s.setLoginToken(user.Token)
	defer s.setLoginToken("")

	fetched, err := s.gateway.GetCompany(ctx, user.Empresa.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching company %s: %w", user.Empresa.ID, err)
	}

	company := *fetched

	if company.ID == "" {
		company.ID = user.Empresa.ID
	}

	if user.Empresa.Name == "" {
		user.Empresa.Name = company.NombreEmpresa
	}

	s.store.Remove(ctx, storage.KeyOpenRegisters)

	if !s.store.WriteAll(ctx,
		storage.Entry{Key: storage.KeyUser, Value: user},
		storage.Entry{Key: storage.KeyCompany, Value: company},
	) {
		slog.Warn("session could not be persisted, it will not survive a restart", "user", user.Username)
		// A restart must not bring back whoever was stored before.
		s.store.Remove(ctx, storage.KeyUser, storage.KeyCompany)
	}

	sess := &Session{User: user, Company: company}

	s.mu.Lock()
	s.current = sess
	hooks := s.onChange
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	slog.Info("logged in", "user", user.Username, "company", company.ID)

	return sess, nil
}

// Logout clears the session and everything stored for it.
func (s *Service) Logout(ctx context.Context) {
	s.store.Remove(ctx, storage.KeyUser, storage.KeyCompany, storage.KeyOpenRegisters)

	s.mu.Lock()
	s.current = nil
	hooks := s.onChange
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

func (s *Service) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Session{}, false
	}

	return *s.current, true
}

func (s *Service) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// RequireSession is Current for callers that cannot proceed without one.
func (s *Service) RequireSession() (Session, error) {
	sess, ok := s.Current()
	if !ok {
		return Session{}, ErrNotAuthenticated
	}

	return sess, nil
}

// Token is the bearer token of the current session, or of a login in
// progress, or "".
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loginToken != "" {
		return s.loginToken
	}

	if s.current == nil {
		return ""
	}

	return s.current.User.Token
}

func (s *Service) setLoginToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loginToken = tok
}
