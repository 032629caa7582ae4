// Package sandbox is an in-memory stand-in for the POS backend: enough of
// its behaviour to run the client end to end without the real service.
package sandbox

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/cajero/internal/caja"
	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/record"
	"github.com/MrJamesThe3rd/cajero/internal/session"
)

type account struct {
	user session.User
	hash []byte
}

// Ledger holds every resource of the sandbox. All methods are safe for
// concurrent use.
type Ledger struct {
	mu  sync.Mutex
	now func() time.Time

	accounts  map[string]account
	companies map[string]session.Company
	points    []catalog.PointOfSale
	products  []catalog.Product
	tickets   []catalog.Ticket
	registers map[string]*caja.CashRegister

	// replies remembers the response to each idempotency key, scoped by
	// company and operation.
	replies map[string]caja.CashRegister
}

func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}

	return &Ledger{
		now:       now,
		accounts:  make(map[string]account),
		companies: make(map[string]session.Company),
		registers: make(map[string]*caja.CashRegister),
		replies:   make(map[string]caja.CashRegister),
	}
}

func (l *Ledger) AddCompany(c session.Company) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.companies[c.ID] = c
}

// AddUser registers an account. The password is kept only as a bcrypt hash.
func (l *Ledger) AddUser(u session.User, password string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	u.Token = ""
	l.accounts[u.Username] = account{user: u, hash: hash}

	return nil
}

func (l *Ledger) AddPointOfSale(p catalog.PointOfSale) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.points = append(l.points, p)
}

func (l *Ledger) AddProducts(ps ...catalog.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.products = append(l.products, ps...)
}

func (l *Ledger) AddTicket(t catalog.Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tickets = append(l.tickets, t)
}

// Authenticate checks a username/password pair.
func (l *Ledger) Authenticate(username, password string) (session.User, error) {
	l.mu.Lock()
	acc, ok := l.accounts[strings.TrimSpace(username)]
	l.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return session.User{}, fail(ErrUnauthorized, "Usuario o contraseña incorrectos")
	}

	return acc.user, nil
}

func (l *Ledger) Company(id string) (session.Company, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.companies[id]
	if !ok {
		return session.Company{}, fail(ErrNotFound, "Empresa no encontrada")
	}

	return c, nil
}

func (l *Ledger) PointsOfSale(companyID string) []catalog.PointOfSale {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []catalog.PointOfSale{}

	for _, p := range l.points {
		if p.Empresa.ID == companyID {
			out = append(out, p)
		}
	}

	return out
}

// Products pages through a company's products, matching search against code
// and name without regard to case.
func (l *Ledger) Products(companyID string, page, limit int, search string) catalog.ProductPage {
	l.mu.Lock()
	defer l.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(search))

	var matches []catalog.Product

	for _, p := range l.products {
		if p.Empresa.ID != companyID {
			continue
		}

		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Nombre), needle) &&
			!strings.Contains(strings.ToLower(p.Codigo), needle) {
			continue
		}

		matches = append(matches, p)
	}

	items, pg := paginate(matches, page, limit)

	return catalog.ProductPage{Products: items, Pagination: pg}
}

func (l *Ledger) Tickets(companyID string, page, limit int, f catalog.TicketFilters) catalog.TicketPage {
	l.mu.Lock()
	defer l.mu.Unlock()

	var matches []catalog.Ticket

	for _, t := range l.tickets {
		if l.pointCompany(t.PuntoDeVenta.ID) != companyID {
			continue
		}

		if f.PuntoVenta != "" && t.PuntoDeVenta.ID != f.PuntoVenta {
			continue
		}

		if !withinDays(t.Fecha, f.FechaDesde, f.FechaHasta) {
			continue
		}

		matches = append(matches, t)
	}

	slices.SortStableFunc(matches, func(a, b catalog.Ticket) int { return b.Fecha.Compare(a.Fecha) })

	items, pg := paginate(matches, page, limit)

	return catalog.TicketPage{Tickets: items, Pagination: pg}
}

// OpenRegister creates a register for the caller's company. A repeated key
// returns the first reply without opening a second register.
func (l *Ledger) OpenRegister(companyID, key string, req caja.OpenRequest) (caja.CashRegister, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	replyKey := scopedKey(companyID, "open", key)
	if reply, ok := l.replies[replyKey]; ok && key != "" {
		return reply, nil
	}

	if req.Empresa != companyID {
		return caja.CashRegister{}, fail(ErrInvalid, "La empresa no coincide con la sesión")
	}

	point, ok := l.point(req.PuntoDeVenta)
	if !ok || point.Empresa.ID != companyID {
		return caja.CashRegister{}, fail(ErrInvalid, "Punto de venta inválido")
	}

	if !point.Activo {
		return caja.CashRegister{}, fail(ErrInvalid, "El punto de venta está inactivo")
	}

	if strings.TrimSpace(req.NombreCaja) == "" {
		return caja.CashRegister{}, fail(ErrInvalid, "El nombre de la caja es obligatorio")
	}

	if req.MontoInicial.IsNegative() {
		return caja.CashRegister{}, fail(ErrInvalid, "El monto inicial no puede ser negativo")
	}

	for _, c := range l.registers {
		if c.IsOpen() && c.PuntoDeVenta.ID == point.ID {
			return caja.CashRegister{}, fail(ErrConflict, "Ya existe una caja abierta en este punto de venta")
		}
	}

	opened := req.FechaApertura
	if opened.IsZero() {
		opened = l.now()
	}

	c := &caja.CashRegister{
		ID:                  uuid.NewString(),
		Empresa:             record.Ref{ID: companyID, Name: l.companies[companyID].NombreEmpresa},
		PuntoDeVenta:        record.Ref{ID: point.ID, Name: point.Nombre},
		NombreCaja:          strings.TrimSpace(req.NombreCaja),
		VendedorAsignado:    l.userRef(req.VendedorAsignado),
		MontoInicial:        req.MontoInicial,
		FechaApertura:       opened,
		Estado:              caja.StatusOpen,
		MontoEsperadoEnCaja: decimal.NewNullDecimal(req.MontoInicial),
	}

	l.registers[c.ID] = c
	reply := copyRegister(c)

	if key != "" {
		l.replies[replyKey] = reply
	}

	return reply, nil
}

// RecordMovement appends m to an open register and moves its expected
// balance: ingresos add, egresos subtract.
func (l *Ledger) RecordMovement(companyID, registerID string, m caja.Movement) (caja.Movement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.register(companyID, registerID)
	if err != nil {
		return caja.Movement{}, err
	}

	if !c.IsOpen() {
		return caja.Movement{}, fail(ErrConflict, "La caja está cerrada")
	}

	switch {
	case m.Tipo != caja.MovementIncome && m.Tipo != caja.MovementExpense:
		return caja.Movement{}, fail(ErrInvalid, "Tipo de movimiento inválido")
	case !m.Monto.IsPositive():
		return caja.Movement{}, fail(ErrInvalid, "El monto debe ser mayor a cero")
	case strings.TrimSpace(m.Descripcion) == "":
		return caja.Movement{}, fail(ErrInvalid, "La descripción es obligatoria")
	case m.MetodoPago != "" && !m.MetodoPago.Known():
		return caja.Movement{}, fail(ErrInvalid, "Método de pago inválido")
	}

	now := l.now()
	m.ID = uuid.NewString()
	m.Fecha = &now

	expected := c.ExpectedBalance()
	if m.Tipo == caja.MovementIncome {
		expected = expected.Add(m.Monto)
	} else {
		expected = expected.Sub(m.Monto)
	}

	c.MontoEsperadoEnCaja = decimal.NewNullDecimal(expected)
	c.Transacciones = append(c.Transacciones, m)

	return m, nil
}

// CloseRegister finalizes an open register. The expected balance at that
// moment becomes montoFinalEsperado.
func (l *Ledger) CloseRegister(companyID, key, registerID string, req caja.CloseRequest) (caja.CashRegister, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	replyKey := scopedKey(companyID, "close:"+registerID, key)
	if reply, ok := l.replies[replyKey]; ok && key != "" {
		return reply, nil
	}

	c, err := l.register(companyID, registerID)
	if err != nil {
		return caja.CashRegister{}, err
	}

	if !c.IsOpen() {
		return caja.CashRegister{}, fail(ErrConflict, "La caja ya está cerrada")
	}

	if req.MontoFinalReal.IsNegative() {
		return caja.CashRegister{}, fail(ErrInvalid, "El monto final no puede ser negativo")
	}

	if strings.TrimSpace(req.UsuarioCierre) == "" {
		return caja.CashRegister{}, fail(ErrInvalid, "El usuario de cierre es obligatorio")
	}

	closedAt := l.now()

	c.Estado = caja.StatusClosed
	c.MontoFinalEsperado = decimal.NewNullDecimal(c.ExpectedBalance())
	c.MontoFinalReal = decimal.NewNullDecimal(req.MontoFinalReal)
	c.ObservacionesCierre = strings.TrimSpace(req.ObservacionesCierre)
	c.FechaCierre = &closedAt
	c.UsuarioCierre = l.userRef(req.UsuarioCierre)

	reply := copyRegister(c)

	if key != "" {
		l.replies[replyKey] = reply
	}

	return reply, nil
}

func scopedKey(companyID, op, key string) string {
	return companyID + "\x00" + op + "\x00" + key
}

// Registers lists a company's registers, most recently opened first.
func (l *Ledger) Registers(companyID string, page, limit int, f caja.Filters) caja.ListResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	var matches []caja.CashRegister

	for _, c := range l.registers {
		switch {
		case c.Empresa.ID != companyID:
			continue
		case f.Estado != "" && c.Estado != f.Estado:
			continue
		case f.PuntoVenta != "" && c.PuntoDeVenta.ID != f.PuntoVenta:
			continue
		case f.Vendedor != "" && c.VendedorAsignado.ID != f.Vendedor:
			continue
		case !withinDays(c.FechaApertura, f.FechaDesde, f.FechaHasta):
			continue
		}

		matches = append(matches, copyRegister(c))
	}

	slices.SortFunc(matches, func(a, b caja.CashRegister) int {
		return cmp.Or(b.FechaApertura.Compare(a.FechaApertura), strings.Compare(a.ID, b.ID))
	})

	items, pg := paginate(matches, page, limit)

	return caja.ListResult{Cajas: items, Pagination: pg}
}

func (l *Ledger) Register(companyID, id string) (caja.CashRegister, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.register(companyID, id)
	if err != nil {
		return caja.CashRegister{}, err
	}

	return copyRegister(c), nil
}

func (l *Ledger) register(companyID, id string) (*caja.CashRegister, error) {
	c, ok := l.registers[id]
	if !ok || c.Empresa.ID != companyID {
		return nil, fail(ErrNotFound, "Caja no encontrada")
	}

	return c, nil
}

func (l *Ledger) point(id string) (catalog.PointOfSale, bool) {
	i := slices.IndexFunc(l.points, func(p catalog.PointOfSale) bool { return p.ID == id })
	if i < 0 {
		return catalog.PointOfSale{}, false
	}

	return l.points[i], true
}

func (l *Ledger) pointCompany(id string) string {
	p, _ := l.point(id)
	return p.Empresa.ID
}

func (l *Ledger) userRef(id string) record.Ref {
	for _, acc := range l.accounts {
		if acc.user.ID == id {
			return record.Ref{ID: id, Name: acc.user.DisplayName()}
		}
	}

	return record.NewRef(id)
}

func copyRegister(c *caja.CashRegister) caja.CashRegister {
	out := *c
	out.Transacciones = slices.Clone(c.Transacciones)

	return out
}

// withinDays reports whether t falls on or between the calendar days of
// from and to. Nil bounds are open.
func withinDays(t time.Time, from, to *time.Time) bool {
	day := t.Format(time.DateOnly)

	if from != nil && day < from.Format(time.DateOnly) {
		return false
	}

	if to != nil && day > to.Format(time.DateOnly) {
		return false
	}

	return true
}

func paginate[T any](items []T, page, limit int) ([]T, record.Pagination) {
	if limit <= 0 {
		limit = 20
	}

	page = max(page, 1)
	total := len(items)
	pg := record.Pagination{Page: page, Limit: limit, Total: total, TotalPages: (total + limit - 1) / limit}

	// Past the last page; checked before multiplying so a huge page cannot
	// overflow the offset.
	if page-1 > total/limit {
		return []T{}, pg
	}

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	out := slices.Clone(items[start:end])
	if out == nil {
		out = []T{}
	}

	return out, pg
}
