package sandbox

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/record"
	"github.com/MrJamesThe3rd/cajero/internal/session"
)

// Demo is the fixed data Seed installs.
type Demo struct {
	Company      session.Company
	Cashier      session.User
	Admin        session.User
	PointsOfSale []catalog.PointOfSale
}

const (
	DemoCashierUsername = "cashier1"
	DemoCashierPassword = "pw"
	DemoAdminUsername   = "admin"
	DemoAdminPassword   = "admin"
)

// Seed fills l with a demo company, two accounts, two points of sale and
// products. A nil products list installs a small default catalog.
func Seed(l *Ledger, products []catalog.Product, cost int) (*Demo, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	company := session.Company{
		ID:            "emp-" + uuid.NewString()[:8],
		NombreEmpresa: "Kiosco Central",
		CUIT:          "30-71234567-8",
		CondicionIVA:  "Responsable Inscripto",
		Direccion:     "Av. Corrientes 1234, CABA",
	}
	l.AddCompany(company)

	ref := record.Ref{ID: company.ID, Name: company.NombreEmpresa}

	demo := &Demo{
		Company: company,
		Cashier: session.User{ID: uuid.NewString(), Username: DemoCashierUsername, Nombre: "Ana", Apellido: "Gómez", Rol: "vendedor", Empresa: ref},
		Admin:   session.User{ID: uuid.NewString(), Username: DemoAdminUsername, Nombre: "Admin", Rol: "admin", Empresa: ref},
	}

	if err := l.AddUser(demo.Cashier, DemoCashierPassword, cost); err != nil {
		return nil, fmt.Errorf("adding cashier: %w", err)
	}

	if err := l.AddUser(demo.Admin, DemoAdminPassword, cost); err != nil {
		return nil, fmt.Errorf("adding admin: %w", err)
	}

	for i, name := range []string{"Mostrador", "Depósito"} {
		p := catalog.PointOfSale{ID: fmt.Sprintf("pv%d", i+1), Numero: i + 1, Nombre: name, Activo: true, Empresa: ref}
		l.AddPointOfSale(p)
		demo.PointsOfSale = append(demo.PointsOfSale, p)
	}

	if products == nil {
		products = defaultProducts(company.ID)
	}

	for i := range products {
		products[i].Empresa = ref
	}

	l.AddProducts(products...)

	l.AddTicket(catalog.Ticket{
		ID:           uuid.NewString(),
		Numero:       "0001-00000001",
		PuntoDeVenta: record.Ref{ID: "pv1", Name: "Mostrador"},
		Total:        decimal.RequireFromString("2350.50"),
		MetodoPago:   "Efectivo",
		Estado:       "emitido",
		Fecha:        l.now().Add(-2 * time.Hour),
	})

	return demo, nil
}

func defaultProducts(companyID string) []catalog.Product {
	items := []struct{ code, name, price, category string }{
		{"7790387000012", "Yerba Mate Taragüí 1kg", "4890.00", "Almacén"},
		{"7790040113508", "Alfajor Jorgito", "650.00", "Golosinas"},
		{"7790895000997", "Coca-Cola 500ml", "1350.50", "Bebidas"},
		{"7792798007004", "Galletitas Criollitas", "980.00", "Almacén"},
	}

	out := make([]catalog.Product, len(items))
	for i, it := range items {
		out[i] = catalog.Product{
			ID:        uuid.NewString(),
			Codigo:    it.code,
			Nombre:    it.name,
			Precio:    decimal.RequireFromString(it.price),
			Stock:     decimal.NewFromInt(50),
			Categoria: it.category,
			Activo:    true,
			Empresa:   record.NewRef(companyID),
		}
	}

	return out
}
