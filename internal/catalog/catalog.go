package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cajero/internal/record"
)

type PointOfSale struct {
	ID        string     `json:"id"`
	Numero    int        `json:"numero"`
	Nombre    string     `json:"nombre"`
	Direccion string     `json:"direccion,omitempty"`
	Activo    bool       `json:"activo"`
	Empresa   record.Ref `json:"empresa"`
}

// Label is "0001 - Mostrador".
func (p PointOfSale) Label() string {
	if p.Numero == 0 {
		return p.Nombre
	}

	return padNumber(p.Numero) + " - " + p.Nombre
}

func padNumber(n int) string {
	s := []byte("0000")
	for i := 3; i >= 0 && n > 0; i-- {
		s[i] = byte('0' + n%10)
		n /= 10
	}

	return string(s)
}

type Product struct {
	ID        string          `json:"id"`
	Codigo    string          `json:"codigo"`
	Nombre    string          `json:"nombre"`
	Precio    decimal.Decimal `json:"precio"`
	Stock     decimal.Decimal `json:"stock"`
	Categoria string          `json:"categoria,omitempty"`
	Activo    bool            `json:"activo"`
	Empresa   record.Ref      `json:"empresa"`
}

type ProductPage struct {
	Products   []Product         `json:"products"`
	Pagination record.Pagination `json:"pagination"`
}

type TicketItem struct {
	Producto record.Ref      `json:"producto"`
	Nombre   string          `json:"nombre"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Precio   decimal.Decimal `json:"precio"`
}

type Ticket struct {
	ID           string          `json:"id"`
	Numero       string          `json:"numero"`
	PuntoDeVenta record.Ref      `json:"puntoDeVenta"`
	Caja         record.Ref      `json:"caja"`
	Total        decimal.Decimal `json:"total"`
	MetodoPago   string          `json:"metodoPago,omitempty"`
	Estado       string          `json:"estado,omitempty"`
	Fecha        time.Time       `json:"fecha"`
	Items        []TicketItem    `json:"items,omitempty"`
}

type TicketPage struct {
	Tickets    []Ticket          `json:"tickets"`
	Pagination record.Pagination `json:"pagination"`
}

type TicketFilters struct {
	PuntoVenta string
	FechaDesde *time.Time
	FechaHasta *time.Time
}
