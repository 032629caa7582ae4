package caja

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cajero/internal/money"
	"github.com/MrJamesThe3rd/cajero/internal/record"
)

type Status string

const (
	StatusOpen   Status = "abierta"
	StatusClosed Status = "cerrada"
)

type MovementType string

const (
	MovementIncome  MovementType = "ingreso"
	MovementExpense MovementType = "egreso"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentDebit    PaymentMethod = "Tarjeta de Débito"
	PaymentCredit   PaymentMethod = "Tarjeta de Crédito"
	PaymentTransfer PaymentMethod = "Transferencia"
	PaymentMP       PaymentMethod = "Mercado Pago"
)

// PaymentMethods lists the accepted methods in the order forms show them.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentDebit, PaymentCredit, PaymentTransfer, PaymentMP}

func (p PaymentMethod) Known() bool {
	for _, m := range PaymentMethods {
		if p == m {
			return true
		}
	}

	return false
}

// Movement is a single cash-in or cash-out recorded against an open register.
type Movement struct {
	ID          string          `json:"id,omitempty"`
	Tipo        MovementType    `json:"tipo" validate:"oneof=ingreso egreso"`
	Monto       decimal.Decimal `json:"monto" validate:"gt=0"`
	Descripcion string          `json:"descripcion" validate:"required"`
	MetodoPago  PaymentMethod   `json:"metodoPago,omitempty" validate:"omitempty,payment_method"`
	IDTicket    string          `json:"idTicket,omitempty"`
	Fecha       *time.Time      `json:"fecha,omitempty"`
}

// CashRegister (caja) is a physical drawer session from open to close.
type CashRegister struct {
	ID                  string              `json:"id"`
	Empresa             record.Ref          `json:"empresa"`
	PuntoDeVenta        record.Ref          `json:"puntoDeVenta"`
	NombreCaja          string              `json:"nombreCaja"`
	VendedorAsignado    record.Ref          `json:"vendedorAsignado"`
	MontoInicial        decimal.Decimal     `json:"montoInicial"`
	FechaApertura       time.Time           `json:"fechaApertura"`
	Estado              Status              `json:"estado"`
	MontoEsperadoEnCaja decimal.NullDecimal `json:"montoEsperadoEnCaja"`
	MontoFinalEsperado  decimal.NullDecimal `json:"montoFinalEsperado"`
	MontoFinalReal      decimal.NullDecimal `json:"montoFinalReal"`
	ObservacionesCierre string              `json:"observacionesCierre,omitempty"`
	FechaCierre         *time.Time          `json:"fechaCierre,omitempty"`
	UsuarioCierre       record.Ref          `json:"usuarioCierre"`
	Transacciones       []Movement          `json:"transacciones,omitempty"`
}

func (c *CashRegister) IsOpen() bool {
	return c.Estado == StatusOpen
}

// ExpectedBalance is the server's running total for the drawer. It is never
// derived from Transacciones.
func (c *CashRegister) ExpectedBalance() decimal.Decimal {
	switch {
	case c.MontoEsperadoEnCaja.Valid:
		return c.MontoEsperadoEnCaja.Decimal
	case c.MontoFinalEsperado.Valid:
		return c.MontoFinalEsperado.Decimal
	}

	return c.MontoInicial
}

// Label is what pickers show for the register.
func (c *CashRegister) Label() string {
	name := c.NombreCaja
	if name == "" {
		name = c.ID
	}

	if pv := c.PuntoDeVenta.Display(); pv != "" {
		return name + " (" + pv + ")"
	}

	return name
}

// openList is the persisted cajasActivas value.
type openList []CashRegister

func (l *openList) Valid() bool {
	for _, c := range *l {
		if c.ID == "" || !c.IsOpen() {
			return false
		}
	}

	return true
}

// Filters narrow a register listing. Zero fields are not sent.
type Filters struct {
	Estado     Status
	PuntoVenta string
	Vendedor   string
	FechaDesde *time.Time
	FechaHasta *time.Time
}

type ListResult struct {
	Cajas      []CashRegister    `json:"cajas"`
	Pagination record.Pagination `json:"pagination"`
}

// OpenParams is the open-register form as typed.
type OpenParams struct {
	PuntoDeVenta     string
	NombreCaja       string
	MontoInicial     money.Input
	VendedorAsignado string
}

// OpenRequest is what the backend receives to open a register.
type OpenRequest struct {
	Empresa          string          `json:"empresa" validate:"required"`
	PuntoDeVenta     string          `json:"puntoDeVenta" validate:"required"`
	NombreCaja       string          `json:"nombreCaja" validate:"required"`
	VendedorAsignado string          `json:"vendedorAsignado" validate:"required"`
	MontoInicial     decimal.Decimal `json:"montoInicial" validate:"min=0"`
	FechaApertura    time.Time       `json:"fechaApertura"`
}

// CloseParams is the close-register form as typed.
type CloseParams struct {
	MontoFinalReal      money.Input
	ObservacionesCierre string
	UsuarioCierre       string
}

type CloseRequest struct {
	MontoFinalReal      decimal.Decimal `json:"montoFinalReal" validate:"min=0"`
	ObservacionesCierre string          `json:"observacionesCierre,omitempty"`
	UsuarioCierre       string          `json:"usuarioCierre" validate:"required"`
}
