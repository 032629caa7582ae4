package caja

import "github.com/shopspring/decimal"

type DifferenceKind string

const (
	DifferenceShortage DifferenceKind = "faltante"
	DifferenceSurplus  DifferenceKind = "sobrante"
	DifferenceExact    DifferenceKind = "exacto"
)

func (k DifferenceKind) Label() string {
	switch k {
	case DifferenceShortage:
		return "Faltante"
	case DifferenceSurplus:
		return "Sobrante"
	}

	return "Exacto"
}

// Difference is counted minus expected: negative is a shortage, positive a
// surplus.
type Difference struct {
	Amount decimal.Decimal
	Kind   DifferenceKind
}

func ComputeDifference(expected, counted decimal.Decimal) Difference {
	d := counted.Sub(expected)

	switch d.Sign() {
	case -1:
		return Difference{Amount: d, Kind: DifferenceShortage}
	case 1:
		return Difference{Amount: d, Kind: DifferenceSurplus}
	}

	return Difference{Amount: decimal.Zero, Kind: DifferenceExact}
}
