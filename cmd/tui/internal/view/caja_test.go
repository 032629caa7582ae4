package view

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cajero/internal/caja"
	"github.com/MrJamesThe3rd/cajero/internal/storage"
	"github.com/MrJamesThe3rd/cajero/internal/storage/memory"
	"github.com/MrJamesThe3rd/cajero/internal/workflow"
)

func newCajaModel(t *testing.T, open []caja.CashRegister) CajaModel {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := storage.New(memory.New())

	if open != nil {
		require.True(t, store.Write(context.Background(), storage.KeyOpenRegisters, open))
	}

	svc := caja.NewService(context.Background(), caja.NewMockGateway(ctrl), caja.NewMockSessions(ctrl), store)

	m := NewCajaModel(svc, nil, time.Second)
	next, _ := m.Update(cajaLoadedMsg{})

	return next.(CajaModel)
}

func press(t *testing.T, m CajaModel, key tea.KeyType) CajaModel {
	t.Helper()

	next, _ := m.Update(tea.KeyMsg{Type: key})

	return next.(CajaModel)
}

func TestCajaModel_TabsGatedByOpenRegisters(t *testing.T) {
	t.Run("no open registers keeps the open tab", func(t *testing.T) {
		m := newCajaModel(t, nil)

		m = press(t, m, tea.KeyF2)
		assert.Equal(t, workflow.TabOpen, m.flow.Tab())
		assert.NotEmpty(t, m.status)

		m = press(t, m, tea.KeyF3)
		assert.Equal(t, workflow.TabOpen, m.flow.Tab())
	})

	t.Run("an open register enables movements and close", func(t *testing.T) {
		m := newCajaModel(t, []caja.CashRegister{
			{ID: "caja1", NombreCaja: "Principal", Estado: caja.StatusOpen, MontoInicial: decimal.NewFromInt(500)},
		})

		m = press(t, m, tea.KeyF2)
		assert.Equal(t, workflow.TabMovements, m.flow.Tab())
		assert.NotNil(t, m.form)

		m = press(t, m, tea.KeyF3)
		assert.Equal(t, workflow.TabClose, m.flow.Tab())
		assert.NotNil(t, m.form)
		assert.Contains(t, m.View(), "Principal")
	})
}

func TestCajaModel_OpenSuccessMovesToMovements(t *testing.T) {
	m := newCajaModel(t, nil)
	require.True(t, m.flow.Begin())

	next, _ := m.Update(cajaOpenedMsg{register: &caja.CashRegister{ID: "caja1", NombreCaja: "Principal", Estado: caja.StatusOpen}})
	m = next.(CajaModel)

	assert.False(t, m.flow.Submitting())
	assert.Equal(t, workflow.TabMovements, m.flow.Tab())
	assert.Contains(t, m.status, "Principal")
}

func TestCajaModel_FailedCloseKeepsDraft(t *testing.T) {
	m := newCajaModel(t, []caja.CashRegister{{ID: "caja1", Estado: caja.StatusOpen}})
	m = press(t, m, tea.KeyF3)

	m.closing = closeDraft{register: "caja1", amount: "470", notes: "faltan monedas"}
	require.True(t, m.flow.Begin())

	next, _ := m.Update(cajaClosedMsg{err: assert.AnError})
	m = next.(CajaModel)

	assert.Equal(t, "470", m.closing.amount)
	assert.Equal(t, "faltan monedas", m.closing.notes)
	assert.ErrorIs(t, m.err, assert.AnError)
	assert.False(t, m.flow.Submitting())
}

func TestDescribeClose(t *testing.T) {
	shortage := describeClose(decimal.NewFromInt(500), decimal.NewFromInt(470))
	assert.Contains(t, shortage, "Faltante")
	assert.Contains(t, shortage, "$ 30,00")

	surplus := describeClose(decimal.NewFromInt(450), decimal.NewFromInt(470))
	assert.Contains(t, surplus, "Sobrante")

	exact := describeClose(decimal.NewFromInt(450), decimal.NewFromInt(450))
	assert.Contains(t, exact, "Sin diferencia")
}

func TestAmountValidators(t *testing.T) {
	assert.NoError(t, optionalAmount(""))
	assert.NoError(t, optionalAmount("1.234,50"))
	assert.Error(t, optionalAmount("abc"))
	assert.Error(t, optionalAmount("-5"))

	assert.NoError(t, positiveAmount("50"))
	assert.Error(t, positiveAmount(""))
	assert.Error(t, positiveAmount("0"))
	assert.Error(t, positiveAmount("-1"))
}
