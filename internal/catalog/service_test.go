package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/record"
	"github.com/MrJamesThe3rd/cajero/internal/session"
)

var testSession = session.Session{
	User:    session.User{ID: "u1", Empresa: record.NewRef("c1")},
	Company: session.Company{ID: "c1"},
}

func newService(ctrl *gomock.Controller) (*catalog.Service, *catalog.MockGateway) {
	sessions := catalog.NewMockSessions(ctrl)
	sessions.EXPECT().RequireSession().Return(testSession, nil).AnyTimes()

	gw := catalog.NewMockGateway(ctrl)

	return catalog.NewService(gw, sessions, 10), gw
}

func TestService_PointsOfSale_OnlyActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, gw := newService(ctrl)

	gw.EXPECT().ListPointsOfSale(gomock.Any(), "c1").Return([]catalog.PointOfSale{
		{ID: "pv1", Numero: 1, Nombre: "Mostrador", Activo: true},
		{ID: "pv2", Numero: 2, Nombre: "Depósito", Activo: false},
	}, nil)

	got, err := svc.PointsOfSale(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0001 - Mostrador", got[0].Label())
}

func TestService_Products(t *testing.T) {
	type testCase struct {
		name      string
		page      int
		search    string
		setupMock func(m *catalog.MockGateway)
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			page:   0,
			search: "  yerba ",
			setupMock: func(m *catalog.MockGateway) {
				m.EXPECT().
					ListProducts(gomock.Any(), "c1", 1, 10, "yerba").
					Return(&catalog.ProductPage{Products: []catalog.Product{{ID: "p1"}}}, nil)
			},
		},
		{
			name: "GatewayError",
			page: 2,
			setupMock: func(m *catalog.MockGateway) {
				m.EXPECT().ListProducts(gomock.Any(), "c1", 2, 10, "").Return(nil, errors.New("500"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, gw := newService(ctrl)
			tt.setupMock(gw)

			got, err := svc.Products(context.Background(), tt.page, tt.search)
			if tt.wantErr {
				assert.Error(t, err)
				assert.NotErrorIs(t, err, catalog.ErrSuperseded)

				return
			}

			require.NoError(t, err)
			assert.Len(t, got.Products, 1)
		})
	}
}

func TestService_Products_NewerSearchSupersedesOlder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, gw := newService(ctrl)

	started := make(chan struct{})

	gw.EXPECT().
		ListProducts(gomock.Any(), "c1", 1, 10, "yer").
		DoAndReturn(func(ctx context.Context, _ string, _, _ int, _ string) (*catalog.ProductPage, error) {
			close(started)
			<-ctx.Done()

			return nil, ctx.Err()
		})
	gw.EXPECT().
		ListProducts(gomock.Any(), "c1", 1, 10, "yerba").
		Return(&catalog.ProductPage{Products: []catalog.Product{{ID: "p1"}}}, nil)

	errs := make(chan error, 1)

	go func() {
		_, err := svc.Products(context.Background(), 1, "yer")
		errs <- err
	}()

	<-started

	got, err := svc.Products(context.Background(), 1, "yerba")
	require.NoError(t, err)
	assert.Len(t, got.Products, 1)

	assert.ErrorIs(t, <-errs, catalog.ErrSuperseded)
}

func TestService_Tickets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, gw := newService(ctrl)

	filters := catalog.TicketFilters{PuntoVenta: "pv1"}
	gw.EXPECT().
		ListTickets(gomock.Any(), "c1", 3, 10, filters).
		Return(&catalog.TicketPage{Tickets: []catalog.Ticket{{ID: "t1"}}}, nil)

	got, err := svc.Tickets(context.Background(), 3, filters)
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Tickets[0].ID)
}

func TestService_RequiresSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := catalog.NewMockSessions(ctrl)
	sessions.EXPECT().RequireSession().Return(session.Session{}, session.ErrNotAuthenticated)

	svc := catalog.NewService(catalog.NewMockGateway(ctrl), sessions, 0)

	_, err := svc.PointsOfSale(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}
