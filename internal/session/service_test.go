package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cajero/internal/record"
	"github.com/MrJamesThe3rd/cajero/internal/session"
	"github.com/MrJamesThe3rd/cajero/internal/storage"
	"github.com/MrJamesThe3rd/cajero/internal/storage/memory"
)

var (
	testUser    = &session.User{ID: "u1", Username: "cajero1", Empresa: record.NewRef("c1"), Token: "tok"}
	testCompany = &session.Company{ID: "c1", NombreEmpresa: "Kiosco Central"}
)

func TestService_Login(t *testing.T) {
	type testCase struct {
		name      string
		creds     session.Credentials
		setupMock func(m *session.MockGateway)
		wantErr   error
		wantAuth  bool
	}

	tests := []testCase{
		{
			name:  "Success",
			creds: session.Credentials{Username: " cajero1 ", Password: "secret"},
			setupMock: func(m *session.MockGateway) {
				m.EXPECT().
					Login(gomock.Any(), session.Credentials{Username: "cajero1", Password: "secret"}).
					Return(testUser, nil)
				m.EXPECT().GetCompany(gomock.Any(), "c1").Return(testCompany, nil)
			},
			wantAuth: true,
		},
		{
			name:      "BlankUsername",
			creds:     session.Credentials{Username: "  ", Password: "secret"},
			setupMock: func(m *session.MockGateway) {},
			wantErr:   session.ErrInvalidCredentials,
		},
		{
			name:      "BlankPassword",
			creds:     session.Credentials{Username: "cajero1"},
			setupMock: func(m *session.MockGateway) {},
			wantErr:   session.ErrInvalidCredentials,
		},
		{
			name:  "BackendRejects",
			creds: session.Credentials{Username: "cajero1", Password: "bad"},
			setupMock: func(m *session.MockGateway) {
				m.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, errors.New("401"))
			},
		},
		{
			name:  "CompanyFetchFails",
			creds: session.Credentials{Username: "cajero1", Password: "secret"},
			setupMock: func(m *session.MockGateway) {
				m.EXPECT().Login(gomock.Any(), gomock.Any()).Return(testUser, nil)
				m.EXPECT().GetCompany(gomock.Any(), "c1").Return(nil, errors.New("down"))
			},
		},
		{
			name:  "UserWithoutCompany",
			creds: session.Credentials{Username: "cajero1", Password: "secret"},
			setupMock: func(m *session.MockGateway) {
				m.EXPECT().Login(gomock.Any(), gomock.Any()).Return(&session.User{ID: "u1"}, nil)
			},
			wantErr: session.ErrNoCompany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ctx := context.Background()
			backend := memory.New()
			gw := session.NewMockGateway(ctrl)
			tt.setupMock(gw)

			svc := session.NewService(ctx, gw, storage.New(backend))

			sess, err := svc.Login(ctx, tt.creds)

			if !tt.wantAuth {
				require.Error(t, err)

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				assert.False(t, svc.IsAuthenticated())
				assert.Empty(t, backend.Snapshot(), "failed login must not persist anything")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "c1", sess.CompanyID())
			assert.Equal(t, "tok", svc.Token())

			stored := backend.Snapshot()
			assert.Contains(t, stored, string(storage.KeyUser))
			assert.Contains(t, stored, string(storage.KeyCompany))
		})
	}
}

func TestService_LoginFailureKeepsPreviousSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	backend := memory.New()
	gw := session.NewMockGateway(ctrl)

	gw.EXPECT().Login(gomock.Any(), gomock.Any()).Return(testUser, nil)
	gw.EXPECT().GetCompany(gomock.Any(), "c1").Return(testCompany, nil)
	gw.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, errors.New("401"))

	svc := session.NewService(ctx, gw, storage.New(backend))

	_, err := svc.Login(ctx, session.Credentials{Username: "cajero1", Password: "secret"})
	require.NoError(t, err)

	before := backend.Snapshot()

	_, err = svc.Login(ctx, session.Credentials{Username: "otro", Password: "bad"})
	require.Error(t, err)

	assert.Equal(t, before, backend.Snapshot())

	sess, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "u1", sess.UserID())
}

func TestService_LoginPersistFailureClearsStoredSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	backend := storage.NewMockBackend(ctrl)
	gw := session.NewMockGateway(ctrl)

	gomock.InOrder(
		backend.EXPECT().Get(gomock.Any(), "userData").Return(nil, storage.ErrNotFound),
		backend.EXPECT().Get(gomock.Any(), "dataEmpresa").Return(nil, storage.ErrNotFound),
		backend.EXPECT().Delete(gomock.Any(), "userData", "dataEmpresa", "cajasActivas").Return(nil),
		backend.EXPECT().Delete(gomock.Any(), "cajasActivas").Return(nil),
		backend.EXPECT().SetMany(gomock.Any(), gomock.Len(2)).Return(errors.New("disk full")),
		backend.EXPECT().Delete(gomock.Any(), "userData", "dataEmpresa").Return(nil),
	)

	gw.EXPECT().Login(gomock.Any(), gomock.Any()).Return(testUser, nil)
	gw.EXPECT().GetCompany(gomock.Any(), "c1").Return(testCompany, nil)

	svc := session.NewService(ctx, gw, storage.New(backend))

	sess, err := svc.Login(ctx, session.Credentials{Username: "cajero1", Password: "secret"})
	require.NoError(t, err, "the session still works for this run")
	assert.Equal(t, "u1", sess.UserID())
}

func TestService_LoginTokenVisibleWhileFetchingCompany(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	gw := session.NewMockGateway(ctrl)
	svc := session.NewService(ctx, gw, storage.New(memory.New()))

	gw.EXPECT().Login(gomock.Any(), gomock.Any()).Return(testUser, nil)
	gw.EXPECT().
		GetCompany(gomock.Any(), "c1").
		DoAndReturn(func(context.Context, string) (*session.Company, error) {
			assert.Equal(t, "tok", svc.Token())
			assert.False(t, svc.IsAuthenticated())

			return nil, errors.New("down")
		})

	_, err := svc.Login(ctx, session.Credentials{Username: "cajero1", Password: "secret"})
	require.Error(t, err)
	assert.Empty(t, svc.Token())
}

func TestService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	backend := memory.New()
	store := storage.New(backend)
	gw := session.NewMockGateway(ctrl)

	gw.EXPECT().Login(gomock.Any(), gomock.Any()).Return(testUser, nil)
	gw.EXPECT().GetCompany(gomock.Any(), "c1").Return(testCompany, nil)

	svc := session.NewService(ctx, gw, store)

	changes := 0
	svc.OnChange(func() { changes++ })

	_, err := svc.Login(ctx, session.Credentials{Username: "cajero1", Password: "secret"})
	require.NoError(t, err)
	require.True(t, store.Write(ctx, storage.KeyOpenRegisters, []map[string]string{{"id": "caja1"}}))

	svc.Logout(ctx)

	assert.False(t, svc.IsAuthenticated())
	assert.Empty(t, svc.Token())
	assert.Empty(t, backend.Snapshot())
	assert.Equal(t, 2, changes)

	_, err = svc.RequireSession()
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestNewService_Rehydrate(t *testing.T) {
	tests := []struct {
		name     string
		stored   map[string]string
		wantAuth bool
		wantLeft []string
	}{
		{
			name: "FullSession",
			stored: map[string]string{
				"userData":     `{"id":"u1","username":"cajero1","empresa":"c1","token":"tok"}`,
				"dataEmpresa":  `{"id":"c1","nombreEmpresa":"Kiosco"}`,
				"cajasActivas": `[]`,
			},
			wantAuth: true,
			wantLeft: []string{"userData", "dataEmpresa", "cajasActivas"},
		},
		{
			name:   "OnlyUser",
			stored: map[string]string{"userData": `{"id":"u1","empresa":"c1"}`, "cajasActivas": `[]`},
		},
		{
			name:   "OnlyCompany",
			stored: map[string]string{"dataEmpresa": `{"id":"c1"}`},
		},
		{
			name: "MismatchedCompany",
			stored: map[string]string{
				"userData":    `{"id":"u1","empresa":"c1"}`,
				"dataEmpresa": `{"id":"c2"}`,
			},
		},
		{
			name: "CorruptedUser",
			stored: map[string]string{
				"userData":    `{"id":`,
				"dataEmpresa": `{"id":"c1"}`,
			},
		},
		{
			name:   "Empty",
			stored: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ctx := context.Background()
			backend := memory.New()

			for k, v := range tt.stored {
				backend.Put(k, []byte(v))
			}

			svc := session.NewService(ctx, session.NewMockGateway(ctrl), storage.New(backend))

			assert.Equal(t, tt.wantAuth, svc.IsAuthenticated())

			left := backend.Snapshot()
			assert.Len(t, left, len(tt.wantLeft))

			for _, k := range tt.wantLeft {
				assert.Contains(t, left, k)
			}
		})
	}
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana Pérez", (&session.User{Nombre: "Ana", Apellido: "Pérez"}).DisplayName())
	assert.Equal(t, "Ana", (&session.User{Nombre: "Ana"}).DisplayName())
	assert.Equal(t, "ana", (&session.User{Username: "ana"}).DisplayName())
}
