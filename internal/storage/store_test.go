package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cajero/internal/storage"
	"github.com/MrJamesThe3rd/cajero/internal/storage/memory"
)

type storedUser struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

func (u *storedUser) Valid() bool { return u.ID != "" }

type storedList []storedUser

func TestStore_Read_SelfHealing(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		key  storage.Key
		dst  func() any
	}{
		{name: "NotJSON", raw: "{not json", key: storage.KeyUser, dst: func() any { return &storedUser{} }},
		{name: "Truncated", raw: `{"id":"u1","nombre":"An`, key: storage.KeyUser, dst: func() any { return &storedUser{} }},
		{name: "Null", raw: "null", key: storage.KeyUser, dst: func() any { return &storedUser{} }},
		{name: "Empty", raw: "   ", key: storage.KeyUser, dst: func() any { return &storedUser{} }},
		{name: "ArrayWhereObjectExpected", raw: `[{"id":"u1"}]`, key: storage.KeyUser, dst: func() any { return &storedUser{} }},
		{name: "ObjectWhereArrayExpected", raw: `{"id":"u1"}`, key: storage.KeyOpenRegisters, dst: func() any { return &storedList{} }},
		{name: "FailsValidation", raw: `{"nombre":"sin id"}`, key: storage.KeyUser, dst: func() any { return &storedUser{} }},
		{name: "UndefinedLiteral", raw: "undefined", key: storage.KeyCompany, dst: func() any { return &storedUser{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := memory.New()
			backend.Put(string(tt.key), []byte(tt.raw))

			s := storage.New(backend)

			assert.False(t, s.Read(ctx, tt.key, tt.dst()))
			assert.NotContains(t, backend.Snapshot(), string(tt.key))
			assert.False(t, s.Read(ctx, tt.key, tt.dst()))
		})
	}
}

func TestStore_Read_LeavesDestinationOnFailure(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	backend.Put(string(storage.KeyUser), []byte(`{"id": 42}`))

	s := storage.New(backend)

	dst := storedUser{ID: "keep", Nombre: "me"}
	assert.False(t, s.Read(ctx, storage.KeyUser, &dst))
	assert.Equal(t, storedUser{ID: "keep", Nombre: "me"}, dst)
}

func TestStore_Read_Absent(t *testing.T) {
	s := storage.New(memory.New())

	var u storedUser
	assert.False(t, s.Read(context.Background(), storage.KeyUser, &u))
}

func TestStore_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	s := storage.New(memory.New())

	require.True(t, s.Write(ctx, storage.KeyUser, storedUser{ID: "u1", Nombre: "Ana"}))

	var got storedUser
	require.True(t, s.Read(ctx, storage.KeyUser, &got))
	assert.Equal(t, storedUser{ID: "u1", Nombre: "Ana"}, got)

	require.True(t, s.Write(ctx, storage.KeyUser, storedUser{ID: "u2"}))
	require.True(t, s.Read(ctx, storage.KeyUser, &got))
	assert.Equal(t, "u2", got.ID)
	assert.Empty(t, got.Nombre)
}

func TestStore_WriteAll_EncodeFailureWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := storage.NewMockBackend(ctrl)
	s := storage.New(backend)

	ok := s.WriteAll(context.Background(),
		storage.Entry{Key: storage.KeyUser, Value: storedUser{ID: "u1"}},
		storage.Entry{Key: storage.KeyCompany, Value: make(chan int)},
	)
	assert.False(t, ok)
}

func TestStore_WriteAll_BackendFailureKeepsPreviousValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := storage.NewMockBackend(ctrl)
	backend.EXPECT().
		SetMany(gomock.Any(), gomock.Len(2)).
		Return(errors.New("disk full"))

	s := storage.New(backend)

	ok := s.WriteAll(context.Background(),
		storage.Entry{Key: storage.KeyUser, Value: storedUser{ID: "u1"}},
		storage.Entry{Key: storage.KeyCompany, Value: storedUser{ID: "c1"}},
	)
	assert.False(t, ok)
}

func TestStore_Remove_IgnoresBackendErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := storage.NewMockBackend(ctrl)
	backend.EXPECT().Delete(gomock.Any(), "cajasActivas").Return(errors.New("connection reset"))

	s := storage.New(backend)

	assert.NotPanics(t, func() { s.Remove(context.Background(), storage.KeyOpenRegisters) })
}

func TestStore_Read_BackendErrorIsAbsent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := storage.NewMockBackend(ctrl)
	backend.EXPECT().Get(gomock.Any(), "userData").Return(nil, errors.New("timeout"))

	s := storage.New(backend)

	var u storedUser
	assert.False(t, s.Read(context.Background(), storage.KeyUser, &u))
}
