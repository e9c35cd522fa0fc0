package cache

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/martijn/clientcrud/internal/core/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) FindAll(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	clients, _ := args.Get(0).([]*domain.Client)
	return clients, args.Error(1)
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (domain.Optional[*domain.Client], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Optional[*domain.Client]), args.Error(1)
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (domain.Optional[*domain.Client], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Optional[*domain.Client]), args.Error(1)
}

func (m *mockRepo) Save(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, client)
	saved, _ := args.Get(0).(*domain.Client)
	return saved, args.Error(1)
}

func (m *mockRepo) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// memStore is an in-process Store that records TTLs
type memStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.failGet != nil {
		return nil, s.failGet
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *memStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sofia() *domain.Client {
	return &domain.Client{ID: 1, Name: "Sofia Arroyos", Email: "sofiaarroyos@bit.com", Phone: "3215673499", Address: "Calle 123 #12-43", City: "Buenos Aires"}
}

func TestFindByIDReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := new(mockRepo)
	store := newMemStore()
	repo := NewClientRepository(inner, store, time.Minute, quietLogger())

	inner.On("FindByID", ctx, int64(1)).Return(domain.Some(sofia()), nil).Once()

	first, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sofia Arroyos", first.MustGet().Name)
	assert.Equal(t, time.Minute, store.ttls["clientcrud:client:1"])

	second, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, *sofia(), *second.MustGet())

	inner.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestFindByIDMissIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := new(mockRepo)
	store := newMemStore()
	repo := NewClientRepository(inner, store, time.Minute, quietLogger())

	inner.On("FindByID", ctx, int64(5)).Return(domain.None[*domain.Client](), nil)

	for i := 0; i < 2; i++ {
		found, err := repo.FindByID(ctx, 5)
		require.NoError(t, err)
		assert.False(t, found.IsPresent())
	}

	inner.AssertNumberOfCalls(t, "FindByID", 2)
	assert.Empty(t, store.data)
}

func TestFindByIDFallsBackWhenCacheFails(t *testing.T) {
	ctx := context.Background()
	inner := new(mockRepo)
	store := newMemStore()
	store.failGet = errors.New("connection reset")
	repo := NewClientRepository(inner, store, time.Minute, quietLogger())

	inner.On("FindByID", ctx, int64(1)).Return(domain.Some(sofia()), nil)

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found.IsPresent())
}

func TestFindByIDDiscardsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	inner := new(mockRepo)
	store := newMemStore()
	store.data["clientcrud:client:1"] = []byte("{not json")
	repo := NewClientRepository(inner, store, time.Minute, quietLogger())

	inner.On("FindByID", ctx, int64(1)).Return(domain.Some(sofia()), nil)

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "sofiaarroyos@bit.com", found.MustGet().Email)
	inner.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestSaveAndDeleteEvict(t *testing.T) {
	ctx := context.Background()
	inner := new(mockRepo)
	store := newMemStore()
	repo := NewClientRepository(inner, store, time.Minute, quietLogger())

	client := sofia()
	store.data[clientKey(1)] = []byte(`{"id":1,"name":"stale"}`)
	inner.On("Save", ctx, client).Return(client, nil)

	_, err := repo.Save(ctx, client)
	require.NoError(t, err)
	assert.NotContains(t, store.data, clientKey(1))

	store.data[clientKey(1)] = []byte(`{"id":1,"name":"stale"}`)
	inner.On("DeleteByID", ctx, int64(1)).Return(nil)

	require.NoError(t, repo.DeleteByID(ctx, 1))
	assert.NotContains(t, store.data, clientKey(1))
}

func TestEmailAndListBypassCache(t *testing.T) {
	ctx := context.Background()
	inner := new(mockRepo)
	repo := NewClientRepository(inner, newMemStore(), time.Minute, quietLogger())

	inner.On("FindByEmail", ctx, "sofiaarroyos@bit.com").Return(domain.Some(sofia()), nil).Twice()
	inner.On("FindAll", ctx).Return([]*domain.Client{sofia()}, nil).Twice()

	for i := 0; i < 2; i++ {
		_, err := repo.FindByEmail(ctx, "sofiaarroyos@bit.com")
		require.NoError(t, err)
		_, err = repo.FindAll(ctx)
		require.NoError(t, err)
	}

	inner.AssertExpectations(t)
}

func TestWriteErrorsKeepCache(t *testing.T) {
	ctx := context.Background()
	inner := new(mockRepo)
	store := newMemStore()
	repo := NewClientRepository(inner, store, time.Minute, quietLogger())

	store.data[clientKey(1)] = []byte(`{"id":1}`)
	inner.On("DeleteByID", ctx, int64(1)).Return(errors.New("locked"))

	assert.Error(t, repo.DeleteByID(ctx, 1))
	assert.Contains(t, store.data, clientKey(1))
}
