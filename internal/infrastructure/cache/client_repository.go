package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/martijn/clientcrud/internal/core/domain"
	"github.com/martijn/clientcrud/internal/core/repository"
	"github.com/sirupsen/logrus"
)

const clientKeyTemplate = "clientcrud:client:%d"

// ErrMiss is returned by a Store when the key is not cached.
var ErrMiss = errors.New("cache miss")

// Store is a byte-oriented key/value cache with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// clientRepository caches FindByID results in front of another repository.
// Email lookups and listings always go to the backing repository so the
// uniqueness check never sees stale data.
type clientRepository struct {
	next  repository.ClientRepository
	store Store
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewClientRepository(next repository.ClientRepository, store Store, ttl time.Duration, log logrus.FieldLogger) repository.ClientRepository {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &clientRepository{
		next:  next,
		store: store,
		ttl:   ttl,
		log:   log.WithField("component", "client_cache"),
	}
}

func (r *clientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	return r.next.FindAll(ctx)
}

func (r *clientRepository) FindByID(ctx context.Context, id int64) (domain.Optional[*domain.Client], error) {
	key := clientKey(id)

	data, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		var client domain.Client
		if err := json.Unmarshal(data, &client); err == nil {
			return domain.Some(&client), nil
		}
		r.log.WithField("key", key).Warn("discarding undecodable cache entry")
	case !errors.Is(err, ErrMiss):
		r.log.WithError(err).WithField("key", key).Warn("cache read failed")
	}

	found, err := r.next.FindByID(ctx, id)
	if err != nil {
		return found, err
	}

	if client, ok := found.Get(); ok {
		r.put(ctx, key, client)
	}
	return found, nil
}

func (r *clientRepository) FindByEmail(ctx context.Context, email string) (domain.Optional[*domain.Client], error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *clientRepository) Save(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	saved, err := r.next.Save(ctx, client)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		r.evict(ctx, saved.ID)
	}
	return saved, nil
}

func (r *clientRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.next.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *clientRepository) put(ctx context.Context, key string, client *domain.Client) {
	data, err := json.Marshal(client)
	if err != nil {
		r.log.WithError(err).Warn("failed to encode client for cache")
		return
	}
	if err := r.store.Set(ctx, key, data, r.ttl); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (r *clientRepository) evict(ctx context.Context, id int64) {
	if err := r.store.Del(ctx, clientKey(id)); err != nil {
		r.log.WithError(err).WithField("client_id", id).Warn("cache eviction failed")
	}
}

func clientKey(id int64) string {
	return fmt.Sprintf(clientKeyTemplate, id)
}
