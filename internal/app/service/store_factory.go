package service

import (
	"time"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/storage"
)

// Scope identifies whose slots a store works on and which tab is acting.
type Scope struct {
	Session string
	Origin  string
}

// StoreFactory builds per-request stores over a shared backend. Stores hold
// no state of their own besides the slot binding, so building one per
// request is cheap and nothing is cached between requests.
type StoreFactory struct {
	backend  storage.Backend
	prefix   string
	notifier Notifier
	now      func() time.Time
}

type StoreOption func(*StoreFactory)

// WithClock overrides the clock used for AddedAt stamps and event times.
func WithClock(now func() time.Time) StoreOption {
	return func(f *StoreFactory) { f.now = now }
}

// WithNotifier sets where change events are published.
func WithNotifier(n Notifier) StoreOption {
	return func(f *StoreFactory) { f.notifier = n }
}

func NewStoreFactory(backend storage.Backend, prefix string, opts ...StoreOption) *StoreFactory {
	f := &StoreFactory{
		backend: backend,
		prefix:  prefix,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *StoreFactory) Cart(scope Scope) *CartStore {
	return &CartStore{
		slot:    storage.NewSlot[model.LineItem](f.backend, f.key(scope, storage.CartKey)),
		emitter: f.emitter(scope, storage.CartKey),
	}
}

func (f *StoreFactory) Favorites(scope Scope) *FavoritesStore {
	return &FavoritesStore{
		slot:    storage.NewSlot[model.FavoriteItem](f.backend, f.key(scope, storage.FavoritesKey)),
		emitter: f.emitter(scope, storage.FavoritesKey),
		now:     f.now,
	}
}

func (f *StoreFactory) Selection(scope Scope) *SelectionStore {
	return &SelectionStore{
		backend: f.backend,
		key:     f.key(scope, storage.SelectionKey),
	}
}

func (f *StoreFactory) key(scope Scope, name string) string {
	return storage.Key(f.prefix, scope.Session, name)
}

func (f *StoreFactory) emitter(scope Scope, name string) emitter {
	return emitter{scope: scope, key: name, notifier: f.notifier, now: f.now}
}

// emitter stamps and publishes change events for one slot.
type emitter struct {
	scope    Scope
	key      string
	notifier Notifier
	now      func() time.Time
}

func (e emitter) emit(count int) {
	if e.notifier == nil {
		return
	}
	e.notifier.Publish(ChangeEvent{
		Session: e.scope.Session,
		Key:     e.key,
		Origin:  e.scope.Origin,
		Count:   count,
		At:      e.now(),
	})
}
