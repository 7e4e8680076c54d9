package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ghain/storefront-backend/internal/app/repository"
	"github.com/ghain/storefront-backend/internal/app/service"
	"github.com/ghain/storefront-backend/internal/db"
	"github.com/ghain/storefront-backend/internal/middleware"
	"github.com/ghain/storefront-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testSession = "3f6c1a52-8d5e-4b8a-9a61-2f0f5f7f2d11"
	testTab     = "tab-a"
)

type eventLog struct {
	mu     sync.Mutex
	events []service.ChangeEvent
}

func (l *eventLog) OnStorageChange(event service.ChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) all() []service.ChangeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]service.ChangeEvent(nil), l.events...)
}

type testEnv struct {
	router   *gin.Engine
	stores   *service.StoreFactory
	products service.ProductService
	checkout service.CheckoutService
	backend  *storage.MemoryBackend
	bus      *service.EventBus
	events   *eventLog
}

// setupControllerTest builds a seeded catalog, an in-memory slot backend and
// a router whose requests all belong to testSession/testTab.
func setupControllerTest(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	require.NoError(t, db.SeedCatalog(testDB))

	backend := storage.NewMemoryBackend()
	events := &eventLog{}
	bus := service.NewEventBus()
	bus.Subscribe(events)

	products := service.NewProductService(repository.NewProductRepository(testDB))
	checkout := service.NewCheckoutService(products, service.ShippingRates{
		FlatRate:    decimal.NewFromInt(20),
		LocalPickup: decimal.NewFromInt(25),
	})
	stores := service.NewStoreFactory(backend, "ghain", service.WithNotifier(bus))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, testSession)
		c.Set(middleware.TabIDKey, testTab)
		c.Next()
	})

	return &testEnv{
		router:   router,
		stores:   stores,
		products: products,
		checkout: checkout,
		backend:  backend,
		bus:      bus,
		events:   events,
	}
}

func (e *testEnv) scope() service.Scope {
	return service.Scope{Session: testSession, Origin: testTab}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}
