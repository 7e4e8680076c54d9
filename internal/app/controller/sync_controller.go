package controller

import (
	"context"
	"net/http"

	"github.com/ghain/storefront-backend/internal/app/service"
	"github.com/ghain/storefront-backend/internal/middleware"
	ws "github.com/ghain/storefront-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SyncController upgrades tabs to the storage notification websocket.
type SyncController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewSyncController accepts upgrades from the listed origins. Same-origin
// requests and requests without an Origin header are always accepted.
func NewSyncController(hub *ws.Hub, allowedOrigins []string) *SyncController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &SyncController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed["*"] || allowed[origin] {
					return true
				}
				return origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
	}
}

// HandleWebSocket
// GET /ws?tab=<tab id>
func (ctrl *SyncController) HandleWebSocket(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, scope.Session, scope.Origin)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"tab_id": scope.Origin,
	})
}

// SyncSnapshot builds the summary a freshly connected tab receives.
func SyncSnapshot(stores *service.StoreFactory) ws.Snapshotter {
	return func(ctx context.Context, sessionID string) ws.SyncMessage {
		scope := service.Scope{Session: sessionID}
		return ws.SyncMessage{
			CartCount:      stores.Cart(scope).Totals(ctx).ItemCount,
			FavoritesCount: stores.Favorites(scope).Count(ctx),
		}
	}
}
