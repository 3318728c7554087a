package controllers

import (
	"net/http"
	"strings"
	"time"

	"caloriecam/middlewares"
	"caloriecam/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const pingInterval = 25 * time.Second

type RealtimeController struct {
	hub      *services.RealtimeHub
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

// NewRealtimeController accepts upgrades from the given browser origins;
// "*" allows any. Requests without an Origin header are not from a browser
// and are let through.
func NewRealtimeController(hub *services.RealtimeHub, allowedOrigins []string, log logrus.FieldLogger) *RealtimeController {
	return &RealtimeController{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		log: log,
	}
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// AlertsWS streams meal and advice events of the caller.
func (rc *RealtimeController) AlertsWS(c *gin.Context) {
	uid := c.GetUint("userID")

	conn, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		middlewares.Logger(c, rc.log).WithError(err).Debug("websocket upgrade failed")
		return
	}
	cl := &services.WSClient{UserID: uid, Conn: conn}
	rc.hub.Register(cl)

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					rc.hub.Unregister(cl)
					return
				}
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.hub.Unregister(cl)
			return
		}
	}
}
