package api

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/listings/internal/ws"
)

// originHosts reduces CORS origins to the host patterns websocket.Accept matches against.
func originHosts(corsOrigins []string) []string {
	hosts := make([]string, 0, len(corsOrigins))
	for _, o := range corsOrigins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}

// upgradeWriter writes the 101 straight to the net/http writer so gin never
// marks the response written, which would make its Hijack fail. Other status
// codes only go through gin so rejected upgrades are logged normally.
type upgradeWriter struct {
	gin gin.ResponseWriter
	raw http.ResponseWriter
}

func newUpgradeWriter(w gin.ResponseWriter) *upgradeWriter {
	var raw http.ResponseWriter = w
	if u, ok := w.(interface{ Unwrap() http.ResponseWriter }); ok {
		raw = u.Unwrap()
	}

	return &upgradeWriter{gin: w, raw: raw}
}

func (w *upgradeWriter) Header() http.Header { return w.gin.Header() }

func (w *upgradeWriter) Write(b []byte) (int, error) { return w.gin.Write(b) }

func (w *upgradeWriter) WriteHeader(code int) {
	w.gin.WriteHeader(code)
	if code == http.StatusSwitchingProtocols {
		w.raw.WriteHeader(code)
	}
}

func (w *upgradeWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.gin.Hijack()
}

// feedHandler upgrades GET /api/v1/changes/feed to a WebSocket streaming
// property.changed events. ?property_id= narrows the stream to one property.
func feedHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string) gin.HandlerFunc {
	patterns := originHosts(corsOrigins)

	return func(c *gin.Context) {
		var propertyID int64
		if raw := c.Query("property_id"); raw != "" {
			id, err := parsePathID(raw)
			if err != nil || id <= 0 {
				respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "property_id must be a positive integer")

				return
			}
			propertyID = id
		}

		conn, err := websocket.Accept(newUpgradeWriter(c.Writer), c.Request, &websocket.AcceptOptions{
			OriginPatterns:       patterns,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")

			return
		}

		client := ws.NewClient(hub, conn, propertyID)
		hub.Register(client)

		// Cancel when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}
