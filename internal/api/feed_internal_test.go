package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
)

// echoEngine upgrades /echo through upgradeWriter and echoes one message.
func echoEngine(t *testing.T, accepted chan<- error) *gin.Engine {
	t.Helper()

	r := gin.New()
	r.GET("/echo", func(c *gin.Context) {
		conn, err := websocket.Accept(newUpgradeWriter(c.Writer), c.Request, nil)
		accepted <- err
		if err != nil {
			return
		}
		defer conn.CloseNow() //nolint:errcheck

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		typ, msg, err := conn.Read(ctx)
		if err != nil {
			return
		}
		conn.Write(ctx, typ, msg)                     //nolint:errcheck
		conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
	})

	return r
}

func TestUpgradeWriter_HijacksUnderGin(t *testing.T) {
	accepted := make(chan error, 1)
	srv := httptest.NewServer(echoEngine(t, accepted))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/echo", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow() //nolint:errcheck

	if err := <-accepted; err != nil {
		t.Fatalf("server accept: %v", err)
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, msg, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read echo: %v", err)
	}
	if string(msg) != "hello" {
		t.Errorf("expected echo %q, got %q", "hello", msg)
	}
}

func TestUpgradeWriter_RejectionGoesThroughGin(t *testing.T) {
	accepted := make(chan error, 1)
	r := echoEngine(t, accepted)

	req := httptest.NewRequest(http.MethodGet, "/echo", http.NoBody)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Origin", "http://elsewhere.example")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if err := <-accepted; err == nil {
		t.Fatal("expected accept to reject a foreign origin")
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
