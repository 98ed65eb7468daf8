package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenpay/pkg/screen"
)

func TestServeStreamsInitialAndBroadcastedConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/config/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req

	done := make(chan struct{})
	go func() {
		hub.Serve(c, screen.DefaultConfig())
		close(done)
	}()

	// wait for subscription, then push an update and disconnect
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	hub.Broadcast(screen.Config{EnableText: true, Price: 250, Time: 20})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: configUpdate"))
	assert.Contains(t, body, `"price":100`)
	assert.Contains(t, body, `"price":250`)
	assert.Equal(t, 0, hub.Subscribers())
}
