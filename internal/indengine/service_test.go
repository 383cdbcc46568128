package indengine

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talib-mcp-server/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.APIKey = "testtoken"
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.MetricsAddr = ""
	return cfg
}

func TestNew_RejectsEmptyKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""
	_, err := New(cfg, "test")
	assert.Error(t, err)

	_, err = New(nil, "test")
	assert.Error(t, err)
}

func TestService_ServeAndShutdown(t *testing.T) {
	svc, err := New(testConfig(), "test")
	require.NoError(t, err)
	assert.Equal(t, 5, svc.Registry().Len())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	require.Eventually(t, func() bool {
		req, _ := http.NewRequest(http.MethodGet, base+"/tools", nil)
		req.Header.Set("Authorization", "Bearer testtoken")
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	// Wrong token: rejected and counted.
	req, _ := http.NewRequest(http.MethodPost, base+"/call", strings.NewReader(`{"name":"sma","arguments":{"prices":[1,2,3]}}`))
	req.Header.Set("Authorization", "Bearer nope")
	resp, err := client.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.prom.AuthRejected.WithLabelValues("mismatch")))
	assert.Equal(t, 0, testutil.CollectAndCount(svc.prom.ToolCallsTotal))

	// Right token.
	req, _ = http.NewRequest(http.MethodPost, base+"/call", strings.NewReader(`{"name":"sma","arguments":{"prices":[1,2,3],"period":3}}`))
	req.Header.Set("Authorization", "Bearer testtoken")
	resp, err = client.Do(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"name":"sma","result":[null,null,2]}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not shut down")
	}
}
