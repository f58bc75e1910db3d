package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/yaotthaha/ipsetd/ipset"
	"github.com/yaotthaha/ipsetd/ipset/memory"
	"github.com/yaotthaha/ipsetd/log"
	"github.com/yaotthaha/ipsetd/option"

	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, options option.APIOptions) (http.Handler, *memory.Service) {
	t.Helper()
	service := memory.NewService()
	manager := ipset.NewManager(service, nil)
	a, err := NewAPIServer(context.Background(), manager, log.NewNopLogger(), options)
	require.NoError(t, err)
	return a.Handler(), service
}

func do(handler http.Handler, method string, target string, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if secret != "" {
		req.Header.Set("Authorization", "Bearer "+secret)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestAPIAddDelete(t *testing.T) {
	handler, service := newTestAPI(t, option.APIOptions{})

	w := do(handler, http.MethodPut, "/sets/blocklist/192.0.2.1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, []netip.Addr{netip.MustParseAddr("192.0.2.1")}, service.Members("blocklist"))

	// adding twice is fine
	w = do(handler, http.MethodPut, "/sets/blocklist/192.0.2.1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(handler, http.MethodDelete, "/sets/blocklist/192.0.2.1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, service.Members("blocklist"))

	w = do(handler, http.MethodDelete, "/sets/blocklist/192.0.2.1", "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, errorOf(t, w), "it's not added")
}

func TestAPIIPv6(t *testing.T) {
	handler, service := newTestAPI(t, option.APIOptions{})
	w := do(handler, http.MethodPut, "/sets/v6/2001:db8::1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(handler, http.MethodPut, "/sets/v6/2001%3Adb8%3A%3A2", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, service.Members("v6"), 2)
}

func TestAPIEscapedSetName(t *testing.T) {
	handler, service := newTestAPI(t, option.APIOptions{})
	// decodes to "100%25", which must not be decoded again
	w := do(handler, http.MethodPut, "/sets/100%2525/192.0.2.1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.True(t, service.Exists("100%25"))
	require.False(t, service.Exists("100%"))

	w = do(handler, http.MethodPut, "/sets/a%20b/192.0.2.2", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.True(t, service.Exists("a b"))
}

func TestAPIInvalidAddress(t *testing.T) {
	handler, service := newTestAPI(t, option.APIOptions{})
	w := do(handler, http.MethodPut, "/sets/blocklist/192.0.2.999", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "ipset: 192.0.2.999 is not a valid IP address", errorOf(t, w))
	opened, _ := service.Sessions()
	require.Zero(t, opened)
}

func TestAPIAuth(t *testing.T) {
	handler, _ := newTestAPI(t, option.APIOptions{Secret: "token"})

	w := do(handler, http.MethodPut, "/sets/blocklist/192.0.2.1", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(handler, http.MethodPut, "/sets/blocklist/192.0.2.1", "wrong")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(handler, http.MethodPut, "/sets/blocklist/192.0.2.1", "token")
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestAPIRoutes(t *testing.T) {
	handler, _ := newTestAPI(t, option.APIOptions{})
	w := do(handler, http.MethodGet, "/sets/blocklist/192.0.2.1", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	w = do(handler, http.MethodGet, "/unknown", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(handler, http.MethodGet, "/debug/pprof/", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	handler, _ = newTestAPI(t, option.APIOptions{Debug: true})
	w = do(handler, http.MethodGet, "/debug/pprof/", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestNewAPIServerListen(t *testing.T) {
	manager := ipset.NewManager(memory.NewService(), nil)
	_, err := NewAPIServer(context.Background(), manager, log.NewNopLogger(), option.APIOptions{Listen: "localhost"})
	require.Error(t, err)
	a, err := NewAPIServer(context.Background(), manager, log.NewNopLogger(), option.APIOptions{Listen: "127.0.0.1:0"})
	require.NoError(t, err)
	require.NotNil(t, a.httpServer)
	require.NoError(t, a.Close())
}
