package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"menucart/internal/cart"
	"menucart/internal/db/mock"
)

// testApp drives the handlers through a real session cookie, the way a browser would.
type testApp struct {
	t      *testing.T
	db     *gorm.DB
	server *httptest.Server
	client *http.Client
}

func newTestMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", Health)
	mux.HandleFunc("/login", Login)
	mux.HandleFunc("/logout", Logout)
	mux.HandleFunc("/menu", Brands)
	mux.HandleFunc("/menu/", BrandMenu)
	mux.HandleFunc("/variants/", VariantOptions)
	mux.HandleFunc("/cart", CartSummary)
	mux.HandleFunc("/cart/lines", AddLine)
	mux.HandleFunc("/cart/lines/increment", IncrementLine)
	mux.HandleFunc("/cart/lines/decrement", DecrementLine)
	mux.HandleFunc("/cart/lines/remove", RemoveLine)
	mux.HandleFunc("/cart/clear", ClearCart)
	mux.HandleFunc("/cart/checkout", Checkout)
	mux.Handle("/admin/", RequireStaff(http.HandlerFunc(AdminResource)))
	return mux
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := mock.New(context.Background())
	require.NoError(t, err)

	sm := scs.New()
	Configure(sm, db)
	SetCartLimits(cart.DefaultLimits)

	server := httptest.NewServer(sm.LoadAndSave(newTestMux()))
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Close()
		Configure(nil, nil)
		SetCartLimits(cart.DefaultLimits)
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testApp{t: t, db: db, server: server, client: &http.Client{Jar: jar}}
}

func (a *testApp) do(method, path string, body any, out any) int {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out), "decoding %s %s", method, path)
	}
	return resp.StatusCode
}

func (a *testApp) post(path string, body any, out any) int {
	a.t.Helper()
	return a.do(http.MethodPost, path, body, out)
}

func (a *testApp) get(path string, out any) int {
	a.t.Helper()
	return a.do(http.MethodGet, path, nil, out)
}

func (a *testApp) id(model any, name string) uint {
	a.t.Helper()
	var row struct{ ID uint }
	require.NoError(a.t, a.db.Model(model).Select("id").Where("name = ?", name).Take(&row).Error)
	return row.ID
}

func (a *testApp) loginStaff() {
	a.t.Helper()
	var resp loginResponse
	status := a.post("/login", loginRequest{Email: mock.StaffEmail, Password: mock.StaffPassword}, &resp)
	require.Equal(a.t, http.StatusOK, status)
	require.Equal(a.t, "ok", resp.Status)
}

func selections(groupID uint, optionIDs ...uint) map[string][]uint {
	return map[string][]uint{fmt.Sprint(groupID): optionIDs}
}
