package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikolayk812/storefront/internal/app"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCartAndCheckout(t *testing.T) {
	a := newTestApp(t)
	ctx := t.Context()

	out := runCommand(t, a, "cart", "add", "1", "2")
	assert.Contains(t, out, "Essence Mascara Lash Princess")
	assert.Contains(t, out, "USD 19.98")

	out = runCommand(t, a, "cart", "dec", "1")
	assert.Contains(t, out, "USD 9.99")

	out = runCommand(t, a, "cart", "dec", "1")
	assert.Contains(t, out, "USD 9.99", "quantity floors at one")

	err := run(ctx, a, io.Discard, "checkout", []string{"-address", "1 Main St", "-city", "Springfield", "-phone", "555", "-card", "4242424242424242"})
	require.Error(t, err)
	assert.Equal(t, "login required", describe(err))

	out = runCommand(t, a, "login", "emilys", "emilyspass")
	assert.Contains(t, out, "logged in as Emily Johnson")

	out = runCommand(t, a, "checkout", "-address", "1 Main St", "-city", "Springfield", "-phone", "555", "-card", "4242424242424242")
	assert.Contains(t, out, "card ending 4242")

	out = runCommand(t, a, "cart")
	assert.Contains(t, out, "cart is empty")
}

func TestRunLoginRejected(t *testing.T) {
	a := newTestApp(t)

	err := run(t.Context(), a, io.Discard, "login", []string{"emilys", "wrongpass"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", describe(err))

	out := runCommand(t, a, "whoami")
	assert.Contains(t, out, "not logged in")
}

func TestRunSignupLogout(t *testing.T) {
	a := newTestApp(t)

	out := runCommand(t, a, "signup", "Jane Doe", "jane@example.com", "Secret123")
	assert.Contains(t, out, "logged in as Jane Doe")

	out = runCommand(t, a, "whoami")
	assert.Contains(t, out, "jane@example.com")

	runCommand(t, a, "logout")
	out = runCommand(t, a, "whoami")
	assert.Contains(t, out, "not logged in")
}

func TestRunErrors(t *testing.T) {
	a := newTestApp(t)

	require.Error(t, run(t.Context(), a, io.Discard, "bogus", nil))
	require.ErrorContains(t, run(t.Context(), a, io.Discard, "cart", []string{"inc", "7"}), "not in the cart")
	require.ErrorContains(t, run(t.Context(), a, io.Discard, "product", []string{"abc"}), "is not valid")
}

func runCommand(t *testing.T, a *app.App, command string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	require.NoError(t, run(t.Context(), a, &out, command, args))
	return out.String()
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"title":"Essence Mascara Lash Princess","category":"beauty","price":9.99}`))
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !bytes.Contains(body, []byte(`"emilyspass"`)) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"username":"emilys","email":"emily.johnson@x.dummyjson.com","firstName":"Emily","lastName":"Johnson","accessToken":"access"}`))
	})
	mux.HandleFunc("POST /users/add", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":209}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	var cfg config.Config
	require.NoError(t, config.ParseEnv(&cfg))
	cfg.StorageDriver = config.StorageMemory
	cfg.APIBaseURL = server.URL
	cfg.CheckoutDelay = 0
	cfg.RequireLogin = true
	cfg.LocalLoginShortcut = true

	a, err := app.New(t.Context(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return a
}
