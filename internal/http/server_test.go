package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Adama-mariko/notejour/internal/config"
	"github.com/Adama-mariko/notejour/internal/crypto"
	"github.com/Adama-mariko/notejour/internal/model"
)

func testConfig() config.Config {
	return config.Config{
		HTTPAddr:       ":0",
		JWTSecret:      "test-secret",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: 30 * 24 * time.Hour,
	}
}

func newTestApp(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := newMemStore()
	server := NewServer(testConfig(), store, nil)
	app := httptest.NewServer(server.Router())
	t.Cleanup(app.Close)
	return app, store
}

func seedUser(t *testing.T, store *memStore, nom, prenom, email, telephone, password, role string) model.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	user, err := store.CreateUser(context.Background(), model.User{
		Nom:          nom,
		Prenom:       prenom,
		Email:        email,
		Telephone:    telephone,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user error: %v", err)
	}
	return user
}

func doReq(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode error: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body error: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode error: %v (body %s)", err, data)
	}
}

func login(t *testing.T, app *httptest.Server, email, password string) string {
	t.Helper()
	resp := doReq(t, http.MethodPost, app.URL+"/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatalf("login: expected a token")
	}
	return body.Token
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct {
		name    string
		body    map[string]string
		status  int
		message string
	}{
		{
			name:    "missing fields",
			body:    map[string]string{"nom": "Diallo", "email": "awa@x.com"},
			status:  http.StatusBadRequest,
			message: "Veuillez remplir tous les champs",
		},
		{
			name: "bad telephone",
			body: map[string]string{
				"nom": "Diallo", "prenom": "Awa", "email": "awa@x.com",
				"telephone": "06112", "password": "secret1",
			},
			status:  http.StatusBadRequest,
			message: "Le numéro de téléphone doit contenir 10 chiffres",
		},
		{
			name: "short password",
			body: map[string]string{
				"nom": "Diallo", "prenom": "Awa", "email": "awa@x.com",
				"telephone": "0611223344", "password": "abc",
			},
			status:  http.StatusBadRequest,
			message: "Mot de passe trop court",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doReq(t, http.MethodPost, app.URL+"/auth/register", "", tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
			var body struct {
				Error string `json:"error"`
			}
			decodeBody(t, resp, &body)
			if body.Error != tc.message {
				t.Fatalf("expected error %q, got %q", tc.message, body.Error)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doReq(t, http.MethodPost, app.URL+"/auth/register", "", map[string]string{
		"nom": "Diallo", "prenom": "Awa", "email": "Awa@X.com",
		"telephone": "0611223344", "password": "secret1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &created)
	if created.Message != "Utilisateur créé avec succès" {
		t.Fatalf("unexpected message %q", created.Message)
	}

	// Duplicate email is refused.
	resp = doReq(t, http.MethodPost, app.URL+"/auth/register", "", map[string]string{
		"nom": "Diallo", "prenom": "Awa", "email": "awa@x.com",
		"telephone": "0699887766", "password": "secret1",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	var dup struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &dup)
	if dup.Error != "Email déjà utilisé" {
		t.Fatalf("unexpected error %q", dup.Error)
	}

	// Login with the address as typed at registration time, lowercased.
	resp = doReq(t, http.MethodPost, app.URL+"/auth/login", "", map[string]string{
		"email": "awa@x.com", "password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var loginBody struct {
		Message       string             `json:"message"`
		Token         string             `json:"token"`
		User          sessionUserPayload `json:"user"`
		ExpiresInDays int                `json:"expires_in_days"`
	}
	decodeBody(t, resp, &loginBody)
	if loginBody.Message != "Connexion réussie" || loginBody.Token == "" {
		t.Fatalf("unexpected login body %+v", loginBody)
	}
	if loginBody.User.Email != "awa@x.com" || loginBody.User.Role != "user" {
		t.Fatalf("unexpected user payload %+v", loginBody.User)
	}
	if loginBody.ExpiresInDays != 30 {
		t.Fatalf("expected expires_in_days 30, got %d", loginBody.ExpiresInDays)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, store := newTestApp(t)
	seedUser(t, store, "Diallo", "Awa", "awa@x.com", "0611223344", "secret1", model.RoleUser)

	resp := doReq(t, http.MethodPost, app.URL+"/auth/login", "", map[string]string{
		"email": "awa@x.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error != "Email ou mot de passe incorrect" {
		t.Fatalf("unexpected error %q", body.Error)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/auth/login", "", map[string]string{"email": "awa@x.com"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	app, store := newTestApp(t)
	seedUser(t, store, "Diallo", "Awa", "awa@x.com", "0611223344", "secret1", model.RoleUser)
	token := login(t, app, "awa@x.com", "secret1")

	resp := doReq(t, http.MethodGet, app.URL+"/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 before logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodPost, app.URL+"/auth/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", resp.StatusCode)
	}
	var body struct {
		Message    string `json:"message"`
		LogoutTime string `json:"logout_time"`
	}
	decodeBody(t, resp, &body)
	if body.Message != "Déconnexion réussie" || body.LogoutTime == "" {
		t.Fatalf("unexpected logout body %+v", body)
	}

	// The token is dead from here on.
	resp = doReq(t, http.MethodGet, app.URL+"/auth/me", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAuthMiddleware(t *testing.T) {
	app, store := newTestApp(t)
	seedUser(t, store, "Diallo", "Awa", "awa@x.com", "0611223344", "secret1", model.RoleUser)

	resp := doReq(t, http.MethodGet, app.URL+"/api/user/tasks", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodGet, app.URL+"/api/user/tasks", "not-a-jwt", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAdminGateOnUserRole(t *testing.T) {
	app, store := newTestApp(t)
	seedUser(t, store, "Diallo", "Awa", "awa@x.com", "0611223344", "secret1", model.RoleUser)
	token := login(t, app, "awa@x.com", "secret1")

	for _, url := range []string{"/auth/users", "/api/admin/tasks", "/api/admin/users"} {
		resp := doReq(t, http.MethodGet, app.URL+url, token, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s: expected 403 for non-admin, got %d", url, resp.StatusCode)
		}
		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, resp, &body)
		if body.Error != "Accès non autorisé" {
			t.Fatalf("%s: unexpected error %q", url, body.Error)
		}
	}
}

func TestAdminCreateUser(t *testing.T) {
	app, store := newTestApp(t)
	seedUser(t, store, "Admin", "Root", "admin@x.com", "0600000000", "adminpass", model.RoleAdmin)
	token := login(t, app, "admin@x.com", "adminpass")

	resp := doReq(t, http.MethodPost, app.URL+"/auth/admin/create-user", token, map[string]string{
		"nom": "Diallo", "prenom": "Awa", "email": "awa@x.com",
		"telephone": "0611223344", "password": "secret1", "role": "user",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		Message string             `json:"message"`
		User    sessionUserPayload `json:"user"`
	}
	decodeBody(t, resp, &body)
	if body.User.Email != "awa@x.com" || body.User.Role != "user" {
		t.Fatalf("unexpected created user %+v", body.User)
	}

	// Missing field errors name the field.
	resp = doReq(t, http.MethodPost, app.URL+"/auth/admin/create-user", token, map[string]string{
		"nom": "Diallo", "prenom": "Awa", "email": "x@x.com", "telephone": "0611000000",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var missing struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &missing)
	if missing.Error != "Le champ password est requis" {
		t.Fatalf("unexpected error %q", missing.Error)
	}

	// The new user shows up in the admin listing with role user.
	resp = doReq(t, http.MethodGet, app.URL+"/auth/users", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var users []userPayload
	decodeBody(t, resp, &users)
	found := false
	for _, user := range users {
		if user.Email == "awa@x.com" && user.Role == "user" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected created user in listing, got %+v", users)
	}
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := http.Get(app.URL + "/health")
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
