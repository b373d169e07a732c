package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/petcommunity/petcommunity/internal/auth"
	"github.com/petcommunity/petcommunity/internal/handler"
	"github.com/petcommunity/petcommunity/internal/metrics"
	"github.com/petcommunity/petcommunity/internal/middleware"
	"github.com/petcommunity/petcommunity/internal/model"
	"github.com/petcommunity/petcommunity/internal/repository"
	"github.com/petcommunity/petcommunity/internal/service"
)

const (
	testSecret = "router-test-secret"
	testIssuer = "petcommunity"
)

type userStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func (s *userStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrUserExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *userStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *userStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type petStore struct {
	mu     sync.Mutex
	nextID int64
	pets   map[int64]*model.Pet
	order  []int64
}

func (s *petStore) CreatePet(_ context.Context, pet *model.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	pet.ID = s.nextID
	pet.DateAdded = time.Now().UTC()
	stored := *pet
	s.pets[pet.ID] = &stored
	s.order = append(s.order, pet.ID)
	return nil
}

func (s *petStore) ListPetsByOwner(_ context.Context, ownerID int64) ([]*model.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Pet
	for _, id := range s.order {
		if p, ok := s.pets[id]; ok && p.IsOwnedBy(ownerID) {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *petStore) UpdateOwnedPet(_ context.Context, id, ownerID int64, patch model.PetPatch) (*model.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pets[id]
	if !ok || !p.IsOwnedBy(ownerID) {
		return nil, repository.ErrPetNotFound
	}
	patch.Apply(p)
	copied := *p
	return &copied, nil
}

func (s *petStore) DeleteOwnedPet(_ context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pets[id]
	if !ok || !p.IsOwnedBy(ownerID) {
		return repository.ErrPetNotFound
	}
	delete(s.pets, id)
	return nil
}

type testAPI struct {
	handler http.Handler
	pets    *petStore
	metrics *metrics.InMemoryRecorder
}

func newTestAPI(t *testing.T, opts handler.PetHandlerOptions) *testAPI {
	t.Helper()

	pets := &petStore{pets: make(map[int64]*model.Pet)}
	api := buildAPI(t, &userStore{users: make(map[int64]*model.User)}, pets, nil, opts)
	api.pets = pets
	return api
}

// buildAPI wires real services and handlers over the given stores.
// userCache may be nil.
func buildAPI(t *testing.T, users service.UserStore, pets service.PetStore, userCache service.UserCache, opts handler.PetHandlerOptions) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := metrics.NewInMemory()

	authSvc := service.NewAuthService(service.AuthServiceConfig{
		Users:   users,
		Cache:   userCache,
		Hasher:  auth.NewPasswordHasher(auth.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}),
		Tokens:  auth.NewTokenManager(testSecret, testIssuer, time.Hour),
		Metrics: recorder,
		Logger:  logger,
	})
	petSvc := service.NewPetService(pets, recorder)

	h := New(Deps{
		Handler:     handler.New(),
		Health:      handler.NewHealthHandler(logger),
		Users:       handler.NewUserHandler(authSvc, logger),
		Pets:        handler.NewPetHandler(petSvc, logger, opts),
		Metrics:     handler.NewMetricsHandler(recorder),
		Identity:    authSvc,
		Logger:      logger,
		Security:    middleware.SecurityConfig{IsDevelopment: true},
		CORS:        middleware.DefaultCORSConfig(),
		MaxBodySize: 1 << 20,
	})

	return &testAPI{handler: h, metrics: recorder}
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and logs in, returning the bearer token.
func (a *testAPI) signup(t *testing.T, username string) string {
	t.Helper()

	body := `{"username":"` + username + `","email":"` + username + `@example.com","password":"pw-` + username + `"}`
	if rec := a.do(t, http.MethodPost, "/users", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body.String())
	}

	rec := a.do(t, http.MethodPost, "/login", "", `{"username":"`+username+`","password":"pw-`+username+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, rec, &resp)
	if resp.AccessToken == "" {
		t.Fatal("login returned empty access_token")
	}
	return resp.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type petJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Species     string  `json:"species"`
	Age         int     `json:"age"`
	Description *string `json:"description"`
	OwnerID     *int64  `json:"owner_id"`
	DateAdded   string  `json:"date_added"`
}

func createPet(t *testing.T, a *testAPI, token, body string) petJSON {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/newpet", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create pet: status %d body %s", rec.Code, rec.Body.String())
	}

	var env envelope
	decode(t, rec, &env)
	if env.Message != "Pet created successfully!" {
		t.Errorf("message = %q", env.Message)
	}

	var pet petJSON
	if err := json.Unmarshal(env.Data, &pet); err != nil {
		t.Fatalf("decode pet: %v", err)
	}
	return pet
}

func TestRouter_PetLifecycle(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, handler.PetHandlerOptions{})
	token := api.signup(t, "alice")

	pet := createPet(t, api, token, `{"name":"Rex","species":"dog","age":3,"description":"good boy"}`)
	if pet.ID == 0 || pet.Name != "Rex" || pet.Age != 3 {
		t.Fatalf("unexpected pet: %+v", pet)
	}
	if _, err := time.Parse(time.RFC3339, pet.DateAdded); err != nil {
		t.Errorf("date_added %q is not RFC 3339: %v", pet.DateAdded, err)
	}

	rec := api.do(t, http.MethodGet, "/pets", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d body %s", rec.Code, rec.Body.String())
	}
	var list []petJSON
	decode(t, rec, &list)
	if len(list) != 1 || list[0].ID != pet.ID {
		t.Fatalf("list = %+v", list)
	}

	path := "/pets/" + jsonInt(pet.ID)
	rec = api.do(t, http.MethodPut, path, token, `{"age":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}
	var env envelope
	decode(t, rec, &env)
	if env.Message != "Pet with ID "+jsonInt(pet.ID)+" has been updated" {
		t.Errorf("update message = %q", env.Message)
	}
	var updated petJSON
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Age != 5 || updated.Name != "Rex" || updated.Species != "dog" {
		t.Errorf("partial update changed other fields: %+v", updated)
	}
	if updated.Description == nil || *updated.Description != "good boy" {
		t.Errorf("description changed: %v", updated.Description)
	}
	if updated.DateAdded != pet.DateAdded {
		t.Errorf("date_added changed: %s -> %s", pet.DateAdded, updated.DateAdded)
	}

	rec = api.do(t, http.MethodDelete, path, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &env)
	if env.Message != "Pet with ID "+jsonInt(pet.ID)+" has been deleted" {
		t.Errorf("delete message = %q", env.Message)
	}

	rec = api.do(t, http.MethodDelete, path, token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", rec.Code)
	}

	snap := api.metrics.Snapshot()
	if snap.PetsCreated != 1 || snap.PetsUpdated != 1 || snap.PetsDeleted != 1 {
		t.Errorf("pet counters = %+v", snap)
	}
}

func TestRouter_OwnerIsolation(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, handler.PetHandlerOptions{})
	alice := api.signup(t, "alice")
	bob := api.signup(t, "bob")

	pet := createPet(t, api, alice, `{"name":"Rex","species":"dog","age":3}`)
	path := "/pets/" + jsonInt(pet.ID)

	if rec := api.do(t, http.MethodGet, "/pets", bob, ""); rec.Code != http.StatusNotFound {
		t.Errorf("bob list: status %d, want 404", rec.Code)
	}
	if rec := api.do(t, http.MethodPut, path, bob, `{"name":"Stolen"}`); rec.Code != http.StatusNotFound {
		t.Errorf("bob update: status %d, want 404", rec.Code)
	}
	if rec := api.do(t, http.MethodDelete, path, bob, ""); rec.Code != http.StatusNotFound {
		t.Errorf("bob delete: status %d, want 404", rec.Code)
	}

	rec := api.do(t, http.MethodGet, "/pets", alice, "")
	var list []petJSON
	decode(t, rec, &list)
	if len(list) != 1 || list[0].Name != "Rex" {
		t.Errorf("alice's pet was modified: %+v", list)
	}
}

func TestRouter_EmptyPetList(t *testing.T) {
	t.Parallel()

	t.Run("default 404", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t, handler.PetHandlerOptions{})
		rec := api.do(t, http.MethodGet, "/pets", api.signup(t, "carol"), "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status %d, want 404", rec.Code)
		}
		var env envelope
		decode(t, rec, &env)
		if env.Message != "No pets found for this user" {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("empty list ok", func(t *testing.T) {
		t.Parallel()

		api := newTestAPI(t, handler.PetHandlerOptions{EmptyListOK: true})
		rec := api.do(t, http.MethodGet, "/pets", api.signup(t, "carol"), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d, want 200", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %s, want []", got)
		}
	})
}

func TestRouter_CreatePetValidation(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, handler.PetHandlerOptions{})
	token := api.signup(t, "dave")

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"missing age", `{"name":"Rex","species":"dog"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing name", `{"species":"dog","age":1}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"fractional age", `{"name":"Rex","species":"dog","age":1.5}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative age", `{"name":"Rex","species":"dog","age":-1}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"word age", `{"name":"Rex","species":"dog","age":"three"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"plus-signed age", `{"name":"Rex","species":"dog","age":"+5"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"boolean age", `{"name":"Rex","species":"dog","age":true}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"blank name", `{"name":"  ","species":"dog","age":1}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid json", `{"name":`, http.StatusBadRequest, "INVALID_JSON"},
		{"empty body", ``, http.StatusBadRequest, "INVALID_JSON"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/newpet", token, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			var env envelope
			decode(t, rec, &env)
			if env.Status != "error" || env.Code != tt.wantErr {
				t.Errorf("envelope = %+v, want code %s", env, tt.wantErr)
			}
		})
	}

	if n := len(api.pets.pets); n != 0 {
		t.Errorf("invalid creates persisted %d pets", n)
	}
}

func TestRouter_CreatePetStringAge(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, handler.PetHandlerOptions{})
	pet := createPet(t, api, api.signup(t, "erin"), `{"name":"Tom","species":"cat","age":"4"}`)
	if pet.Age != 4 {
		t.Errorf("age = %d, want 4", pet.Age)
	}
	if pet.Description != nil {
		t.Errorf("description = %q, want null", *pet.Description)
	}
}

func TestRouter_UpdateClearsDescription(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, handler.PetHandlerOptions{})
	token := api.signup(t, "frank")
	pet := createPet(t, api, token, `{"name":"Tom","species":"cat","age":2,"description":"grumpy"}`)

	rec := api.do(t, http.MethodPut, "/pets/"+jsonInt(pet.ID), token, `{"description":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var env envelope
	decode(t, rec, &env)
	var updated petJSON
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Description != nil {
		t.Errorf("description = %q, want null", *updated.Description)
	}

	rec = api.do(t, http.MethodPut, "/pets/"+jsonInt(pet.ID), token, `{"name":null}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("null name: status %d, want 400", rec.Code)
	}
}

func TestRouter_BearerFailures(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, handler.PetHandlerOptions{})
	now := time.Now()

	sign := func(secret string, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"other secret", "Bearer " + sign("nope", jwt.MapClaims{"sub": "1", "iss": testIssuer}), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(testSecret, jwt.MapClaims{"sub": "1", "iss": testIssuer, "exp": now.Add(-time.Minute).Unix()}), http.StatusUnauthorized},
		{"numeric subject", "Bearer " + sign(testSecret, jwt.MapClaims{"sub": 1, "iss": testIssuer}), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/pets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			api.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestRouter_Accounts(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, handler.PetHandlerOptions{})

	rec := api.do(t, http.MethodPost, "/users", "", `{"username":"gina","email":"gina@example.com","password":"pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	var env envelope
	decode(t, rec, &env)
	if env.Status != "success" || env.Message != "User created successfully!" {
		t.Errorf("register envelope = %+v", env)
	}
	if strings.Contains(string(env.Data), "pw") || strings.Contains(string(env.Data), "password") {
		t.Errorf("response leaks password data: %s", env.Data)
	}

	rec = api.do(t, http.MethodPost, "/users", "", `{"username":"gina","email":"other@example.com","password":"pw"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: status %d, want 400", rec.Code)
	}
	decode(t, rec, &env)
	if env.Message != "Username or email already exists!" {
		t.Errorf("duplicate message = %q", env.Message)
	}

	rec = api.do(t, http.MethodPost, "/users", "", `{"username":"hank"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields: status %d, want 400", rec.Code)
	}

	rec = api.do(t, http.MethodPost, "/login", "", `{"username":"gina","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status %d, want 401", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "access_token") {
		t.Error("failed login must not return a token")
	}

	rec = api.do(t, http.MethodGet, "/users/1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get user: status %d body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &env)
	var user model.UserSummary
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.ID != 1 || user.Username != "gina" || user.Email != "gina@example.com" {
		t.Errorf("user = %+v", user)
	}

	for _, path := range []string{"/users/999", "/users/abc"} {
		if rec := api.do(t, http.MethodGet, path, "", ""); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want 404", path, rec.Code)
		}
	}
}

func TestRouter_SupportRoutes(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, handler.PetHandlerOptions{})

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		contains string
	}{
		{"banner", http.MethodGet, "/", http.StatusOK, "Pet Community Backend is running!"},
		{"liveness", http.MethodGet, "/healthz", http.StatusOK, `"ok"`},
		{"readiness", http.MethodGet, "/readyz", http.StatusOK, `"ok"`},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "petcommunity_pets_created_total 0"},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound, "NOT_FOUND"},
		{"wrong method", http.MethodPatch, "/users", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := api.do(t, tt.method, tt.path, "", "")
			if rec.Code != tt.wantCode {
				t.Errorf("status %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestRouter_AppliesGlobalMiddleware(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, handler.PetHandlerOptions{})
	rec := api.do(t, http.MethodGet, "/", "", "")

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
