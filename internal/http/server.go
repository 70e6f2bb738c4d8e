package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adama-mariko/notejour/internal/auth"
	"github.com/Adama-mariko/notejour/internal/config"
	"github.com/Adama-mariko/notejour/internal/crypto"
	"github.com/Adama-mariko/notejour/internal/model"
)

// Store is the persistence surface the handlers need. *repository.Store
// implements it against postgres; tests plug in an in-memory fake.
type Store interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	TelephoneExists(ctx context.Context, telephone string) (bool, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]model.User, error)

	CreateTask(ctx context.Context, task model.Task) (model.Task, error)
	GetTask(ctx context.Context, taskID int64) (model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListTasksByUser(ctx context.Context, userID int64) ([]model.Task, error)
	UpdateTask(ctx context.Context, taskID int64, update model.TaskUpdate) (model.Task, error)
	SetTaskStatus(ctx context.Context, taskID int64, statut string) (model.Task, error)
	SetTaskNote(ctx context.Context, taskID int64, note string) (model.Task, error)
	ValidateTask(ctx context.Context, taskID int64, validatedAt time.Time) (model.Task, error)
	DeleteTask(ctx context.Context, taskID int64) (bool, error)
}

type Server struct {
	cfg     config.Config
	store   Store
	revoked auth.RevocationList
}

func NewServer(cfg config.Config, store Store, revoked auth.RevocationList) *Server {
	if revoked == nil {
		revoked = auth.NewMemoryRevocationList()
	}
	return &Server{cfg: cfg, store: store, revoked: revoked}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.authMiddleware).Post("/logout", s.handleLogout)
		r.With(s.authMiddleware).Get("/me", s.handleMe)
		r.With(s.authMiddleware, s.requireAdmin).Get("/users", s.handleListUsers)
		r.With(s.authMiddleware, s.requireAdmin).Post("/admin/create-user", s.handleAdminCreateUser)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/user", func(r chi.Router) {
			r.Get("/tasks", s.handleMyTasks)
			r.Get("/tasks/{taskID}", s.handleMyTask)
			r.Put("/tasks/{taskID}/status", s.handleUpdateTaskStatus)
			r.Put("/tasks/{taskID}/note", s.handleSubmitTaskNote)
			r.Get("/profile", s.handleMyProfile)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/users", s.handleListStandardUsers)
			r.Get("/users/{userID}/tasks", s.handleUserTasks)
			r.Get("/tasks", s.handleAllTasks)
			r.Post("/tasks", s.handleCreateTask)
			r.Put("/tasks/{taskID}", s.handleUpdateTask)
			r.Put("/tasks/{taskID}/validate", s.handleValidateTask)
			r.Delete("/tasks/{taskID}", s.handleDeleteTask)
		})
	})

	return r
}

type registerRequest struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

var telephoneRe = regexp.MustCompile(`^[0-9]{10}$`)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	if req.Nom == "" || req.Prenom == "" || req.Email == "" || req.Telephone == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Veuillez remplir tous les champs")
		return
	}
	if !telephoneRe.MatchString(req.Telephone) {
		writeError(w, http.StatusBadRequest, "Le numéro de téléphone doit contenir 10 chiffres")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Mot de passe trop court")
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleUser
	}

	if _, err := s.createUser(w, r, req, role); err != nil {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Utilisateur créé avec succès"})
}

// createUser runs the shared duplicate checks and insert; on failure the
// response has already been written and a non-nil error is returned.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request, req registerRequest, role string) (model.User, error) {
	ctx := r.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	telephone := strings.TrimSpace(req.Telephone)

	if exists, err := s.store.EmailExists(ctx, email); err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return model.User{}, err
	} else if exists {
		writeError(w, http.StatusBadRequest, "Email déjà utilisé")
		return model.User{}, errAlreadyHandled
	}
	if exists, err := s.store.TelephoneExists(ctx, telephone); err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return model.User{}, err
	} else if exists {
		writeError(w, http.StatusBadRequest, "Numéro de téléphone déjà utilisé")
		return model.User{}, errAlreadyHandled
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return model.User{}, err
	}

	user, err := s.store.CreateUser(ctx, model.User{
		Nom:          strings.TrimSpace(req.Nom),
		Prenom:       strings.TrimSpace(req.Prenom),
		Email:        email,
		Telephone:    telephone,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Création impossible")
		return model.User{}, err
	}
	return user, nil
}

var errAlreadyHandled = errors.New("response already written")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email et mot de passe obligatoires")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
			return
		}
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
		return
	}

	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Connexion réussie",
		"token":           token,
		"user":            mapSessionUser(user),
		"expires_in_days": int(s.cfg.AccessTokenTTL.Hours() / 24),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Token manquant")
		return
	}
	now := time.Now().UTC()

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoked.Revoke(r.Context(), claims.ID, ttl); err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "Déconnexion réussie",
		"logout_time": now.Format(isoTimeLayout),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, mapUser(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	writeJSON(w, http.StatusOK, mapUsers(users))
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	for field, value := range map[string]string{
		"nom":       req.Nom,
		"prenom":    req.Prenom,
		"email":     req.Email,
		"telephone": req.Telephone,
		"password":  req.Password,
	} {
		if strings.TrimSpace(value) == "" {
			writeError(w, http.StatusBadRequest, "Le champ "+field+" est requis")
			return
		}
	}
	if !telephoneRe.MatchString(strings.TrimSpace(req.Telephone)) {
		writeError(w, http.StatusBadRequest, "Le numéro de téléphone doit contenir 10 chiffres")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Mot de passe trop court")
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleUser
	}

	user, err := s.createUser(w, r, req, role)
	if err != nil {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Utilisateur créé avec succès",
		"user":    mapSessionUser(user),
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Token manquant")
			return
		}

		claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token invalide")
			return
		}
		if revoked, err := s.revoked.IsRevoked(r.Context(), claims.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "Erreur serveur")
			return
		} else if revoked {
			writeError(w, http.StatusUnauthorized, "Token révoqué")
			return
		}

		user, err := s.store.GetUserByEmail(r.Context(), claims.Email)
		if err != nil {
			writeError(w, http.StatusNotFound, "Utilisateur non trouvé")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = context.WithValue(ctx, userKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		if !strings.EqualFold(user.Role, model.RoleAdmin) {
			writeError(w, http.StatusForbidden, "Accès non autorisé")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type claimsKey struct{}
type userKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

func userFromContext(ctx context.Context) model.User {
	user, _ := ctx.Value(userKey{}).(model.User)
	return user
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
