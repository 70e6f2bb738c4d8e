package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/Adama-mariko/notejour/internal/model"
)

func (s *Server) handleMyTasks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	tasks, err := s.store.ListTasksByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	writeJSON(w, http.StatusOK, mapTasks(tasks))
}

func (s *Server) handleMyTask(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	task, ok := s.ownTask(w, r, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mapTask(task))
}

type updateStatusRequest struct {
	Statut string `json:"statut"`
}

func (s *Server) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	task, ok := s.ownTask(w, r, user)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	if !model.UserSettableStatus(req.Statut) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":             "Statut invalide",
			"message":           "Utilisez 'à faire', 'en cours' ou 'terminé'",
			"statuts_autorisés": []string{model.StatusTodo, model.StatusInProgress, model.StatusDone},
		})
		return
	}
	if !model.CanSetStatus(task, req.Statut) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":         "Transition non autorisée",
			"message":       "Une tâche validée ne peut plus changer de statut",
			"statut_actuel": task.Statut,
		})
		return
	}

	updated, err := s.store.SetTaskStatus(r.Context(), task.ID, req.Statut)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Tâche marquée comme '" + req.Statut + "'",
		"task":    mapTask(updated),
	})
}

type submitNoteRequest struct {
	NoteUtilisateur string `json:"note_utilisateur"`
}

func (s *Server) handleSubmitTaskNote(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	task, ok := s.ownTask(w, r, user)
	if !ok {
		return
	}

	var req submitNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	// Notes are accepted at any status, validation included.
	updated, err := s.store.SetTaskNote(r.Context(), task.ID, req.NoteUtilisateur)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Note enregistrée avec succès",
		"task":    mapTask(updated),
	})
}

func (s *Server) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, mapUser(user))
}

func (s *Server) handleListStandardUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsersByRole(r.Context(), model.RoleUser)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	writeJSON(w, http.StatusOK, mapUsers(users))
}

func (s *Server) handleAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	writeJSON(w, http.StatusOK, mapTasks(tasks))
}

func (s *Server) handleUserTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Utilisateur invalide")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil || !strings.EqualFold(user.Role, model.RoleUser) {
		writeError(w, http.StatusBadRequest, "Utilisateur invalide")
		return
	}

	tasks, err := s.store.ListTasksByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	writeJSON(w, http.StatusOK, mapTasks(tasks))
}

type createTaskRequest struct {
	UserID      int64  `json:"user_id"`
	Titre       string `json:"titre"`
	Description string `json:"description"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	admin := userFromContext(r.Context())

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if req.UserID == 0 || strings.TrimSpace(req.Titre) == "" {
		writeError(w, http.StatusBadRequest, "L'utilisateur et le titre sont obligatoires")
		return
	}

	assignee, err := s.store.GetUserByID(r.Context(), req.UserID)
	if err != nil || !strings.EqualFold(assignee.Role, model.RoleUser) {
		writeError(w, http.StatusBadRequest, "Utilisateur invalide. Doit être un utilisateur standard (non-admin)")
		return
	}

	adminID := admin.ID
	task, err := s.store.CreateTask(r.Context(), model.Task{
		Titre:        req.Titre,
		Description:  req.Description,
		Statut:       model.StatusTodo,
		UserID:       req.UserID,
		AssignedByID: &adminID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	writeJSON(w, http.StatusCreated, mapTask(task))
}

type updateTaskRequest struct {
	Titre       *string `json:"titre"`
	Description *string `json:"description"`
	Statut      *string `json:"statut"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.adminTask(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if req.Statut != nil && !model.ValidStatus(*req.Statut) {
		writeError(w, http.StatusBadRequest, "Statut invalide")
		return
	}
	// A validated task keeps its status; the storage constraint would reject
	// the write anyway.
	if req.Statut != nil && *req.Statut != task.Statut && model.Validated(task) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":         "Transition non autorisée",
			"message":       "Une tâche validée ne peut plus changer de statut",
			"statut_actuel": task.Statut,
		})
		return
	}

	updated, err := s.store.UpdateTask(r.Context(), task.ID, model.TaskUpdate{
		Titre:       req.Titre,
		Description: req.Description,
		Statut:      req.Statut,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	writeJSON(w, http.StatusOK, mapTask(updated))
}

func (s *Server) handleValidateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.adminTask(w, r)
	if !ok {
		return
	}

	if !model.CanValidate(task) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":         "Action impossible",
			"message":       "Seules les tâches 'terminé' peuvent être validées",
			"statut_actuel": task.Statut,
		})
		return
	}

	validated, err := s.store.ValidateTask(r.Context(), task.ID, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Tâche validée avec succès",
		"task":    mapTask(validated),
	})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.adminTask(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteTask(r.Context(), task.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Tâche non trouvée")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tâche supprimée avec succès"})
}

// ownTask resolves {taskID} and checks ownership; on failure the 404 has been
// written. Ownership failures are reported as not-found, not forbidden, so the
// existence of other users' tasks leaks nothing.
func (s *Server) ownTask(w http.ResponseWriter, r *http.Request, user model.User) (model.Task, bool) {
	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Tâche non trouvée")
		return model.Task{}, false
	}
	task, err := s.store.GetTask(r.Context(), taskID)
	if err != nil || task.UserID != user.ID {
		writeError(w, http.StatusNotFound, "Tâche non trouvée")
		return model.Task{}, false
	}
	return task, true
}

func (s *Server) adminTask(w http.ResponseWriter, r *http.Request) (model.Task, bool) {
	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Tâche non trouvée")
		return model.Task{}, false
	}
	task, err := s.store.GetTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Tâche non trouvée")
			return model.Task{}, false
		}
		writeError(w, http.StatusInternalServerError, "Erreur serveur")
		return model.Task{}, false
	}
	return task, true
}
