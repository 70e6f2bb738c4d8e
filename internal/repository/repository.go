package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Adama-mariko/notejour/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const userColumns = `id, nom, prenom, email, telephone, password_hash, photo_profile, role, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Nom,
		&user.Prenom,
		&user.Email,
		&user.Telephone,
		&user.PasswordHash,
		&user.PhotoProfile,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (nom, prenom, email, telephone, password_hash, photo_profile, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns+`
	`, user.Nom, user.Prenom, user.Email, user.Telephone, user.PasswordHash, user.PhotoProfile, user.Role)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (s *Store) TelephoneExists(ctx context.Context, telephone string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE telephone = $1)`, telephone).Scan(&exists)
	return exists, err
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) ListUsersByRole(ctx context.Context, role string) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE lower(role) = lower($1) ORDER BY id`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

const taskColumns = `
	t.id, t.titre, t.description, t.statut, t.note_utilisateur, t.valide_par_admin,
	t.date_validation, t.created_at, t.updated_at, t.user_id, t.assigned_by_id,
	u.id, u.nom, u.prenom, u.email`

func scanTask(row pgx.Row) (model.Task, error) {
	var task model.Task
	var owner model.User
	err := row.Scan(
		&task.ID,
		&task.Titre,
		&task.Description,
		&task.Statut,
		&task.NoteUtilisateur,
		&task.ValideParAdmin,
		&task.DateValidation,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.UserID,
		&task.AssignedByID,
		&owner.ID,
		&owner.Nom,
		&owner.Prenom,
		&owner.Email,
	)
	if err != nil {
		return task, err
	}
	task.User = &owner
	return task, nil
}

func (s *Store) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	var taskID int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (titre, description, statut, user_id, assigned_by_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, task.Titre, task.Description, task.Statut, task.UserID, task.AssignedByID).Scan(&taskID)
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, taskID)
}

func (s *Store) GetTask(ctx context.Context, taskID int64) (model.Task, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`, taskID)
	return scanTask(row)
}

func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		ORDER BY t.created_at DESC
	`)
}

func (s *Store) ListTasksByUser(ctx context.Context, userID int64) ([]model.Task, error) {
	return s.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...interface{}) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, taskID int64, update model.TaskUpdate) (model.Task, error) {
	_, err := s.pool.Exec(ctx, `
		UPDATE tasks
		SET titre = COALESCE($1, titre),
		    description = COALESCE($2, description),
		    statut = COALESCE($3, statut),
		    updated_at = now()
		WHERE id = $4
	`, update.Titre, update.Description, update.Statut, taskID)
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, taskID)
}

func (s *Store) SetTaskStatus(ctx context.Context, taskID int64, statut string) (model.Task, error) {
	_, err := s.pool.Exec(ctx, `
		UPDATE tasks SET statut = $1, updated_at = now() WHERE id = $2
	`, statut, taskID)
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, taskID)
}

func (s *Store) SetTaskNote(ctx context.Context, taskID int64, note string) (model.Task, error) {
	_, err := s.pool.Exec(ctx, `
		UPDATE tasks SET note_utilisateur = $1, updated_at = now() WHERE id = $2
	`, note, taskID)
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, taskID)
}

func (s *Store) ValidateTask(ctx context.Context, taskID int64, validatedAt time.Time) (model.Task, error) {
	_, err := s.pool.Exec(ctx, `
		UPDATE tasks
		SET statut = $1, valide_par_admin = true, date_validation = $2, updated_at = now()
		WHERE id = $3
	`, model.StatusValidated, validatedAt, taskID)
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, taskID)
}

func (s *Store) DeleteTask(ctx context.Context, taskID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
