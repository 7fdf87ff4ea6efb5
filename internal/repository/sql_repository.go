package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	_ TodoRepository = (*SQLTodoRepository)(nil)
	_ UserRepository = (*SQLUserRepository)(nil)
)

const (
	todoColumns = "id, title, completed, priority, due_date, created_at, updated_at"
	userColumns = "id, first_name, last_name, email, username, password_hash, created_at, updated_at"

	pgUniqueViolation = "23505"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// SQLTodoRepository implements TodoRepository with hand-written SQL on
// database/sql. Schema is owned by the goose migrations in internal/database.
type SQLTodoRepository struct {
	db      *sql.DB
	dialect string
}

// NewSQLTodoRepository creates a TodoRepository for the given dialect
func NewSQLTodoRepository(db *sql.DB, dialect string) *SQLTodoRepository {
	return &SQLTodoRepository{db: db, dialect: dialect}
}

func (r *SQLTodoRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	t := prepareTodo(todo, uuid.NewString(), time.Now().UTC())

	query := database.Rebind(r.dialect, `INSERT INTO todos (`+todoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Completed, string(t.Priority), nullTime(t.DueDate), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, translateSQLError(err, "failed to create todo")
	}
	return &t, nil
}

func (r *SQLTodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	query := database.Rebind(r.dialect, `SELECT `+todoColumns+` FROM todos WHERE id = ?`)
	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateSQLError(err, "failed to get todo")
	}
	return todo, nil
}

func (r *SQLTodoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	return r.list(ctx, "")
}

func (r *SQLTodoRepository) GetActive(ctx context.Context) ([]models.Todo, error) {
	return r.list(ctx, "WHERE completed = ?", false)
}

func (r *SQLTodoRepository) GetCompleted(ctx context.Context) ([]models.Todo, error) {
	return r.list(ctx, "WHERE completed = ?", true)
}

func (r *SQLTodoRepository) Update(ctx context.Context, id string, changes TodoChanges) (*models.Todo, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if changes.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *changes.Title)
	}
	if changes.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *changes.Completed)
	}
	if changes.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*changes.Priority))
	}
	if changes.ClearDueDate {
		sets = append(sets, "due_date = NULL")
	} else if changes.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, changes.DueDate.UTC())
	}
	args = append(args, id)

	query := database.Rebind(r.dialect, `UPDATE todos SET `+strings.Join(sets, ", ")+` WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, translateSQLError(err, "failed to update todo")
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *SQLTodoRepository) Delete(ctx context.Context, id string) error {
	query := database.Rebind(r.dialect, `DELETE FROM todos WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translateSQLError(err, "failed to delete todo")
	}
	return requireAffected(result)
}

func (r *SQLTodoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

func (r *SQLTodoRepository) list(ctx context.Context, where string, args ...any) ([]models.Todo, error) {
	query := database.Rebind(r.dialect, `SELECT `+todoColumns+` FROM todos `+where+` ORDER BY created_at DESC, id DESC`)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var (
		todo     models.Todo
		priority string
		due      sql.NullTime
	)
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Completed, &priority, &due, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
		return nil, err
	}
	todo.Priority = models.Priority(priority)
	todo.CreatedAt = todo.CreatedAt.UTC()
	todo.UpdatedAt = todo.UpdatedAt.UTC()
	if due.Valid {
		d := due.Time.UTC()
		todo.DueDate = &d
	}
	return &todo, nil
}

// SQLUserRepository implements UserRepository with hand-written SQL.
type SQLUserRepository struct {
	db      *sql.DB
	dialect string
}

// NewSQLUserRepository creates a UserRepository for the given dialect
func NewSQLUserRepository(db *sql.DB, dialect string) *SQLUserRepository {
	return &SQLUserRepository{db: db, dialect: dialect}
}

func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	query := database.Rebind(r.dialect, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.Username, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return nil, translateSQLError(err, "failed to create user")
	}
	return &u, nil
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id", id)
}

func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email", email)
}

func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username", username)
}

func (r *SQLUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *SQLUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

// column is always one of the fixed names above, never user input.
func (r *SQLUserRepository) first(ctx context.Context, column, value string) (*models.User, error) {
	query := database.Rebind(r.dialect, `SELECT `+userColumns+` FROM users WHERE `+column+` = ?`)

	var u models.User
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, translateSQLError(err, "failed to get user")
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func (r *SQLUserRepository) exists(ctx context.Context, column, value string) (bool, error) {
	query := database.Rebind(r.dialect, `SELECT COUNT(*) FROM users WHERE `+column+` = ?`)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, value).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", column, err)
	}
	return count > 0, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// translateSQLError maps driver errors onto the repository sentinels.
func translateSQLError(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%s: %w", msg, errors.Join(ErrDuplicate, err))
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")) {
			return fmt.Errorf("%s: %w", msg, errors.Join(ErrDuplicate, err))
		}
	}

	return fmt.Errorf("%s: %w", msg, err)
}
