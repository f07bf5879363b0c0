package repo

import (
	"context"
	"fmt"

	"jobly/internal/apperr"
	"jobly/internal/db"
	"jobly/internal/models"
	"jobly/internal/sqlbuild"
)

// ─────────────────────────────────────────────────────────────────────────────
// UserRepository interface
// ─────────────────────────────────────────────────────────────────────────────

// UserRepository defines the contract for user persistence operations.
// Plaintext passwords enter through Create/Authenticate/Update and are
// hashed or verified at this boundary; no operation ever returns a hash.
type UserRepository interface {
	Create(ctx context.Context, params models.UserCreate) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, username string) (*models.UserDetail, error)
	Update(ctx context.Context, username string, params models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, username string) error
	ApplyToJob(ctx context.Context, username string, jobID int64) (int64, error)
}

// PasswordHasher is the one-way credential collaborator. The auth package
// provides the bcrypt implementation; tests may substitute a cheap fake.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Check returns a non-nil error when password does not match hash.
	Check(hash, password string) error
}

type userRepo struct {
	q      db.Querier
	hasher PasswordHasher
}

// NewUserRepo returns a UserRepository backed by q, hashing credentials
// with hasher.
func NewUserRepo(q db.Querier, hasher PasswordHasher) UserRepository {
	return &userRepo{q: q, hasher: hasher}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	sqlUserExists = `
		SELECT username FROM users WHERE username = $1`

	sqlInsertUser = `
		INSERT INTO users (username, password, first_name, last_name, email, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING username, first_name, last_name, email, is_admin`

	sqlSelectUsers = `
		SELECT username, first_name, last_name, email, is_admin
		FROM   users`

	sqlGetUser = sqlSelectUsers + `
		WHERE  username = $1`

	sqlGetUserWithPassword = `
		SELECT username, password, first_name, last_name, email, is_admin
		FROM   users
		WHERE  username = $1`

	sqlUserApplications = `
		SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id`

	sqlDeleteUser = `
		DELETE FROM users WHERE username = $1`

	sqlJobExists = `
		SELECT id FROM jobs WHERE id = $1`

	sqlInsertApplication = `
		INSERT INTO applications (username, job_id, status)
		VALUES ($1, $2, $3)`
)

// userCols maps logical update field names to physical columns.
var userCols = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

// Create hashes the password and inserts the user. A taken username fails
// with AlreadyExists, via pre-check or via the unique constraint if a
// concurrent create slips between check and insert.
func (r *userRepo) Create(ctx context.Context, params models.UserCreate) (*models.User, error) {
	var existing string
	err := r.q.QueryRow(ctx, sqlUserExists, params.Username).Scan(&existing)
	if err == nil {
		return nil, apperr.AlreadyExists("Duplicate username: %s", params.Username)
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	hash, err := r.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("repo/user: hash password: %w", err)
	}

	row := r.q.QueryRow(ctx, sqlInsertUser,
		params.Username, hash, params.FirstName, params.LastName, params.Email, params.IsAdmin)
	u, err := scanUser(row)
	if db.IsDuplicateKey(err) {
		return nil, apperr.AlreadyExists("Duplicate username: %s", params.Username)
	}
	return u, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Authenticate
// ─────────────────────────────────────────────────────────────────────────────

// Authenticate verifies a username/password pair and returns the public
// user shape on success. An unknown username and a wrong password fail the
// same way so callers cannot probe for accounts.
func (r *userRepo) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u := &models.User{}
	var hash string
	err := r.q.QueryRow(ctx, sqlGetUserWithPassword, username).
		Scan(&u.Username, &hash, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	if db.IsNotFound(err) {
		return nil, apperr.Unauthenticated("Invalid username/password")
	}
	if err != nil {
		return nil, err
	}

	if err := r.hasher.Check(hash, password); err != nil {
		return nil, apperr.Unauthenticated("Invalid username/password")
	}
	return u, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll
// ─────────────────────────────────────────────────────────────────────────────

// FindAll returns all users ordered by username.
func (r *userRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.q.Query(ctx, sqlSelectUsers+" ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
			return nil, fmt.Errorf("repo/user: scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Get
// ─────────────────────────────────────────────────────────────────────────────

// Get returns one user by username together with the ids of the jobs they
// applied to, ordered by job id. Returns NotFound when no user matches.
func (r *userRepo) Get(ctx context.Context, username string) (*models.UserDetail, error) {
	row := r.q.QueryRow(ctx, sqlGetUser, username)
	u, err := scanUser(row)
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("No user: %s", username)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, sqlUserApplications, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &models.UserDetail{User: *u, Applications: []int64{}}
	for rows.Next() {
		var jobID int64
		if err := rows.Scan(&jobID); err != nil {
			return nil, fmt.Errorf("repo/user: scan application: %w", err)
		}
		detail.Applications = append(detail.Applications, jobID)
	}
	return detail, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

// Update applies a partial update. Username and the admin flag are
// immutable here; see models.UserUpdate. A supplied password is re-hashed
// before the SET fragment is built; the empty-payload check still precedes
// any query.
func (r *userRepo) Update(ctx context.Context, username string, params models.UserUpdate) (*models.User, error) {
	var fields []sqlbuild.Field
	if params.Password != nil {
		hash, err := r.hasher.Hash(*params.Password)
		if err != nil {
			return nil, fmt.Errorf("repo/user: hash password: %w", err)
		}
		fields = append(fields, sqlbuild.Field{Name: "password", Value: hash})
	}
	if params.FirstName != nil {
		fields = append(fields, sqlbuild.Field{Name: "firstName", Value: *params.FirstName})
	}
	if params.LastName != nil {
		fields = append(fields, sqlbuild.Field{Name: "lastName", Value: *params.LastName})
	}
	if params.Email != nil {
		fields = append(fields, sqlbuild.Field{Name: "email", Value: *params.Email})
	}

	set, err := sqlbuild.UpdateSet(fields, userCols)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET    %s
		WHERE  username = $%d
		RETURNING username, first_name, last_name, email, is_admin`,
		set.SQL, set.Next())

	row := r.q.QueryRow(ctx, query, append(set.Args, username)...)
	u, err := scanUser(row)
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("No user: %s", username)
	}
	return u, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

// Delete removes a user by username; their applications cascade away.
// Returns NotFound if no row was deleted.
func (r *userRepo) Delete(ctx context.Context, username string) error {
	res, err := r.q.Exec(ctx, sqlDeleteUser, username)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("No user: %s", username)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ApplyToJob
// ─────────────────────────────────────────────────────────────────────────────

// applicationStatus is the status recorded for every new application. The
// join row is never updated afterwards.
const applicationStatus = "applied"

// ApplyToJob records a username↔job application and reports which job id
// was recorded. Both sides must exist; applying twice to the same job fails
// with AlreadyExists rather than silently succeeding, since the composite
// primary key rejects the duplicate row anyway. The pre-checks name the
// missing side; if either row vanishes between check and insert, the
// foreign key catches it and the failure is still NotFound, not a server
// fault.
func (r *userRepo) ApplyToJob(ctx context.Context, username string, jobID int64) (int64, error) {
	var existingJob int64
	err := r.q.QueryRow(ctx, sqlJobExists, jobID).Scan(&existingJob)
	if db.IsNotFound(err) {
		return 0, apperr.NotFound("No job: %d", jobID)
	}
	if err != nil {
		return 0, err
	}

	var existingUser string
	err = r.q.QueryRow(ctx, sqlUserExists, username).Scan(&existingUser)
	if db.IsNotFound(err) {
		return 0, apperr.NotFound("No user: %s", username)
	}
	if err != nil {
		return 0, err
	}

	_, err = r.q.Exec(ctx, sqlInsertApplication, username, jobID, applicationStatus)
	switch {
	case db.IsDuplicateKey(err):
		return 0, apperr.AlreadyExists("Duplicate application: job %d", jobID)
	case db.IsForeignKeyViolation(err):
		return 0, apperr.NotFound("No job: %d", jobID)
	case err != nil:
		return 0, err
	}
	return jobID, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// scanUser — centralised column mapping
// ─────────────────────────────────────────────────────────────────────────────

func scanUser(row *db.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	if err != nil {
		return nil, err
	}
	return u, nil
}

var _ UserRepository = (*userRepo)(nil)
