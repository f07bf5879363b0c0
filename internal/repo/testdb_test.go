package repo_test

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"jobly/internal/db"
	"jobly/internal/models"
	"jobly/internal/repo"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixture
// ─────────────────────────────────────────────────────────────────────────────

// testSchema mirrors migrations/0001_init.up.sql in sqlite dialect. The
// repositories emit portable SQL ($n placeholders, LOWER(...) LIKE) so the
// same statements run against both engines.
const testSchema = `
	CREATE TABLE companies (
		handle        TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		num_employees INTEGER CHECK (num_employees >= 0),
		logo_url      TEXT
	);
	CREATE TABLE jobs (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		title          TEXT NOT NULL,
		salary         INTEGER CHECK (salary >= 0),
		equity         NUMERIC CHECK (equity <= 1.0),
		company_handle TEXT NOT NULL REFERENCES companies (handle) ON DELETE CASCADE
	);
	CREATE TABLE users (
		username   TEXT PRIMARY KEY,
		password   TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		email      TEXT NOT NULL,
		is_admin   BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE TABLE applications (
		username TEXT NOT NULL REFERENCES users (username) ON DELETE CASCADE,
		job_id   INTEGER NOT NULL REFERENCES jobs (id) ON DELETE CASCADE,
		status   TEXT NOT NULL,
		PRIMARY KEY (username, job_id)
	);`

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	// One connection: every pooled connection to :memory: would otherwise
	// get its own empty database.
	database, err := db.Open(db.Config{
		DSN:          ":memory:?_foreign_keys=on",
		DriverName:   "sqlite3",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if _, err := database.Exec(context.Background(), testSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return database
}

// ─────────────────────────────────────────────────────────────────────────────
// Seed helpers
// ─────────────────────────────────────────────────────────────────────────────

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
func boolPtr(v bool) *bool       { return &v }
func nullInt(v int) models.Nullable[int] {
	return models.Nullable[int]{Set: true, Value: &v}
}
func nullStr(v string) models.Nullable[string] {
	return models.Nullable[string]{Set: true, Value: &v}
}

func seedCompany(t *testing.T, r repo.CompanyRepository, handle string, numEmployees *int) *models.Company {
	t.Helper()
	c, err := r.Create(context.Background(), models.CompanyCreate{
		Handle:       handle,
		Name:         "Company " + handle,
		Description:  "about " + handle,
		NumEmployees: numEmployees,
	})
	if err != nil {
		t.Fatalf("seed company %s: %v", handle, err)
	}
	return c
}

func seedJob(t *testing.T, r repo.JobRepository, handle, title string, salary *int, equity *string) *models.Job {
	t.Helper()
	j, err := r.Create(context.Background(), models.JobCreate{
		Title:         title,
		Salary:        salary,
		Equity:        equity,
		CompanyHandle: handle,
	})
	if err != nil {
		t.Fatalf("seed job %s: %v", title, err)
	}
	return j
}

func seedUser(t *testing.T, r repo.UserRepository, username string, isAdmin bool) *models.User {
	t.Helper()
	u, err := r.Create(context.Background(), models.UserCreate{
		Username:  username,
		Password:  "password",
		FirstName: "First",
		LastName:  "Last",
		Email:     username + "@jobly.test",
		IsAdmin:   isAdmin,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// plainHasher is a PasswordHasher without the bcrypt cost, so user fixtures
// stay fast. The real implementation is covered in the auth package tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Check(hash, password string) error {
	if hash != "hashed:"+password {
		return errWrongPassword
	}
	return nil
}

var errWrongPassword = errFake("wrong password")

type errFake string

func (e errFake) Error() string { return string(e) }
