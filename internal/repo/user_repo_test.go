package repo_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"jobly/internal/apperr"
	"jobly/internal/db"
	"jobly/internal/models"
	"jobly/internal/repo"
)

func newUserRepo(t *testing.T) (repo.UserRepository, repo.JobRepository) {
	t.Helper()
	database := newTestDB(t)
	companies := repo.NewCompanyRepo(database)
	seedCompany(t, companies, "c1", nil)
	return repo.NewUserRepo(database, plainHasher{}), repo.NewJobRepo(database)
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestUserRepo_Create(t *testing.T) {
	r, _ := newUserRepo(t)

	u, err := r.Create(context.Background(), models.UserCreate{
		Username:  "newbie",
		Password:  "password",
		FirstName: "New",
		LastName:  "User",
		Email:     "new@jobly.test",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Username != "newbie" || u.IsAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUserRepo_Create_NeverReturnsPassword(t *testing.T) {
	r, _ := newUserRepo(t)

	u := seedUser(t, r, "u1", false)

	// The public shape has no password field at all; make sure the stored
	// value is the hash, not the plaintext.
	if _, err := r.Authenticate(context.Background(), u.Username, "password"); err != nil {
		t.Fatalf("authenticate with original password: %v", err)
	}
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	r, _ := newUserRepo(t)

	seedUser(t, r, "dup", false)

	_, err := r.Create(context.Background(), models.UserCreate{
		Username:  "dup",
		Password:  "password",
		FirstName: "D",
		LastName:  "U",
		Email:     "dup2@jobly.test",
	})
	if !apperr.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
	if err.Error() != "Duplicate username: dup" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Authenticate
// ─────────────────────────────────────────────────────────────────────────────

func TestUserRepo_Authenticate(t *testing.T) {
	r, _ := newUserRepo(t)
	ctx := context.Background()

	seedUser(t, r, "u1", true)

	u, err := r.Authenticate(ctx, "u1", "password")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !u.IsAdmin {
		t.Fatal("expected admin flag to survive authentication")
	}

	if _, err := r.Authenticate(ctx, "u1", "wrong"); !apperr.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated for bad password, got %v", err)
	}
	if _, err := r.Authenticate(ctx, "ghost", "password"); !apperr.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated for unknown user, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll / Get
// ─────────────────────────────────────────────────────────────────────────────

func TestUserRepo_FindAll_OrderedByUsername(t *testing.T) {
	r, _ := newUserRepo(t)

	seedUser(t, r, "zoe", false)
	seedUser(t, r, "abe", false)

	users, err := r.FindAll(context.Background())
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(users) != 2 || users[0].Username != "abe" || users[1].Username != "zoe" {
		t.Fatalf("not ordered by username: %+v", users)
	}
}

func TestUserRepo_Get_WithApplications(t *testing.T) {
	r, jobs := newUserRepo(t)
	ctx := context.Background()

	seedUser(t, r, "u1", false)
	j1 := seedJob(t, jobs, "c1", "Engineer", nil, nil)
	j2 := seedJob(t, jobs, "c1", "Designer", nil, nil)

	if _, err := r.ApplyToJob(ctx, "u1", j2.ID); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := r.ApplyToJob(ctx, "u1", j1.ID); err != nil {
		t.Fatalf("apply: %v", err)
	}

	detail, err := r.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Applications) != 2 || detail.Applications[0] != j1.ID || detail.Applications[1] != j2.ID {
		t.Fatalf("applications not ordered by job id: %v", detail.Applications)
	}
}

func TestUserRepo_Get_NoApplicationsIsEmptySlice(t *testing.T) {
	r, _ := newUserRepo(t)

	seedUser(t, r, "u1", false)

	detail, err := r.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Applications == nil || len(detail.Applications) != 0 {
		t.Fatalf("expected empty applications slice, got %#v", detail.Applications)
	}
}

func TestUserRepo_Get_NotFound(t *testing.T) {
	r, _ := newUserRepo(t)

	_, err := r.Get(context.Background(), "ghost")
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "No user: ghost" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestUserRepo_Update_Partial(t *testing.T) {
	r, _ := newUserRepo(t)
	ctx := context.Background()

	seedUser(t, r, "u1", false)

	updated, err := r.Update(ctx, "u1", models.UserUpdate{
		FirstName: strPtr("Renamed"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Renamed" {
		t.Fatalf("unexpected user: %+v", updated)
	}
	if updated.LastName != "Last" {
		t.Fatalf("last name should be unchanged: %q", updated.LastName)
	}
	if updated.IsAdmin {
		t.Fatal("admin flag must not change through update")
	}
}

func TestUserRepo_Update_PasswordIsRehashed(t *testing.T) {
	r, _ := newUserRepo(t)
	ctx := context.Background()

	seedUser(t, r, "u1", false)

	if _, err := r.Update(ctx, "u1", models.UserUpdate{Password: strPtr("changed")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := r.Authenticate(ctx, "u1", "changed"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
	if _, err := r.Authenticate(ctx, "u1", "password"); !apperr.IsUnauthenticated(err) {
		t.Fatalf("old password must be rejected, got %v", err)
	}
}

func TestUserRepo_Update_EmptyPayload(t *testing.T) {
	r, _ := newUserRepo(t)

	_, err := r.Update(context.Background(), "whoever", models.UserUpdate{})
	if !apperr.IsInvalidInput(err) {
		t.Fatalf("expected invalid input regardless of key existence, got %v", err)
	}
}

func TestUserRepo_Delete_CascadesApplications(t *testing.T) {
	r, jobs := newUserRepo(t)
	ctx := context.Background()

	seedUser(t, r, "u1", false)
	j := seedJob(t, jobs, "c1", "Engineer", nil, nil)
	if _, err := r.ApplyToJob(ctx, "u1", j.ID); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if err := r.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, "u1"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ApplyToJob
// ─────────────────────────────────────────────────────────────────────────────

func TestUserRepo_ApplyToJob(t *testing.T) {
	r, jobs := newUserRepo(t)
	ctx := context.Background()

	seedUser(t, r, "u1", false)
	j := seedJob(t, jobs, "c1", "Engineer", nil, nil)

	applied, err := r.ApplyToJob(ctx, "u1", j.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applied != j.ID {
		t.Fatalf("expected applied id %d, got %d", j.ID, applied)
	}
}

func TestUserRepo_ApplyToJob_Duplicate(t *testing.T) {
	r, jobs := newUserRepo(t)
	ctx := context.Background()

	seedUser(t, r, "u1", false)
	j := seedJob(t, jobs, "c1", "Engineer", nil, nil)

	if _, err := r.ApplyToJob(ctx, "u1", j.ID); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	_, err := r.ApplyToJob(ctx, "u1", j.ID)
	if !apperr.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestUserRepo_ApplyToJob_MissingSides(t *testing.T) {
	r, jobs := newUserRepo(t)
	ctx := context.Background()

	seedUser(t, r, "u1", false)
	j := seedJob(t, jobs, "c1", "Engineer", nil, nil)

	if _, err := r.ApplyToJob(ctx, "u1", 99999); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for missing job, got %v", err)
	}
	if _, err := r.ApplyToJob(ctx, "ghost", j.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for missing user, got %v", err)
	}
}

// fkRaceQuerier passes reads through but fails the write with a foreign
// key violation, standing in for a row deleted between the pre-checks and
// the insert.
type fkRaceQuerier struct {
	db.Querier
}

func (q fkRaceQuerier) Exec(context.Context, string, ...any) (sql.Result, error) {
	return nil, &db.DBError{
		Sentinel: db.ErrForeignKeyViolation,
		Cause:    errors.New("FOREIGN KEY constraint failed"),
	}
}

func TestUserRepo_ApplyToJob_RowVanishesBeforeInsert(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	companies := repo.NewCompanyRepo(database)
	seedCompany(t, companies, "c1", nil)
	jobs := repo.NewJobRepo(database)
	users := repo.NewUserRepo(database, plainHasher{})
	seedUser(t, users, "u1", false)
	j := seedJob(t, jobs, "c1", "Engineer", nil, nil)

	raced := repo.NewUserRepo(fkRaceQuerier{Querier: database}, plainHasher{})
	if _, err := raced.ApplyToJob(ctx, "u1", j.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found when the row vanishes, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Transaction: repo inside tx
// ─────────────────────────────────────────────────────────────────────────────

func TestUserRepo_InsideTransaction(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	err := database.ExecTx(ctx, func(tx *db.Tx) error {
		txRepo := repo.NewUserRepo(tx, plainHasher{})
		_, err := txRepo.Create(ctx, models.UserCreate{
			Username:  "txuser",
			Password:  "password",
			FirstName: "Tx",
			LastName:  "User",
			Email:     "tx@jobly.test",
		})
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	r := repo.NewUserRepo(database, plainHasher{})
	if _, err := r.Get(ctx, "txuser"); err != nil {
		t.Fatalf("post-tx get: %v", err)
	}
}
