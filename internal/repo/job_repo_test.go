package repo_test

import (
	"context"
	"testing"

	"jobly/internal/apperr"
	"jobly/internal/models"
	"jobly/internal/repo"
)

func newJobRepo(t *testing.T) (repo.JobRepository, repo.CompanyRepository) {
	t.Helper()
	database := newTestDB(t)
	companies := repo.NewCompanyRepo(database)
	seedCompany(t, companies, "c1", intPtr(10))
	return repo.NewJobRepo(database), companies
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestJobRepo_Create(t *testing.T) {
	r, _ := newJobRepo(t)

	j, err := r.Create(context.Background(), models.JobCreate{
		Title:         "Engineer",
		Salary:        intPtr(120000),
		Equity:        strPtr("0.1"),
		CompanyHandle: "c1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if j.ID == 0 {
		t.Fatal("expected server-generated id")
	}
	if j.Equity == nil || *j.Equity != "0.1" {
		t.Fatalf("unexpected equity: %v", j.Equity)
	}
	if j.CompanyHandle != "c1" {
		t.Fatalf("unexpected company handle: %q", j.CompanyHandle)
	}
}

func TestJobRepo_Create_UnknownCompany(t *testing.T) {
	r, _ := newJobRepo(t)

	_, err := r.Create(context.Background(), models.JobCreate{
		Title:         "Engineer",
		CompanyHandle: "nope",
	})
	if !apperr.IsInvalidInput(err) {
		t.Fatalf("expected invalid input for missing company, got %v", err)
	}
}

func TestJobRepo_Create_EquityOutOfRange(t *testing.T) {
	r, _ := newJobRepo(t)

	for _, equity := range []string{"1.1", "-0.1", "abc"} {
		_, err := r.Create(context.Background(), models.JobCreate{
			Title:         "Engineer",
			Equity:        strPtr(equity),
			CompanyHandle: "c1",
		})
		if !apperr.IsInvalidInput(err) {
			t.Fatalf("equity %q: expected invalid input, got %v", equity, err)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll
// ─────────────────────────────────────────────────────────────────────────────

func TestJobRepo_FindAll_OrderedByID(t *testing.T) {
	r, _ := newJobRepo(t)

	j1 := seedJob(t, r, "c1", "B Job", nil, nil)
	j2 := seedJob(t, r, "c1", "A Job", nil, nil)

	jobs, err := r.FindAll(context.Background(), models.JobFilter{})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(jobs) != 2 || jobs[0].ID != j1.ID || jobs[1].ID != j2.ID {
		t.Fatalf("not ordered by id: %+v", jobs)
	}
}

func TestJobRepo_FindAll_HasEquityTrue(t *testing.T) {
	r, _ := newJobRepo(t)

	withEquity := seedJob(t, r, "c1", "Equity Job", nil, strPtr("0.01"))
	seedJob(t, r, "c1", "Zero Equity Job", nil, strPtr("0"))
	seedJob(t, r, "c1", "No Equity Job", nil, nil)

	jobs, err := r.FindAll(context.Background(), models.JobFilter{HasEquity: boolPtr(true)})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != withEquity.ID {
		t.Fatalf("expected only the 0.01 row, got %+v", jobs)
	}
}

func TestJobRepo_FindAll_HasEquityFalseFiltersNothing(t *testing.T) {
	r, _ := newJobRepo(t)

	seedJob(t, r, "c1", "Equity Job", nil, strPtr("0.01"))
	seedJob(t, r, "c1", "Zero Equity Job", nil, strPtr("0"))
	seedJob(t, r, "c1", "No Equity Job", nil, nil)

	jobs, err := r.FindAll(context.Background(), models.JobFilter{HasEquity: boolPtr(false)})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("hasEquity=false must not filter, got %d rows", len(jobs))
	}
}

func TestJobRepo_FindAll_MinSalaryAndTitle(t *testing.T) {
	r, _ := newJobRepo(t)

	seedJob(t, r, "c1", "Junior Engineer", intPtr(50000), nil)
	senior := seedJob(t, r, "c1", "Senior Engineer", intPtr(150000), nil)
	seedJob(t, r, "c1", "Senior Chef", intPtr(150000), nil)

	jobs, err := r.FindAll(context.Background(), models.JobFilter{
		Title:     strPtr("engineer"),
		MinSalary: intPtr(100000),
	})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != senior.ID {
		t.Fatalf("expected only senior engineer, got %+v", jobs)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Get / Update / Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestJobRepo_Get_NotFound(t *testing.T) {
	r, _ := newJobRepo(t)

	_, err := r.Get(context.Background(), 99999)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "No job: 99999" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestJobRepo_Update_Partial(t *testing.T) {
	r, _ := newJobRepo(t)
	ctx := context.Background()

	j := seedJob(t, r, "c1", "Engineer", intPtr(100000), strPtr("0.05"))

	updated, err := r.Update(ctx, j.ID, models.JobUpdate{
		Title:  strPtr("Staff Engineer"),
		Salary: nullInt(140000),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Staff Engineer" || *updated.Salary != 140000 {
		t.Fatalf("unexpected job: %+v", updated)
	}
	if updated.Equity == nil || *updated.Equity != "0.05" {
		t.Fatalf("equity should be unchanged: %v", updated.Equity)
	}
	if updated.CompanyHandle != "c1" {
		t.Fatalf("company handle must be immutable: %q", updated.CompanyHandle)
	}
}

func TestJobRepo_Update_SetEquityNull(t *testing.T) {
	r, _ := newJobRepo(t)
	ctx := context.Background()

	j := seedJob(t, r, "c1", "Engineer", nil, strPtr("0.05"))

	updated, err := r.Update(ctx, j.ID, models.JobUpdate{
		Equity: models.Nullable[string]{Set: true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Equity != nil {
		t.Fatalf("expected null equity, got %v", updated.Equity)
	}
}

func TestJobRepo_Update_EmptyPayload(t *testing.T) {
	r, _ := newJobRepo(t)

	j := seedJob(t, r, "c1", "Engineer", nil, nil)

	_, err := r.Update(context.Background(), j.ID, models.JobUpdate{})
	if !apperr.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestJobRepo_Update_NotFound(t *testing.T) {
	r, _ := newJobRepo(t)

	_, err := r.Update(context.Background(), 99999, models.JobUpdate{Title: strPtr("X")})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestJobRepo_Delete(t *testing.T) {
	r, _ := newJobRepo(t)
	ctx := context.Background()

	j := seedJob(t, r, "c1", "Engineer", nil, nil)

	if err := r.Delete(ctx, j.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, j.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
