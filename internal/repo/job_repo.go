package repo

import (
	"context"
	"database/sql"
	"fmt"

	"jobly/internal/apperr"
	"jobly/internal/db"
	"jobly/internal/models"
	"jobly/internal/sqlbuild"
)

// ─────────────────────────────────────────────────────────────────────────────
// JobRepository interface
// ─────────────────────────────────────────────────────────────────────────────

// JobRepository defines the contract for job persistence operations.
type JobRepository interface {
	Create(ctx context.Context, params models.JobCreate) (*models.Job, error)
	FindAll(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
	Update(ctx context.Context, id int64, params models.JobUpdate) (*models.Job, error)
	Delete(ctx context.Context, id int64) error
}

type jobRepo struct {
	q db.Querier
}

// NewJobRepo returns a JobRepository backed by q.
func NewJobRepo(q db.Querier) JobRepository {
	return &jobRepo{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	sqlInsertJob = `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, salary, equity, company_handle`

	sqlSelectJobs = `
		SELECT id, title, salary, equity, company_handle
		FROM   jobs`

	sqlGetJob = sqlSelectJobs + `
		WHERE  id = $1`

	sqlDeleteJob = `
		DELETE FROM jobs WHERE id = $1`
)

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a job. Jobs have no caller-chosen key, so there is no
// duplicate pre-check; the company foreign key does the referential work,
// and a violation surfaces as a client error naming the missing company.
func (r *jobRepo) Create(ctx context.Context, params models.JobCreate) (*models.Job, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	row := r.q.QueryRow(ctx, sqlInsertJob,
		params.Title, params.Salary, params.Equity, params.CompanyHandle)
	j, err := scanJob(row)
	if db.IsForeignKeyViolation(err) {
		return nil, apperr.InvalidInput("No company: %s", params.CompanyHandle)
	}
	return j, err
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll
// ─────────────────────────────────────────────────────────────────────────────

// FindAll returns jobs matching the filter, ordered by id. hasEquity=true
// restricts to jobs with equity strictly greater than zero; hasEquity=false
// or absent filters nothing — zero and null equity rows stay in.
func (r *jobRepo) FindAll(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var w sqlbuild.Where
	if filter.MinSalary != nil {
		w.GTE("salary", *filter.MinSalary)
	}
	if filter.HasEquity != nil && *filter.HasEquity {
		w.Positive("equity")
	}
	if filter.Title != nil {
		w.Contains("title", *filter.Title)
	}
	clause, args := w.Clause()

	rows, err := r.q.Query(ctx, sqlSelectJobs+clause+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		j, err := scanJobRows(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Get
// ─────────────────────────────────────────────────────────────────────────────

// Get returns one job by id. Returns NotFound when no job matches.
func (r *jobRepo) Get(ctx context.Context, id int64) (*models.Job, error) {
	row := r.q.QueryRow(ctx, sqlGetJob, id)
	j, err := scanJob(row)
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("No job: %d", id)
	}
	return j, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

// Update applies a partial update. The id and the owning company handle are
// immutable and never appear in the SET fragment.
func (r *jobRepo) Update(ctx context.Context, id int64, params models.JobUpdate) (*models.Job, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var fields []sqlbuild.Field
	if params.Title != nil {
		fields = append(fields, sqlbuild.Field{Name: "title", Value: *params.Title})
	}
	if params.Salary.Set {
		fields = append(fields, sqlbuild.Field{Name: "salary", Value: deref(params.Salary.Value)})
	}
	if params.Equity.Set {
		fields = append(fields, sqlbuild.Field{Name: "equity", Value: deref(params.Equity.Value)})
	}

	set, err := sqlbuild.UpdateSet(fields, nil)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE jobs
		SET    %s
		WHERE  id = $%d
		RETURNING id, title, salary, equity, company_handle`,
		set.SQL, set.Next())

	row := r.q.QueryRow(ctx, query, append(set.Args, id)...)
	j, err := scanJob(row)
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("No job: %d", id)
	}
	return j, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

// Delete removes a job by id. Returns NotFound if no row was deleted.
func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.Exec(ctx, sqlDeleteJob, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("No job: %d", id)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanJob(row *db.Row) (*models.Job, error) {
	j := &models.Job{}
	var salary sql.NullInt64
	var equity sql.NullString
	err := row.Scan(&j.ID, &j.Title, &salary, &equity, &j.CompanyHandle)
	if err != nil {
		return nil, err
	}
	j.Salary = nullableInt(salary)
	j.Equity = nullableString(equity)
	return j, nil
}

func scanJobRows(rows *sql.Rows) (*models.Job, error) {
	j := &models.Job{}
	var salary sql.NullInt64
	var equity sql.NullString
	if err := rows.Scan(&j.ID, &j.Title, &salary, &equity, &j.CompanyHandle); err != nil {
		return nil, fmt.Errorf("repo/job: scan: %w", err)
	}
	j.Salary = nullableInt(salary)
	j.Equity = nullableString(equity)
	return j, nil
}

var _ JobRepository = (*jobRepo)(nil)
