// Package repo implements the entity repositories over the db wrapper.
// All SQL is explicit, version-controlled, and reviewable; dynamic
// fragments (partial updates, optional filters) come from sqlbuild and
// never interpolate caller values into statement text.
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
// CompanyRepository interface
// ─────────────────────────────────────────────────────────────────────────────

// CompanyRepository defines the contract for company persistence operations.
type CompanyRepository interface {
	Create(ctx context.Context, params models.CompanyCreate) (*models.Company, error)
	FindAll(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, error)
	Get(ctx context.Context, handle string) (*models.CompanyDetail, error)
	Update(ctx context.Context, handle string, params models.CompanyUpdate) (*models.Company, error)
	Delete(ctx context.Context, handle string) error
}

// companyRepo is the production implementation backed by a db.Querier.
type companyRepo struct {
	q db.Querier
}

// NewCompanyRepo returns a CompanyRepository backed by q.
// q can be a *db.DB or *db.Tx — both satisfy db.Querier.
func NewCompanyRepo(q db.Querier) CompanyRepository {
	return &companyRepo{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	sqlCompanyExists = `
		SELECT handle FROM companies WHERE handle = $1`

	sqlInsertCompany = `
		INSERT INTO companies (handle, name, description, num_employees, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING handle, name, description, num_employees, logo_url`

	sqlSelectCompanies = `
		SELECT handle, name, description, num_employees, logo_url
		FROM   companies`

	sqlGetCompany = sqlSelectCompanies + `
		WHERE  handle = $1`

	sqlCompanyJobs = `
		SELECT id, title, salary, equity
		FROM   jobs
		WHERE  company_handle = $1
		ORDER  BY id`

	sqlDeleteCompany = `
		DELETE FROM companies WHERE handle = $1`
)

// companyCols maps the logical update field names to physical columns.
// Fields absent here use their logical name verbatim.
var companyCols = map[string]string{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a company and returns the persisted record. A taken handle
// fails with AlreadyExists — detected by an explicit pre-check, and again
// via the unique constraint if a concurrent create wins the race between
// the check and the insert.
func (r *companyRepo) Create(ctx context.Context, params models.CompanyCreate) (*models.Company, error) {
	var existing string
	err := r.q.QueryRow(ctx, sqlCompanyExists, params.Handle).Scan(&existing)
	if err == nil {
		return nil, apperr.AlreadyExists("Duplicate company: %s", params.Handle)
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	row := r.q.QueryRow(ctx, sqlInsertCompany,
		params.Handle, params.Name, params.Description, params.NumEmployees, params.LogoURL)
	c, err := scanCompany(row)
	if db.IsDuplicateKey(err) {
		return nil, apperr.AlreadyExists("Duplicate company: %s", params.Handle)
	}
	return c, err
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll
// ─────────────────────────────────────────────────────────────────────────────

// FindAll returns companies matching the filter, ordered by name. Zero
// matches is an empty slice, never an error. Inverted employee bounds are
// rejected before any SQL is built.
func (r *companyRepo) FindAll(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var w sqlbuild.Where
	if filter.MinEmployees != nil {
		w.GTE("num_employees", *filter.MinEmployees)
	}
	if filter.MaxEmployees != nil {
		w.LTE("num_employees", *filter.MaxEmployees)
	}
	if filter.Name != nil {
		w.Contains("name", *filter.Name)
	}
	clause, args := w.Clause()

	rows, err := r.q.Query(ctx, sqlSelectCompanies+clause+" ORDER BY name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []*models.Company{}
	for rows.Next() {
		c := &models.Company{}
		var numEmployees sql.NullInt64
		var logoURL sql.NullString
		if err := rows.Scan(&c.Handle, &c.Name, &c.Description, &numEmployees, &logoURL); err != nil {
			return nil, fmt.Errorf("repo/company: scan: %w", err)
		}
		c.NumEmployees = nullableInt(numEmployees)
		c.LogoURL = nullableString(logoURL)
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Get
// ─────────────────────────────────────────────────────────────────────────────

// Get returns one company by handle together with its jobs, ordered by job
// id. Returns NotFound when no company matches.
func (r *companyRepo) Get(ctx context.Context, handle string) (*models.CompanyDetail, error) {
	row := r.q.QueryRow(ctx, sqlGetCompany, handle)
	c, err := scanCompany(row)
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("No company: %s", handle)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, sqlCompanyJobs, handle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &models.CompanyDetail{Company: *c, Jobs: []models.JobSummary{}}
	for rows.Next() {
		var j models.JobSummary
		var salary sql.NullInt64
		var equity sql.NullString
		if err := rows.Scan(&j.ID, &j.Title, &salary, &equity); err != nil {
			return nil, fmt.Errorf("repo/company: scan job: %w", err)
		}
		j.Salary = nullableInt(salary)
		j.Equity = nullableString(equity)
		detail.Jobs = append(detail.Jobs, j)
	}
	return detail, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Update — partial update via the SET compiler
// ─────────────────────────────────────────────────────────────────────────────

// Update applies a partial update. Only fields present in params change;
// Nullable fields may be set to NULL explicitly. An empty params set fails
// with InvalidInput before any query; a missing handle fails with NotFound.
func (r *companyRepo) Update(ctx context.Context, handle string, params models.CompanyUpdate) (*models.Company, error) {
	var fields []sqlbuild.Field
	if params.Name != nil {
		fields = append(fields, sqlbuild.Field{Name: "name", Value: *params.Name})
	}
	if params.Description != nil {
		fields = append(fields, sqlbuild.Field{Name: "description", Value: *params.Description})
	}
	if params.NumEmployees.Set {
		fields = append(fields, sqlbuild.Field{Name: "numEmployees", Value: deref(params.NumEmployees.Value)})
	}
	if params.LogoURL.Set {
		fields = append(fields, sqlbuild.Field{Name: "logoUrl", Value: deref(params.LogoURL.Value)})
	}

	set, err := sqlbuild.UpdateSet(fields, companyCols)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE companies
		SET    %s
		WHERE  handle = $%d
		RETURNING handle, name, description, num_employees, logo_url`,
		set.SQL, set.Next())

	row := r.q.QueryRow(ctx, query, append(set.Args, handle)...)
	c, err := scanCompany(row)
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("No company: %s", handle)
	}
	return c, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

// Delete removes a company by handle; its jobs go with it via the cascade.
// Returns NotFound if no row was deleted.
func (r *companyRepo) Delete(ctx context.Context, handle string) error {
	res, err := r.q.Exec(ctx, sqlDeleteCompany, handle)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("No company: %s", handle)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// scanCompany — centralised column mapping
// ─────────────────────────────────────────────────────────────────────────────

func scanCompany(row *db.Row) (*models.Company, error) {
	c := &models.Company{}
	var numEmployees sql.NullInt64
	var logoURL sql.NullString
	err := row.Scan(&c.Handle, &c.Name, &c.Description, &numEmployees, &logoURL)
	if err != nil {
		return nil, err
	}
	c.NumEmployees = nullableInt(numEmployees)
	c.LogoURL = nullableString(logoURL)
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Compile-time interface assertion
// ─────────────────────────────────────────────────────────────────────────────

var _ CompanyRepository = (*companyRepo)(nil)
