// Package models defines the API's entity shapes, the params accepted by
// create/update operations, and the optional list filters. Input types are
// kept separate from the domain models so API contracts stay explicit and
// nothing can be mass-assigned.
package models

import (
	"encoding/json"
	"strconv"

	"jobly/internal/apperr"
)

// ─────────────────────────────────────────────────────────────────────────────
// Nullable — three-state optional field for partial updates
// ─────────────────────────────────────────────────────────────────────────────

// Nullable distinguishes "field absent" (Set false) from "set to null"
// (Set true, Value nil) from "set to a value". Plain pointers cannot
// express the middle state, and partial updates need it for nullable
// columns like num_employees and logo_url.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only invoked for keys present in the payload, which is
// what flips Set.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

// ─────────────────────────────────────────────────────────────────────────────
// Company
// ─────────────────────────────────────────────────────────────────────────────

// Company is a row in the companies table. Handle is the caller-chosen
// primary key and is immutable after creation.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// CompanyDetail is a company with its jobs aggregated, as returned by
// single-company fetches. Jobs is always present in the JSON shape — an
// empty array when the company has none — which is why it is a distinct
// type rather than an omitempty field on Company.
type CompanyDetail struct {
	Company
	Jobs []JobSummary `json:"jobs"`
}

// JobSummary is a job as nested under its company: the owning handle is
// implied and omitted.
type JobSummary struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Salary *int    `json:"salary"`
	Equity *string `json:"equity"`
}

// CompanyCreate holds the fields required to create a company.
type CompanyCreate struct {
	Handle       string  `json:"handle" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,gte=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

// CompanyUpdate holds the updatable fields. The handle itself can never
// change. Field order here fixes placeholder order in the generated SET
// fragment.
type CompanyUpdate struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	NumEmployees Nullable[int]    `json:"numEmployees"`
	LogoURL      Nullable[string] `json:"logoUrl"`
}

// CompanyFilter narrows a company list query. Every field is independently
// optional.
type CompanyFilter struct {
	Name         *string `form:"name"`
	MinEmployees *int    `form:"minEmployees"`
	MaxEmployees *int    `form:"maxEmployees"`
}

// Validate rejects inconsistent bounds before any SQL is built.
func (f CompanyFilter) Validate() error {
	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return apperr.InvalidInput("minEmployees cannot be greater than maxEmployees")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Job
// ─────────────────────────────────────────────────────────────────────────────

// Job is a row in the jobs table. ID is a server-generated surrogate key.
// Equity travels as an exact-precision decimal string to avoid binary
// floating rounding; nil means no equity recorded.
type Job struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
}

// JobCreate holds the fields required to create a job. CompanyHandle must
// reference an existing company; the storage layer's foreign key reports a
// violation as a client error.
type JobCreate struct {
	Title         string  `json:"title" binding:"required"`
	Salary        *int    `json:"salary" binding:"omitempty,gte=0"`
	Equity        *string `json:"equity" binding:"omitempty,equity"`
	CompanyHandle string  `json:"companyHandle" binding:"required"`
}

// Validate checks the equity range; the value stays a string end to end.
func (c JobCreate) Validate() error {
	return validateEquity(c.Equity)
}

// JobUpdate holds the updatable fields. ID and company handle are immutable.
type JobUpdate struct {
	Title  *string          `json:"title"`
	Salary Nullable[int]    `json:"salary"`
	Equity Nullable[string] `json:"equity"`
}

// Validate checks the equity range when equity is being set.
func (u JobUpdate) Validate() error {
	if !u.Equity.Set {
		return nil
	}
	return validateEquity(u.Equity.Value)
}

// JobFilter narrows a job list query.
type JobFilter struct {
	Title     *string `form:"title"`
	MinSalary *int    `form:"minSalary"`
	// HasEquity is asymmetric: true restricts to jobs with equity strictly
	// greater than zero; false or absent imposes no restriction at all.
	HasEquity *bool `form:"hasEquity"`
}

// Validate exists for contract symmetry with CompanyFilter; the job filter
// carries no bound pair today.
func (f JobFilter) Validate() error { return nil }

func validateEquity(equity *string) error {
	if equity == nil {
		return nil
	}
	v, err := strconv.ParseFloat(*equity, 64)
	if err != nil {
		return apperr.InvalidInput("equity is not a valid decimal: %s", *equity)
	}
	if v < 0 || v > 1 {
		return apperr.InvalidInput("equity must be between 0 and 1: %s", *equity)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// User
// ─────────────────────────────────────────────────────────────────────────────

// User is the public shape of a row in the users table. The password hash
// never leaves the repo layer.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserDetail is a user with the ids of the jobs they applied to, as
// returned by single-user fetches. Applications is always present, empty
// array when none.
type UserDetail struct {
	User
	Applications []int64 `json:"applications"`
}

// UserCreate holds the fields required to create a user. Password arrives
// in the clear and is hashed before it touches the database.
type UserCreate struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=5"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserUpdate holds the updatable fields. Username is immutable, and so is
// the admin flag: updates reach users through the self-or-admin gate, so a
// writable isAdmin would let any user promote themselves. Admins are made
// only through the admin-gated create. A supplied password is re-hashed by
// the repo before the update statement is built.
type UserUpdate struct {
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}
