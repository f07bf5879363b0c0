package repo

import "database/sql"

// Null helpers shared by the repositories.

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// deref unwraps a possibly-nil pointer into a bind argument. A nil pointer
// binds SQL NULL; passing the typed nil pointer itself would too, but only
// for drivers that special-case it.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
