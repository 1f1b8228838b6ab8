package store

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscape is the escape character used in every LIKE pattern built here.
const likeEscape = "!"

// Contains builds a predicate matching records where any of cols contains
// term, ignoring case. NULL columns never match. With no columns it matches
// nothing.
func Contains(term string, cols ...clause.Column) clause.Expression {
	if len(cols) == 0 {
		return clause.Expr{SQL: "1 = 0"}
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	var sb strings.Builder
	vars := make([]any, 0, len(cols)*2)
	sb.WriteByte('(')
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		sb.WriteString("LOWER(?) LIKE ? ESCAPE '" + likeEscape + "'")
		vars = append(vars, col, pattern)
	}
	sb.WriteByte(')')

	return clause.Expr{SQL: sb.String(), Vars: vars}
}

// Matching narrows to records where any of cols contains term.
func Matching(term string, cols ...clause.Column) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(Contains(term, cols...))
	}
}

// Equal narrows to records where col equals value.
func Equal(col clause.Column, value any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: col, Value: value})
	}
}

// EqualFold narrows to records where col equals value, ignoring case.
func EqualFold(col clause.Column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Expr{SQL: "LOWER(?) = ?", Vars: []any{col, strings.ToLower(value)}})
	}
}

// Excluding drops the record with id. A nil id leaves the query unchanged.
func Excluding(col clause.Column, id *uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if id == nil {
			return db
		}
		return db.Where(clause.Neq{Column: col, Value: *id})
	}
}

// Between narrows to records where col lies within [lo, hi]. Nil bounds
// are open.
func Between(col clause.Column, lo, hi *int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if lo != nil {
			db = db.Where(clause.Gte{Column: col, Value: *lo})
		}
		if hi != nil {
			db = db.Where(clause.Lte{Column: col, Value: *hi})
		}
		return db
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return r.Replace(s)
}
