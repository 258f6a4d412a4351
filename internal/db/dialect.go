package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Supported gorm dialector names.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
)

// Dialect returns the connection's dialector name, or "" for a nil connection.
func Dialect(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// MatchAny builds a grouped condition matching rows where any column contains term, ignoring case.
// Postgres uses ILIKE; the other dialects compare lowercased values.
func MatchAny(conn *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	expr, pattern := "LOWER(%s) LIKE ?", "%"+strings.ToLower(term)+"%"
	if Dialect(conn) == DialectPostgres {
		expr, pattern = "%s ILIKE ?", "%"+term+"%"
	}
	cond := conn
	for i, column := range columns {
		clause := fmt.Sprintf(expr, column)
		if i == 0 {
			cond = cond.Where(clause, pattern)
			continue
		}
		cond = cond.Or(clause, pattern)
	}
	return cond
}
