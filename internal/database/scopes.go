package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/task-manager/internal/utils"
)

// likeEscaper makes %, _ and the escape character itself literal inside LIKE.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Contains filters column by a case-insensitive substring match. An empty
// query leaves the statement untouched. On sqlite the column is folded by
// casefold(), so the connection must come from OpenSQLite.
func Contains(column, query string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if query == "" {
			return db
		}
		lower := "LOWER"
		if db.Dialector.Name() == "sqlite" {
			lower = "casefold"
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		return db.Where(lower+"("+column+") LIKE ? ESCAPE '!'", pattern)
	}
}
