package repository

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/forgo/ems/api/internal/database"
	"github.com/forgo/ems/api/internal/model"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already contains")
}

// storeError classifies a database failure into the remote taxonomy
func storeError(op string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return model.NewRemoteError(op, http.StatusNotFound, "", err)
	}
	return model.NewRemoteError(op, 0, "", err)
}

// recordRef builds the "table:key" form used with type::record
func recordRef(table, key string) string {
	if strings.HasPrefix(key, table+":") {
		return key
	}
	return table + ":" + key
}

// recordKey returns the key part of a SurrealDB record id, without its table
func recordKey(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		if _, key, ok := strings.Cut(v, ":"); ok {
			return strings.Trim(key, "`⟨⟩")
		}
		return v
	case models.RecordID:
		return fmt.Sprint(v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprint(v.ID)
		}
		return ""
	case map[string]interface{}:
		for _, k := range []string{"id", "ID"} {
			if inner, ok := v[k]; ok {
				if m, ok := inner.(map[string]interface{}); ok {
					if s, ok := m["String"].(string); ok {
						return s
					}
				}
				return fmt.Sprint(inner)
			}
		}
	}
	return fmt.Sprint(id)
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getStringPtr extracts an optional string value from a map
func getStringPtr(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

// getTimestamp extracts an optional time bound. Datetimes are rendered
// as seconds-precision local values.
func getTimestamp(m map[string]interface{}, key string) *model.Timestamp {
	switch v := m[key].(type) {
	case string:
		if v != "" {
			return model.TimestampPtr(v)
		}
	case time.Time:
		return model.TimestampPtr(v.Format(model.LocalLayout))
	case models.CustomDateTime:
		return model.TimestampPtr(v.Time.Format(model.LocalLayout))
	case *models.CustomDateTime:
		if v != nil {
			return model.TimestampPtr(v.Time.Format(model.LocalLayout))
		}
	}
	return nil
}

// getIntPtr extracts an optional int value from a map
func getIntPtr(m map[string]interface{}, key string) *int {
	var n int
	switch v := m[key].(type) {
	case float64:
		n = int(v)
	case float32:
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	case uint64:
		n = int(v)
	default:
		return nil
	}
	return &n
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// optional converts an absent value to nil so it is stored as NULL
func optional(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
