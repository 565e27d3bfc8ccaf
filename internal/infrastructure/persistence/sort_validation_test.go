package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	cases := []struct{ input, want string }{
		{"", "DESC"},
		{"   ", "DESC"},
		{"ASC", "ASC"},
		{"asc", "ASC"},
		{"  asc  ", "ASC"},
		{"DESC", "DESC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE users;--", "DESC"},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.want, ValidateSortOrder(tt.input), "input %q", tt.input)
	}
}

func TestValidateSortField(t *testing.T) {
	allowed := map[string]bool{
		"id":         true,
		"created_at": true,
		"name":       true,
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty falls back to default", "", "created_at"},
		{"allowed field passes", "name", "name"},
		{"trailing whitespace trimmed", "  name  ", "name"},
		{"unknown field falls back", "warehouse", "created_at"},
		{"case sensitive", "NAME", "created_at"},
		{"embedded space rejected", "name users", "created_at"},
		{"quote rejected", "name'--", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.input, allowed, "created_at"))
		})
	}

	t.Run("empty default passes through", func(t *testing.T) {
		assert.Equal(t, "name", ValidateSortField("name", allowed, ""))
		assert.Equal(t, "", ValidateSortField("bogus", allowed, ""))
	})
}

func TestSortWhitelists(t *testing.T) {
	for name, whitelist := range map[string]map[string]bool{
		"location":    LocationSortFields,
		"stock entry": StockEntrySortFields,
		"movement":    MovementSortFields,
	} {
		assert.True(t, whitelist["id"], "%s whitelist misses id", name)
		assert.True(t, whitelist["created_at"], "%s whitelist misses created_at", name)
		assert.Greater(t, len(whitelist), 3, "%s whitelist suspiciously small", name)
	}
}

func TestSortValidationRejectsInjection(t *testing.T) {
	payloads := []string{
		"id; DROP TABLE stock_entries;--",
		"id' OR '1'='1",
		"id UNION SELECT * FROM locations",
		"id, (SELECT password FROM users)",
		"id/**/;DROP TABLE movements",
		"id\n; DROP TABLE locations",
		"' OR ''='",
	}

	for _, payload := range payloads {
		assert.Equal(t, "created_at", ValidateSortField(payload, StockEntrySortFields, "created_at"),
			"field payload got through: %s", payload)
		assert.Equal(t, "DESC", ValidateSortOrder(payload),
			"order payload got through: %s", payload)
	}
}
