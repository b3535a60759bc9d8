package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		database string
		expected string
	}{
		{"empty database name returns base", "postgres://u:p@host:5432", "", "postgres://u:p@host:5432"},
		{"appends name and default sslmode", "postgres://u:p@host:5432", "guildbank", "postgres://u:p@host:5432/guildbank?sslmode=disable"},
		{"keeps existing query params", "postgres://u:p@host:5432?connect_timeout=5", "guildbank", "postgres://u:p@host:5432/guildbank?connect_timeout=5&sslmode=disable"},
		{"respects explicit sslmode", "postgres://u:p@host:5432?sslmode=require", "guildbank", "postgres://u:p@host:5432/guildbank?sslmode=require"},
		{"trims trailing slash", "postgres://u:p@host:5432/", "guildbank", "postgres://u:p@host:5432/guildbank?sslmode=disable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConstructDatabaseURL(tt.baseURL, tt.database))
		})
	}
}
