package database

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/academic-calendar-api/pkg/config"
)

func TestURL(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "cal", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/cal?sslmode=disable", URL(cfg))
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cal sslmode=disable", DSN(cfg))
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("create term: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(fmt.Errorf("boom")))
}
