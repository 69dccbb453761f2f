package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-board-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "board", Password: "pw", Name: "sma_board", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=board password=pw dbname=sma_board sslmode=disable", dsn)
}
