package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipients_SplitsAndTrims(t *testing.T) {
	cfg := &Config{RecipientEmail: "ops@example.com, manager@example.com ,, qa@example.com"}

	assert.Equal(t,
		[]string{"ops@example.com", "manager@example.com", "qa@example.com"},
		cfg.Recipients())
}

func TestRecipients_Empty(t *testing.T) {
	cfg := &Config{RecipientEmail: ""}

	assert.Empty(t, cfg.Recipients())
}
