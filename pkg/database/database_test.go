package database

import (
	"termophysics_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	cases := []struct {
		mode  string
		force bool
		want  bool
	}{
		{"debug", false, true},
		{"debug", true, true},
		{"release", false, false},
		{"release", true, true},
	}

	for _, c := range cases {
		cfg := &config.Config{ForceMigrate: c.force}
		cfg.Server.Mode = c.mode
		assert.Equal(t, c.want, ShouldMigrate(cfg), "mode=%s force=%v", c.mode, c.force)
	}
}
