package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_NivelConfigurado(t *testing.T) {
	log := New(Config{Env: "production", Level: "error"})
	assert.Equal(t, zerolog.ErrorLevel, log.zl.GetLevel())

	log = New(Config{Env: "production", Level: "WARN"})
	assert.Equal(t, zerolog.WarnLevel, log.zl.GetLevel(), "el nivel no distingue mayúsculas")
}

func TestNew_NivelInvalidoCaeEnInfo(t *testing.T) {
	for _, level := range []string{"", "verbose", "no-existe"} {
		log := New(Config{Env: "production", Level: level})
		assert.Equal(t, zerolog.InfoLevel, log.zl.GetLevel(), "nivel %q", level)
	}
}
