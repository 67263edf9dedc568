package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Service: "shop-api", Out: &buf})

	l.Info().Msg("filtrado por nivel")
	l.Named("cart").Warn().Str("customer_id", "c1").Msg("conflicto")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), "una sola línea JSON")
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "shop-api", line["service"])
	assert.Equal(t, "cart", line["component"])
	assert.Equal(t, "c1", line["customer_id"])
	assert.Equal(t, "conflicto", line["message"])
}

func TestNop_NoEscribe(t *testing.T) {
	l := Nop().Named("test")
	assert.Equal(t, zerolog.Disabled, l.Zerolog().GetLevel())
	l.Info().Msg("no debe fallar")
}
