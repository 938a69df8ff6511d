package config_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hariomtransport/books/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"DB_TYPE", "PORT", "MONGO_DATABASE", "COMMISSION_RATE", "ALLOWED_ORIGINS", "R2_BUCKET"} {
		t.Setenv(k, "")
	}

	cfg := config.FromEnv()

	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "hariomtransport", cfg.MongoDatabase)
	assert.Equal(t, "6", cfg.CommissionRate.String())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.R2.Enabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_TYPE", "memory")
	t.Setenv("COMMISSION_RATE", "5.5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := config.FromEnv()

	assert.Equal(t, "memory", cfg.DBType)
	assert.Equal(t, "5.5", cfg.CommissionRate.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestFromEnv_InvalidCommissionRateKeepsDefault(t *testing.T) {
	t.Setenv("COMMISSION_RATE", "six")

	assert.Equal(t, "6", config.FromEnv().CommissionRate.String())
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := config.NewLogger("debug")
	logger.SetOutput(&buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	config.LogError(logger, "service", "ApplyPayment", "bill-1", map[string]string{"bill_no": "101"}, errors.New("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["msg"])
	assert.Equal(t, "service", line["module"])
	assert.Equal(t, "ApplyPayment", line["funcName"])
	assert.NotNil(t, line["data"])
}

func TestNewLogger_UnknownLevel(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, config.NewLogger("loud").GetLevel())
}
