package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
mode: test
port: 9090
name: gst_billing
time_zone: UTC
log:
  level: info
mongodb:
  host: localhost
  port: 27017
  db: ledger
  gov_db: mirror
jwt:
  algorithm: HS256
  secret: from-file
seller:
  name: ABC Company
  gst_number: GTHUJ25632512355
  state_code: "29"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	t.Run("loads file and defaults", func(t *testing.T) {
		cfg, err := NewConfig(writeConfig(t, testConfig))
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "ledger", cfg.MongodbConfig.DB)
		assert.Equal(t, "mirror", cfg.MongodbConfig.GovDB)
		assert.Equal(t, "from-file", cfg.JwtConfig.Secret)
		assert.Equal(t, "gst-billing-qrcodes", cfg.CloudinaryConfig.Folder)
		assert.Equal(t, 300, cfg.QRCodeConfig.Size)
		assert.False(t, cfg.CloudinaryConfig.Configured())
		assert.Equal(t, "mongodb://localhost:27017", cfg.MongodbConfig.ConnectionURI())
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "from-env")
		t.Setenv("MONGODB_GOV_DB", "gov")
		t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")

		cfg, err := NewConfig(writeConfig(t, testConfig))
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.JwtConfig.Secret)
		assert.Equal(t, "gov", cfg.MongodbConfig.GovDB)
		assert.Equal(t, "mongodb://db.internal:27017", cfg.MongodbConfig.ConnectionURI())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *AppConfig {
		return &AppConfig{
			Mode:          "dev",
			JwtConfig:     &JwtConfig{Algorithm: "HS256", Secret: "dev-secret"},
			MongodbConfig: &MongodbConfig{DB: "ledger", GovDB: "mirror"},
			SellerConfig:  &SellerConfig{GSTNumber: "GTHUJ25632512355", StateCode: "29"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *AppConfig) {}},
		{name: "empty secret", mutate: func(c *AppConfig) { c.JwtConfig.Secret = "" }, wantErr: "secret must be set"},
		{name: "short secret in prod", mutate: func(c *AppConfig) { c.Mode = "prod" }, wantErr: "at least 32 bytes"},
		{name: "rsa ignores secret", mutate: func(c *AppConfig) { c.JwtConfig = &JwtConfig{Algorithm: "RS256"} }},
		{name: "missing mirror db", mutate: func(c *AppConfig) { c.MongodbConfig.GovDB = "" }, wantErr: "gov_db"},
		{name: "missing seller", mutate: func(c *AppConfig) { c.SellerConfig = nil }, wantErr: "seller"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
