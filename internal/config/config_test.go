package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withArgs hides the go test flags from conf's command line parser.
func withArgs(t *testing.T) {
	t.Helper()
	saved := os.Args
	os.Args = []string{"storefront"}
	t.Cleanup(func() { os.Args = saved })
}

func TestLoad_Defaults(t *testing.T) {
	withArgs(t)
	t.Setenv("SESSION_SECRET", "s3ss10n-value")
	t.Setenv("JWT_SECRET", "s3cr3t-value")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "Internship", cfg.MongoDatabase)
	assert.Equal(t, []string{"http://localhost:3000", "https://pizza-six-alpha.vercel.app"}, cfg.CorsOrigins)
	assert.Equal(t, 20*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Production())
	dump := cfg.String()
	assert.Contains(t, dump, "--jwt-secret=xxxxxx")
	assert.NotContains(t, dump, "s3cr3t-value")
	assert.NotContains(t, dump, "s3ss10n-value")
}

func TestLoad_Overrides(t *testing.T) {
	withArgs(t)
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("SQL_DSN", "host=localhost user=shop dbname=shop")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
}

func TestLoad_MissingSecrets(t *testing.T) {
	withArgs(t)
	// Register restores, then drop the variables entirely.
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("SESSION_SECRET"))
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{StoreDriver: DriverMemory, LoginRateLimit: 1}, false},
		{"mysql without dsn", Config{StoreDriver: DriverMySQL, LoginRateLimit: 1}, true},
		{"mysql with dsn", Config{StoreDriver: DriverMySQL, SQLDSN: "dsn", LoginRateLimit: 1}, false},
		{"unknown driver", Config{StoreDriver: "couchdb", LoginRateLimit: 1}, true},
		{"zero rate", Config{StoreDriver: DriverMongo}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
