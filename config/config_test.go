package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	assert.Equal(t, 10, cfg.MaxConnectionPoolSize)
	assert.Equal(t, "main", cfg.DefaultSpace)
	assert.Equal(t, "UTC", cfg.TimezoneName)
	assert.Equal(t, "root", cfg.UserName)
	assert.Empty(t, cfg.AutoCreateDefaultSpaceWithVIDDesc)
	require.NoError(t, cfg.Validate())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestFromEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		environ []string
		check   func(*testing.T, config.ConnectionConfig)
		wantErr string
	}{
		{
			name:    "defaults",
			environ: []string{"HOME=/root", "PATH=/bin"},
			check: func(t *testing.T, cfg config.ConnectionConfig) {
				assert.Equal(t, config.Default(), cfg)
			},
		},
		{
			name: "overrides",
			environ: []string{
				"NEBULA_MAX_CONNECTION_POOL_SIZE=4",
				"NEBULA_SERVERS=graphd1:9669, graphd2:9669",
				"NEBULA_USER_NAME=admin",
				"NEBULA_PASSWORD=secret=1",
				"nebula_default_space=social",
				"NEBULA_AUTO_CREATE_DEFAULT_SPACE_WITH_VID_DESC=FIXED_STRING(32)",
				"NEBULA_TIMEZONE_NAME=Asia/Shanghai",
			},
			check: func(t *testing.T, cfg config.ConnectionConfig) {
				assert.Equal(t, 4, cfg.MaxConnectionPoolSize)
				assert.Equal(t, []string{"graphd1:9669", "graphd2:9669"}, cfg.Servers)
				assert.Equal(t, "admin", cfg.UserName)
				assert.Equal(t, "secret=1", cfg.Password)
				assert.Equal(t, "social", cfg.DefaultSpace)
				assert.Equal(t, "FIXED_STRING(32)", cfg.AutoCreateDefaultSpaceWithVIDDesc)
				assert.Equal(t, "Asia/Shanghai", cfg.TimezoneName)
			},
		},
		{
			name:    "bad pool size",
			environ: []string{"NEBULA_MAX_CONNECTION_POOL_SIZE=ten"},
			wantErr: "NEBULA_MAX_CONNECTION_POOL_SIZE",
		},
		{
			name:    "zero pool size",
			environ: []string{"NEBULA_MAX_CONNECTION_POOL_SIZE=0"},
			wantErr: "MaxConnectionPoolSize",
		},
		{
			name:    "bad server",
			environ: []string{"NEBULA_SERVERS=graphd"},
			wantErr: "Servers[0]",
		},
		{
			name:    "bad space",
			environ: []string{"NEBULA_DEFAULT_SPACE=1st space"},
			wantErr: "DefaultSpace",
		},
		{
			name:    "bad timezone",
			environ: []string{"NEBULA_TIMEZONE_NAME=Mars/Olympus"},
			wantErr: "TimezoneName",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := config.FromEnv(tt.environ)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, carina.IsConfigError(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestValidateAggregates(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.UserName = ""
	cfg.DefaultSpace = ""
	err := cfg.Validate()
	require.Error(t, err)
	var agg *carina.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 2)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "carina.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
servers:
  - 127.0.0.1:9669
user_name: root
password: nebula
default_space: test
timezone_name: Europe/Berlin
`), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1:9669"}, cfg.Servers)
	assert.Equal(t, "test", cfg.DefaultSpace)
	assert.Equal(t, 10, cfg.MaxConnectionPoolSize, "unset keys keep their defaults")
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, carina.IsConfigError(err))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("servers: [unterminated"), 0o600))
	_, err = config.Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode yaml")
}

func TestReadEnvFiles(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"NEBULA_DEFAULT_SPACE=from_file\nNEBULA_MAX_CONNECTION_POOL_SIZE=3\n"), 0o600))

	environ, err := config.ReadEnvFiles(path)
	require.NoError(t, err)
	assert.Contains(t, environ, "NEBULA_DEFAULT_SPACE=from_file")

	cfg, err := config.FromEnv(environ)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxConnectionPoolSize)

	_, err = config.ReadEnvFiles(filepath.Join(t.TempDir(), "nope.env"))
	assert.True(t, carina.IsConfigError(err))
}
