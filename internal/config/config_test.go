package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"database_url": "postgres://localhost/resumes",
		"user_id": "user-1",
		"auto_save_interval": 10,
		"log_level": "debug"
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/resumes", cfg.DatabaseURL)
	assert.Equal(t, "user-1", cfg.UserID)
	assert.Equal(t, 10, cfg.AutoSaveInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty is fine", cfg: Config{}},
		{name: "negative interval", cfg: Config{AutoSaveInterval: -1}, wantErr: true},
		{name: "negative redis db", cfg: Config{RedisDB: -2}, wantErr: true},
		{name: "token without secret", cfg: Config{JWTToken: "t"}, wantErr: true},
		{name: "token with secret", cfg: Config{JWTToken: "t", JWTSecret: "s"}},
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

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{UserID: "explicit"}
	merged := cfg.MergeWithDefaults(Config{
		UserID:           "default",
		DatabaseURL:      "postgres://localhost/resumes",
		AutoSaveInterval: 5,
	})

	assert.Equal(t, "explicit", merged.UserID, "set values win")
	assert.Equal(t, "postgres://localhost/resumes", merged.DatabaseURL)
	assert.Equal(t, 5, merged.AutoSaveInterval)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/resumes")
	t.Setenv("RESUME_USER_ID", "env-user")
	t.Setenv("AUTO_SAVE_INTERVAL", "15")

	cfg := FromEnv()
	assert.Equal(t, "postgres://env/resumes", cfg.DatabaseURL)
	assert.Equal(t, "env-user", cfg.UserID)
	assert.Equal(t, 15, cfg.AutoSaveInterval)
}
