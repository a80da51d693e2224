package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "persondb_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("MONGODB_TIMEOUT", "3")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, StoreMongo, cfg.Store)
	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "persondb_test", cfg.MongoDB.Database)
	require.Equal(t, "people", cfg.MongoDB.Collection)
	require.Equal(t, 3*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, "5020", cfg.Server.Port)
	require.Equal(t, "localhost:6379", cfg.RedisAddr())
	require.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfig_FallsBackToMongoDBURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "mongodb://db:27017", cfg.MongoDB.URI)
}

func TestLoadConfig_RequiresURIForMongo(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("PERSON_STORE", "mongo")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestLoadConfig_MemoryStoreAndEnvFile(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("PERSON_STORE", "")
	t.Setenv("PERSON_COLLECTION", "")
	os.Unsetenv("PERSON_STORE")
	os.Unsetenv("PERSON_COLLECTION")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PERSON_STORE=memory\nPERSON_COLLECTION=Person\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PERSON_STORE")
		os.Unsetenv("PERSON_COLLECTION")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, StoreMemory, cfg.Store)
	require.Equal(t, "Person", cfg.MongoDB.Collection)
	require.Equal(t, "", cfg.RedisAddr())
}

func TestLoadConfig_UnknownStore(t *testing.T) {
	t.Setenv("PERSON_STORE", "postgres")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestLoad_OverridesThenValidate(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("PERSON_STORE", "")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, cfg.Validate())

	cfg.MongoDB.URI = "mongodb://flag:27017"
	require.NoError(t, cfg.Validate())

	cfg.Store = " Memory "
	require.NoError(t, cfg.Validate())
	require.Equal(t, StoreMemory, cfg.Store)
}
