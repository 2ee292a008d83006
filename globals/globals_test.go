package globals

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvPrefersProcessEnvironment(t *testing.T) {
	dotenv["CONFIG_TEST_KEY"] = "from-file"
	defer delete(dotenv, "CONFIG_TEST_KEY")

	t.Setenv("CONFIG_TEST_KEY", "from-process")
	assert.Equal(t, "from-process", Env("CONFIG_TEST_KEY", "fallback"))
}

func TestEnvFallsBackToDotenvThenDefault(t *testing.T) {
	dotenv["CONFIG_TEST_KEY"] = "from-file"
	defer delete(dotenv, "CONFIG_TEST_KEY")

	assert.Equal(t, "from-file", Env("CONFIG_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Env("CONFIG_TEST_MISSING", "fallback"))
}

func TestEnvHonorsDotenvFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=file-secret\n"), 0o600))

	vals, err := godotenv.Read(path)
	require.NoError(t, err)

	prev := dotenv
	dotenv = vals
	defer func() { dotenv = prev }()
	t.Setenv("JWT_SECRET", "")

	// the file value must win over the hard-coded fallback
	assert.Equal(t, "file-secret", Env("JWT_SECRET", "change_me_in_production"))
}
