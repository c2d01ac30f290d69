package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SITE_BASE_URL", "https://portfolio.example.com")
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "argument", args: []string{"hash-password", "s3cret-pass"}},
		{name: "stdin", stdin: "s3cret-pass\n", args: []string{"hash-password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			hash := strings.TrimSpace(out)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")))
		})
	}
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := execute(t, "\n", "hash-password")
	require.Error(t, err)
}

func TestSitemap_Memory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sitemap.xml")
	_, err := execute(t, "", "sitemap", "--memory", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	xml := string(data)
	assert.True(t, strings.HasPrefix(xml, "<?xml"))
	assert.Contains(t, xml, "<loc>https://portfolio.example.com/</loc>")
	assert.Contains(t, xml, "https://portfolio.example.com/portfolio/")
	assert.Contains(t, xml, "https://portfolio.example.com/blog/")
}

func TestCommandsNeedDatabase(t *testing.T) {
	for _, args := range [][]string{{"status"}, {"seed"}, {"migrate", "status"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := execute(t, "", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DATABASE_URL")
		})
	}
}

func TestReadSeedSet(t *testing.T) {
	set, err := readSeedSet("")
	require.NoError(t, err)
	assert.NotEmpty(t, set)

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"skills": [{"name": "Go", "percentage": 101}]}`), 0o600))
	_, err = readSeedSet(path)
	require.Error(t, err)

	_, err = readSeedSet(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestMigrationName(t *testing.T) {
	assert.Equal(t, "init", migrationName("migrations/00001_init.sql"))
	assert.Equal(t, "plain", migrationName("plain.sql"))
}
