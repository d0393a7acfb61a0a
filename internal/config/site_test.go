package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/common"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func env(values map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	}
}

func TestLoadSite_Defaults(t *testing.T) {
	site, err := loadSite(newViper(nil), catalog.Default(), env(nil))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, site.Env)
	assert.Equal(t, "573005648309", site.Phone)
	assert.Equal(t, "catalog", site.PhoneSource)
	assert.Equal(t, 8080, site.Port)
	assert.Equal(t, ":8080", site.Addr())
	assert.Equal(t, 3*time.Second, site.Cooldown)
	assert.NotContains(t, site.DatabasePath, "$HOME")
}

func TestLoadSite_PhonePrecedence(t *testing.T) {
	site, err := loadSite(newViper(map[string]any{KeyPhone: "111"}), catalog.Default(), env(map[string]string{"WHATSAPP_PHONE": "222"}))
	require.NoError(t, err)
	assert.Equal(t, "111", site.Phone)

	site, err = loadSite(newViper(nil), catalog.Default(), env(map[string]string{"WHATSAPP_PHONE": "222"}))
	require.NoError(t, err)
	assert.Equal(t, "222", site.Phone)
	assert.Equal(t, "WHATSAPP_PHONE", site.PhoneSource)
}

func TestLoadSite_Errors(t *testing.T) {
	tests := []struct {
		values map[string]any
		env    map[string]string
		name   string
	}{
		{name: "production without phone", values: map[string]any{KeyEnv: EnvProduction}},
		{name: "non-digit phone", values: map[string]any{KeyPhone: "+57 300"}},
		{name: "unknown env", values: map[string]any{KeyEnv: "staging"}},
		{name: "bad PORT", env: map[string]string{"PORT": "http"}},
		{name: "port out of range", values: map[string]any{KeyServerPort: 70000}},
		{name: "negative cooldown", values: map[string]any{KeyCooldownSeconds: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSite(newViper(tt.values), catalog.Default(), env(tt.env))
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadSite_ProductionMissingPhoneIsMissingConfig(t *testing.T) {
	_, err := loadSite(newViper(map[string]any{KeyEnv: EnvProduction}), catalog.Default(), env(nil))
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	site, err := loadSite(newViper(map[string]any{KeyEnv: EnvProduction}), catalog.Default(), env(map[string]string{"WHATSAPP_PHONE": "573001112233"}))
	require.NoError(t, err)
	assert.Equal(t, "573001112233", site.Phone)
}

func TestLoadSite_Overrides(t *testing.T) {
	site, err := loadSite(newViper(map[string]any{KeyCooldownSeconds: 10, KeyCatalogPath: "~/catalog.yaml"}),
		catalog.Default(), env(map[string]string{"PORT": "9090"}))
	require.NoError(t, err)
	assert.Equal(t, 9090, site.Port)
	assert.Equal(t, 10*time.Second, site.Cooldown)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "catalog.yaml"), site.CatalogPath)
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().Phone, cat.Phone)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("phone: \"123\"\n"), 0600))
	cat, err = LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "123", cat.Phone)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LENERA_TEST_DIR", "/srv/lenera")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "a/b"), ExpandPath("~/a/b"))
	assert.Equal(t, "/srv/lenera/db", ExpandPath("$LENERA_TEST_DIR/db"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
}
