package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/minesweeper-web/internal/mines"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadDefaults(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")
	t.Setenv("SESSION_SECRET", "s3cret")

	c, err := Read("")
	require.NoError(t, err)
	assert.True(t, c.Production())
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, mines.DefaultParams(), c.Game.Default)
	assert.Equal(t, "s3cret", c.Session.Secret)
	assert.Equal(t, 30*time.Minute, c.Session.IdleTimeout.Duration)
}

func TestReadFile(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")
	path := writeConfig(t, `{
		"mode": "development",
		"addr": "localhost:9000",
		"game": {"default": "9:9:10", "allowed": ["16:16:40"]},
		"session": {"token_lifetime": "1h", "idle_timeout": 60000000000},
		"cookies": {"same_site": "lax", "secure": false}
	}`)

	c, err := Read(path)
	require.NoError(t, err)
	assert.True(t, c.Development())
	assert.Equal(t, "localhost:9000", c.Addr)
	assert.Equal(t, mines.GameParams{Rows: 9, Cols: 9, MineCount: 10}, c.Game.Default)
	assert.Equal(t, time.Hour, c.Session.TokenLifetime.Duration)
	assert.Equal(t, time.Minute, c.Session.IdleTimeout.Duration)
	assert.Equal(t, time.Minute, c.Session.SweepInterval.Duration)
	assert.Equal(t, http.SameSiteLaxMode, NewCookies(c.Cookies).SameSite)

	assert.True(t, c.Game.Permits(mines.GameParams{Rows: 16, Cols: 16, MineCount: 40}))
	assert.True(t, c.Game.Permits(mines.GameParams{Rows: 9, Cols: 9, MineCount: 10}))
	assert.False(t, c.Game.Permits(mines.DefaultParams()))
}

func TestReadEnvOverrides(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(secretPath, []byte("from-file\n"), 0o600))
	t.Setenv("SESSION_SECRET_FILE", secretPath)
	t.Setenv("APP_ADDR", ":7000")
	t.Setenv("DEVELOPMENT", "1")

	c, err := Read(writeConfig(t, `{"mode": "production"}`))
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Addr)
	assert.True(t, c.Development())
	assert.Equal(t, "from-file", c.Session.Secret)
}

func TestReadDevelopmentFlag(t *testing.T) {
	t.Setenv("SESSION_SECRET", "x")

	testCases := []struct {
		value       string
		development bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"false", false},
		{"", false},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("DEVELOPMENT", tc.value)
			c, err := Read(writeConfig(t, `{"mode": "production"}`))
			require.NoError(t, err)
			assert.Equal(t, tc.development, c.Development())
		})
	}

	t.Run("production still needs a secret", func(t *testing.T) {
		t.Setenv("DEVELOPMENT", "false")
		t.Setenv("SESSION_SECRET", "")
		_, err := Read(writeConfig(t, `{"mode": "production"}`))
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Setenv("DEVELOPMENT", "yes please")
		_, err := Read(writeConfig(t, `{"mode": "production"}`))
		assert.Error(t, err)
	})
}

func TestReadInvalid(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")
	t.Setenv("SESSION_SECRET", "")

	testCases := map[string]string{
		"no secret":      `{"mode": "production"}`,
		"bad params":     `{"mode": "development", "game": {"default": "2:2:4"}}`,
		"bad duration":   `{"mode": "development", "session": {"idle_timeout": "soon"}}`,
		"zero duration":  `{"mode": "development", "session": {"sweep_interval": "0s"}}`,
		"bad allowed":    `{"mode": "development", "game": {"allowed": ["0:1:0"]}}`,
		"malformed json": `{`,
	}
	for name, content := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFieldsHideSecret(t *testing.T) {
	c := Default()
	c.Session.Secret = "hunter2"
	for _, v := range c.Fields() {
		assert.NotEqual(t, "hunter2", v)
	}
	assert.Equal(t, true, c.Fields()["session_secret_set"])
}

func TestDurationJSON(t *testing.T) {
	b, err := Duration{90 * time.Second}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))

	var d Duration
	assert.Error(t, d.UnmarshalJSON([]byte(`true`)))
}

func TestCookiesGameToken(t *testing.T) {
	cookies := NewCookies(CookiesConfig{SameSite: "none"})
	assert.Equal(t, http.SameSiteNoneMode, cookies.SameSite)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := cookies.GameToken(r)
	assert.False(t, ok)

	r.AddCookie(&http.Cookie{Name: GameTokenCookie, Value: "from-cookie"})
	token, ok := cookies.GameToken(r)
	assert.True(t, ok)
	assert.Equal(t, "from-cookie", token)

	r.Header.Set("X-Game-Token", "from-header")
	token, _ = cookies.GameToken(r)
	assert.Equal(t, "from-header", token)

	w := httptest.NewRecorder()
	cookies.Refresh(w, "abc", time.Hour)
	res := w.Result()
	require.Len(t, res.Cookies(), 1)
	assert.Equal(t, "abc", res.Cookies()[0].Value)
	assert.True(t, res.Cookies()[0].HttpOnly)
}
