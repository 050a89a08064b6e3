package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeFile(t, `
frame_rate: 60
renderer: accelerated
preview: true
output:
  dir: out
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 60.0, c.FrameRate)
	assert.Equal(t, RendererAccelerated, c.Renderer)
	assert.True(t, c.Preview)
	assert.Equal(t, "out", c.Output.Dir)
	// untouched keys keep their defaults
	assert.Equal(t, 640, c.Width)
	assert.Equal(t, ":8080", c.PreviewServer.Addr)
	assert.NoError(t, c.Validate())
}

func TestLoadRejectsUnknownRenderer(t *testing.T) {
	p := writeFile(t, "renderer: vulkan\n")
	_, err := Load(p)
	require.Error(t, err)

	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr), "want ConfigurationError, got %T: %v", err, err)
	assert.Equal(t, "renderer", cerr.Field)
}

func TestSaveThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.Renderer = RendererAccelerated
	c.SaveLastFrame = true
	require.NoError(t, Save(p, &c))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, c, *got)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(c *Config)
		field string
	}{
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }, "frame_rate"},
		{"negative frame rate", func(c *Config) { c.FrameRate = -24 }, "frame_rate"},
		{"bad renderer", func(c *Config) { c.Renderer = RendererKind(7) }, "renderer"},
		{"bad background", func(c *Config) { c.Background = "not-a-colour" }, "background"},
		{"empty led matrix", func(c *Config) { c.LED.Enabled = true; c.LED.Rows = 0 }, "led"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.edit(&c)
			err := c.Validate()
			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, tc.field, cerr.Field)
		})
	}
}

func TestParseRendererKindAliases(t *testing.T) {
	k, err := ParseRendererKind("OpenGL")
	require.NoError(t, err)
	assert.Equal(t, RendererAccelerated, k)

	k, err = ParseRendererKind("cairo")
	require.NoError(t, err)
	assert.Equal(t, RendererRaster, k)
	assert.Equal(t, "raster", k.String())
}

func TestBackgroundColor(t *testing.T) {
	c := Default()
	c.Background = "#ff0000"
	r, g, b := c.BackgroundColor().RGB255()
	assert.Equal(t, []uint8{255, 0, 0}, []uint8{r, g, b})
}
