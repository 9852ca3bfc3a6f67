package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("CODEQUEST_DARK_MODE", "1")
	dark := DetectTheme()
	if !dark.IsDark {
		t.Fatalf("expected dark theme when CODEQUEST_DARK_MODE=1")
	}

	t.Setenv("CODEQUEST_DARK_MODE", "")
	light := DetectTheme()
	if light.IsDark {
		t.Fatalf("expected light theme when CODEQUEST_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	assert.True(t, DetectTheme().IsDark)
}

func TestThemeNamed(t *testing.T) {
	assert.Equal(t, "dark", ThemeNamed("Dark").Name)
	assert.Equal(t, "light", ThemeNamed("light").Name)
	assert.True(t, ThemeNamed("notty").Plain)
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(PlainTheme())
	assert.Equal(t, strings.Repeat("─", 4), s.RenderDivider(4))
	assert.Equal(t, "─", s.RenderDivider(0))
}

func TestRenderMarkdown(t *testing.T) {
	r, err := NewRenderer(PlainTheme(), 60)
	require.NoError(t, err)
	out := RenderMarkdown(r, "# The Greeting Spell\n\nSay hello.")
	assert.Contains(t, out, "The Greeting Spell")
	assert.Contains(t, out, "Say hello.")

	assert.Equal(t, "raw", RenderMarkdown(nil, "raw"))
}
