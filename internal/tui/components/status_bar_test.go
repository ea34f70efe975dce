package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusBarShowsModeAndHints(t *testing.T) {
	sb := NewStatusBar()
	sb.SetMode("day")

	view := sb.View()
	assert.Contains(t, view, "[day]")
	assert.Contains(t, view, "enter:select")
}

func TestStatusBarMessageReplacesHints(t *testing.T) {
	sb := NewStatusBar()
	sb.SetMessage("configuration reloaded", false)

	view := sb.View()
	assert.Contains(t, view, "configuration reloaded")
	assert.NotContains(t, view, "enter:select")

	sb.SetMessage("", false)
	assert.Contains(t, sb.View(), "enter:select")
}

func TestStatusBarTruncates(t *testing.T) {
	sb := NewStatusBar()
	sb.SetWidth(20)
	sb.SetMessage(strings.Repeat("x", 50), true)

	view := sb.View()
	assert.Contains(t, view, "...")
	assert.NotContains(t, view, strings.Repeat("x", 20))
}
