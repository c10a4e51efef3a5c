package theme

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	tests := []struct {
		pct, width, filled int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{67, 10, 7},
		{100, 10, 10},
		{150, 4, 4},
		{-3, 4, 0},
	}
	for _, tt := range tests {
		bar := Bar(tt.pct, tt.width)
		assert.Equal(t, tt.width, lipgloss.Width(bar), "pct %d", tt.pct)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "pct %d", tt.pct)
	}
	assert.Empty(t, Bar(50, 0))
}

func TestMastery(t *testing.T) {
	assert.Equal(t, Correct.GetForeground(), Mastery(80).GetForeground())
	assert.Equal(t, Warning.GetForeground(), Mastery(60).GetForeground())
	assert.Equal(t, Incorrect.GetForeground(), Mastery(10).GetForeground())
	assert.Equal(t, Subtitle.GetForeground(), Mastery(0).GetForeground())
}

func TestTable(t *testing.T) {
	out := Table("Word", "Mastery").Row("apple", "50%").String()
	assert.Contains(t, out, "Word")
	assert.Contains(t, out, "apple")
	assert.Contains(t, out, "50%")
}
