package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEssayTheme(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)

	theme, err := NewEssayTheme("Tema 12", "help", "https://files.example.com/theme.pdf",
		[]Course{CourseEsa, CourseEspcex}, start, end)
	require.NoError(t, err)

	assert.Equal(t, "Tema 12", theme.Title)
	assert.False(t, theme.Deactivated)
	assert.True(t, theme.HasCourse(CourseEsa))
	assert.False(t, theme.HasCourse(CourseBlank))
}

func TestNewEssayTheme_Validation(t *testing.T) {
	start := time.Now().UTC()

	t.Run("empty title", func(t *testing.T) {
		_, err := NewEssayTheme("", "", "", []Course{CourseEsa}, start, start.AddDate(0, 0, 7))
		assert.ErrorIs(t, err, ErrEmptyThemeTitle)
	})

	t.Run("no courses", func(t *testing.T) {
		_, err := NewEssayTheme("Tema", "", "", nil, start, start.AddDate(0, 0, 7))
		assert.ErrorIs(t, err, ErrEmptyThemeCourse)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewEssayTheme("Tema", "", "", []Course{CourseEsa}, start, start.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, ErrInvalidThemeSpan)
	})
}

func TestEssayThemeActiveAt(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	theme, err := NewEssayTheme("Tema", "", "", []Course{CourseEsa}, start, end)
	require.NoError(t, err)

	assert.False(t, theme.ActiveAt(start.Add(-time.Second)))
	assert.True(t, theme.ActiveAt(start))
	assert.True(t, theme.ActiveAt(end.Add(-time.Second)))
	assert.False(t, theme.ActiveAt(end), "window is half-open")

	theme.Deactivated = true
	assert.False(t, theme.ActiveAt(start))
}
