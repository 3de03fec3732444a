package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/mocks"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/store"
)

func TestThemeServiceCreate(t *testing.T) {
	themes := mocks.NewMockThemeStore()
	svc := service.NewThemeService(themes, nil)

	now := time.Now().UTC()
	theme, err := svc.Create(context.Background(), service.ThemeData{
		Title:     "A era da desinformação",
		HelpText:  "Considere os textos de apoio.",
		File:      "https://files.example.com/theme.pdf",
		Courses:   []domain.Course{domain.CourseEsa, domain.CourseEspcex},
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	assert.False(t, theme.Deactivated)
	assert.Contains(t, themes.Themes, theme.ID)

	t.Run("inverted window", func(t *testing.T) {
		_, err := svc.Create(context.Background(), service.ThemeData{
			Title:     "Tema",
			Courses:   []domain.Course{domain.CourseEsa},
			StartDate: now,
			EndDate:   now.Add(-time.Hour),
		})
		assert.Error(t, err)
	})
}

func TestThemeServiceActiveByCourse(t *testing.T) {
	themes := mocks.NewMockThemeStore()
	svc := service.NewThemeService(themes, nil)

	active := newActiveTheme(t, domain.CourseEsa)
	themes.Add(active)

	now := time.Now().UTC()
	closed, err := domain.NewEssayTheme("Tema encerrado", "", "",
		[]domain.Course{domain.CourseEsa}, now.AddDate(0, 0, -30), now.AddDate(0, 0, -16))
	require.NoError(t, err)
	themes.Add(closed)

	got, err := svc.ActiveByCourse(context.Background(), domain.CourseEsa)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)

	t.Run("no open window", func(t *testing.T) {
		_, err := svc.ActiveByCourse(context.Background(), domain.CourseEspcex)
		assert.ErrorIs(t, err, store.ErrThemeNotFound)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.ActiveByCourse(context.Background(), domain.Course("enem"))
		assert.ErrorIs(t, err, domain.ErrInvalidCourse)
	})
}

func TestThemeServiceUpdate(t *testing.T) {
	themes := mocks.NewMockThemeStore()
	svc := service.NewThemeService(themes, nil)

	theme := newActiveTheme(t, domain.CourseEsa)
	themes.Add(theme)

	t.Run("deactivates a theme", func(t *testing.T) {
		deactivated := true
		updated, err := svc.Update(context.Background(), theme.ID, service.ThemeUpdateData{
			Deactivated: &deactivated,
		})
		require.NoError(t, err)

		assert.True(t, updated.Deactivated)
		assert.False(t, updated.ActiveAt(time.Now().UTC()))
	})

	t.Run("update must keep the theme valid", func(t *testing.T) {
		title := ""
		_, err := svc.Update(context.Background(), theme.ID, service.ThemeUpdateData{
			Title: &title,
		})
		assert.Error(t, err)
	})
}
