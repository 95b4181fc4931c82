package i18n_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	i18n "github.com/syssam/velox-i18n"
)

func TestConfigError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := i18n.NewConfigError("Article", "locales must be defined")
		assert.Equal(t, `i18n: model "Article": locales must be defined`, err.Error())

		err = i18n.NewConfigError("", "no models")
		assert.Equal(t, "i18n: no models", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := i18n.NewConfigError("Article", "bad")
		assert.True(t, errors.Is(err, i18n.ErrImproperlyConfigured))
		assert.False(t, errors.Is(err, i18n.ErrTranslationNotFound))
	})

	t.Run("IsConfigError", func(t *testing.T) {
		err := i18n.NewConfigError("Article", "bad")
		assert.True(t, i18n.IsConfigError(err))

		// Wrapped error
		wrapped := fmt.Errorf("register: %w", err)
		assert.True(t, i18n.IsConfigError(wrapped))

		// Sentinel error
		assert.True(t, i18n.IsConfigError(i18n.ErrImproperlyConfigured))

		assert.False(t, i18n.IsConfigError(errors.New("other error")))
		assert.False(t, i18n.IsConfigError(nil))
	})
}

func TestTranslationNotFoundError(t *testing.T) {
	err := i18n.NewTranslationNotFoundError("Article", "en")
	assert.Equal(t, `i18n: Article has no translation for locale "en"`, err.Error())
	assert.Equal(t, "Article", err.Model())
	assert.Equal(t, "en", err.Locale())
	assert.True(t, errors.Is(err, i18n.ErrTranslationNotFound))
	assert.True(t, i18n.IsTranslationNotFound(fmt.Errorf("read: %w", err)))
	assert.False(t, i18n.IsTranslationNotFound(i18n.NewConfigError("Article", "bad")))
	assert.False(t, i18n.IsTranslationNotFound(nil))
}

func TestUnknownAttributeError(t *testing.T) {
	err := i18n.NewUnknownAttributeError("ArticleTranslation", "slug")
	assert.Equal(t, `i18n: ArticleTranslation has no attribute "slug"`, err.Error())
	assert.True(t, errors.Is(err, i18n.ErrUnknownAttribute))
	assert.True(t, i18n.IsUnknownAttribute(fmt.Errorf("set: %w", err)))
	assert.False(t, i18n.IsUnknownAttribute(nil))
}

func TestAggregateError(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, i18n.NewAggregateError())
		assert.NoError(t, i18n.NewAggregateError(nil, nil))
	})

	t.Run("Single", func(t *testing.T) {
		e := errors.New("one")
		assert.Equal(t, e, i18n.NewAggregateError(nil, e))
	})

	t.Run("Multiple", func(t *testing.T) {
		e1 := i18n.NewConfigError("A", "bad")
		e2 := errors.New("two")
		err := i18n.NewAggregateError(e1, e2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "i18n: multiple errors:")
		assert.Contains(t, err.Error(), "[2] two")
		assert.True(t, i18n.IsConfigError(err))
		assert.True(t, errors.Is(err, e2))
	})
}
