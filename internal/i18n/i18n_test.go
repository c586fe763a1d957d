// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/tokenapi/internal/apierror"
	"codeberg.org/oliverandrich/tokenapi/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInit(t *testing.T) {
	err := i18n.Init()
	require.NoError(t, err)
}

func TestT(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Authentication failed!", i18n.T(ctx, apierror.MsgAuthFailed))
}

func TestT_Chinese(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.Chinese)

	assert.Equal(t, "认证失败!", i18n.T(ctx, apierror.MsgAuthFailed))
}

func TestT_EveryMessageTranslated(t *testing.T) {
	require.NoError(t, i18n.Init())

	ids := []string{
		apierror.MsgAuthFailed,
		apierror.MsgInternalError,
		apierror.MsgNotFound,
		apierror.MsgBadRequest,
		apierror.MsgEntityTooLarge,
		apierror.MsgMethodNotAllowed,
	}

	for _, lang := range i18n.Supported {
		ctx := i18n.WithLocale(context.Background(), lang)
		for _, id := range ids {
			assert.NotEqual(t, id, i18n.T(ctx, id), "%s missing for %s", id, lang)
		}
	}
}

func TestT_UnknownKey(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestT_NoLocaleContext(t *testing.T) {
	require.NoError(t, i18n.Init())

	// Without WithLocale, should fallback to English
	result := i18n.T(context.Background(), apierror.MsgInternalError)
	assert.Equal(t, "Internal server error", result)
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		expected       language.Tag
		acceptLanguage string
	}{
		{language.English, "en"},
		{language.English, "en-US"},
		{language.Chinese, "zh"},
		{language.Chinese, "zh-CN"},
		{language.Chinese, "zh-Hans"},
		{language.English, "fr"}, // fallback to English
		{language.English, ""},   // empty defaults to English
		{language.Chinese, "zh, en;q=0.9"},
		{language.English, "en, zh;q=0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			tag := i18n.MatchLanguage(tt.acceptLanguage)
			// Compare base language (ignore region)
			assert.Equal(t, tt.expected.String()[:2], tag.String()[:2])
		})
	}
}

func TestWithLocale(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), i18n.MatchLanguage("zh-CN"))

	assert.Equal(t, "zh", i18n.GetLocale(ctx))
	assert.Equal(t, "认证失败!", i18n.T(ctx, apierror.MsgAuthFailed))
}

func TestGetLocale_Default(t *testing.T) {
	assert.Equal(t, "en", i18n.GetLocale(context.Background()))
}
