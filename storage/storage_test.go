package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoKey(t *testing.T) {
	key, err := LogoKey("universities", "u1", "image/PNG; charset=binary")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "universities/u1/logo-"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	other, err := LogoKey("universities", "u1", "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestLogoKeyRejectsUnknownType(t *testing.T) {
	_, err := LogoKey("events", "e1", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example", "universities/u1/logo.png", "https://cdn.example/universities/u1/logo.png"},
		{"https://cdn.example/", "/events/e1/logo.svg", "https://cdn.example/events/e1/logo.svg"},
		{"https://cdn.example/assets", "a.png", "https://cdn.example/assets/a.png"},
		{"", "a.png", ""},
		{"https://cdn.example", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PublicURL(tt.base, tt.key), "base=%q key=%q", tt.base, tt.key)
	}
}

func TestNewCloudflareR2UploaderRequiresAllFields(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "acc"})
	assert.Error(t, err)
}
