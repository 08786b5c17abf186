package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/storage"
)

// Limits bounds "fetch up to N rows" for search pages.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits используются, когда конфигурация не задала свои.
var DefaultLimits = Limits{Default: 50, Max: 200}

func (l Limits) clamp(limit int) int {
	if limit <= 0 {
		return l.Default
	}
	if limit > l.Max {
		return l.Max
	}
	return limit
}

// trimOptional trims s and maps a blank value to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func validateYear(year int) error {
	if year < 1970 || year > 2100 {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	return nil
}

// logoURL fills the public URL of a stored logo key.
func logoURL(uploader storage.FileUploader, key *string) *string {
	if uploader == nil || key == nil || *key == "" {
		return nil
	}
	u := uploader.GetPublicURL(*key)
	if u == "" {
		return nil
	}
	return &u
}

// replaceLogo uploads a new logo, stores its key via save and removes the
// previous object. Removal failures are logged, not returned: the new
// logo is already live.
func replaceLogo(
	ctx context.Context,
	uploader storage.FileUploader,
	logger *slog.Logger,
	kind, ownerID string,
	oldKey *string,
	contentType string,
	reader io.Reader,
	save func(ctx context.Context, key *string) error,
) (string, error) {
	if uploader == nil {
		return "", ErrStorageDisabled
	}

	key, err := storage.LogoKey(kind, ownerID, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			return "", ErrUnsupportedLogoType
		}
		return "", err
	}

	if _, err := uploader.Upload(ctx, key, contentType, reader); err != nil {
		return "", fmt.Errorf("failed to upload %s logo: %w", kind, err)
	}

	if err := save(ctx, &key); err != nil {
		if delErr := uploader.Delete(ctx, key); delErr != nil {
			logger.Warn("failed to clean up uploaded logo", slog.String("key", key), slog.Any("error", delErr))
		}
		return "", err
	}

	if oldKey != nil && *oldKey != "" {
		if err := uploader.Delete(ctx, *oldKey); err != nil {
			logger.Warn("failed to delete previous logo", slog.String("key", *oldKey), slog.Any("error", err))
		}
	}
	return key, nil
}

// dropLogo removes a stored logo after its owner was deleted.
func dropLogo(ctx context.Context, uploader storage.FileUploader, logger *slog.Logger, key *string) {
	if uploader == nil || key == nil || *key == "" {
		return
	}
	if err := uploader.Delete(ctx, *key); err != nil {
		logger.Warn("failed to delete logo of removed entity", slog.String("key", *key), slog.Any("error", err))
	}
}
