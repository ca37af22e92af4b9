package services

import (
	"context"
	"io"

	applog "giftguardian/internal/log"
	"giftguardian/internal/metrics"
	"giftguardian/internal/uploads"
)

// ImageUpload is an optional file attached to a gift form.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// imageFiles wraps the image store with the best-effort policy shared by the
// services: failures are logged and counted, never returned to the user.
type imageFiles struct {
	store   *uploads.ImageStore
	metrics *metrics.Metrics
}

// save stores upload when it has an accepted extension. Other files are
// skipped and the gift is saved without an image.
func (f imageFiles) save(ctx context.Context, upload *ImageUpload) (string, error) {
	if upload == nil || upload.Filename == "" || f.store == nil {
		return "", nil
	}
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentUploads)
	if !uploads.Allowed(upload.Filename) {
		logger.InfoContext(ctx, "Ignoring upload with unsupported type", applog.FieldImage, upload.Filename)
		return "", nil
	}
	name, err := f.store.Save(ctx, upload.Filename, upload.Content)
	if err != nil {
		f.metrics.ImageFailed("save")
		return "", err
	}
	return name, nil
}

func (f imageFiles) remove(ctx context.Context, names ...string) {
	if f.store == nil {
		return
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := f.store.Remove(name); err != nil {
			f.metrics.ImageFailed("remove")
			applog.NewStructuredLogger(applog.FromContext(ctx).WithComponent(applog.ComponentUploads)).
				LogError(ctx, "Image removal failed", err, applog.OpDelete, applog.LogFields{applog.FieldImage: name})
		}
	}
}
