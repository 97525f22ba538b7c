package service

import (
	"context"
	"io"
)

// Asset is a stored object reference on the external asset host.
type Asset struct {
	ID  string
	URL string
}

// AssetStore is the external image/object storage collaborator.
type AssetStore interface {
	Upload(ctx context.Context, file io.Reader, contentType, folder string) (*Asset, error)
	Delete(ctx context.Context, id string) error
}

// Mailer dispatches transactional mail (password reset).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
