// Package qrcode renders verification tokens as QR images and publishes them.
package qrcode

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/google/uuid"
	qr "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// DefaultSize is the PNG width and height in pixels.
const DefaultSize = 300

var ErrStorageNotConfigured = errors.New("qrcode: object storage is not configured")

// ObjectStore persists an image and returns the URL it is served from.
type ObjectStore interface {
	Upload(ctx context.Context, publicID string, png []byte) (string, error)
}

// DisabledStore is used when no object storage is configured. Every upload fails.
type DisabledStore struct{}

func (DisabledStore) Upload(context.Context, string, []byte) (string, error) {
	return "", ErrStorageNotConfigured
}

type Generator struct {
	store  ObjectStore
	size   int
	logger *zap.Logger
}

func NewGenerator(store ObjectStore, size int, logger *zap.Logger) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{
		store:  store,
		size:   size,
		logger: logger.Named("QRCode"),
	}
}

// Encode renders payload as a black on white PNG with high error correction.
func (g *Generator) Encode(payload string) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("qrcode: empty payload")
	}
	code, err := qr.New(payload, qr.High)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	code.ForegroundColor = color.Black
	code.BackgroundColor = color.White
	return code.PNG(g.size)
}

// Render encodes payload and uploads the image under a fresh id.
func (g *Generator) Render(ctx context.Context, payload string) (string, error) {
	png, err := g.Encode(payload)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	publicID := uuid.NewString()
	url, err := g.store.Upload(ctx, publicID, png)
	if err != nil {
		return "", fmt.Errorf("qrcode: upload %s: %w", publicID, err)
	}
	g.logger.Debug("qr code uploaded", zap.String("publicID", publicID), zap.String("url", url))
	return url, nil
}
