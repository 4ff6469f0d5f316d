package media

import (
	"context"
	"io"
)

// Asset is what the media host hands back for an uploaded file: a durable
// URL, an opaque handle for later deletion and, for videos, the duration.
type Asset struct {
	URL      string  `json:"secure_url"`
	PublicID string  `json:"public_id"`
	Duration float64 `json:"duration"`
}

// Kind selects the remote resource type on deletion.
const (
	KindImage = "image"
	KindVideo = "video"
)

// Host is the narrow interface to the cloud storage/transcoding service.
type Host interface {
	Upload(ctx context.Context, name string, r io.Reader) (*Asset, error)
	Remove(ctx context.Context, publicID, kind string) error
}
