package adapter

import (
	"fmt"
	"strings"
	"time"
)

var extensionsByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// objectName builds a date-sharded, collision-free object name such as
// "2026/03/01/0195f2c4-....jpg".
func objectName(id string, mimeType string, now time.Time) string {
	ext := extensionsByMime[strings.ToLower(mimeType)]
	return fmt.Sprintf("%04d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), id, ext)
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(name, "/")
}
