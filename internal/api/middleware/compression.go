package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

type CompressionConfig struct {
	// MinSize is the smallest response body worth compressing, in bytes.
	MinSize int
	// Level is the gzip level, 1-9.
	Level int
}

func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   6,
	}
}

// Compression gzips responses for clients that accept it. Departure boards
// with embedded associated services run to hundreds of kilobytes.
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(cfg.MinSize),
		gzhttp.CompressionLevel(cfg.Level),
	)
	return func(next http.Handler) http.Handler {
		if err != nil {
			return gzhttp.GzipHandler(next)
		}
		return wrapper(next)
	}
}
