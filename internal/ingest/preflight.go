package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/normalize"
)

// Input formats.
const (
	FormatXLSX    = "xlsx"
	FormatParquet = "parquet"
)

// PreflightResult holds the file facts resolved before parsing.
type PreflightResult struct {
	// FilePath is the original path passed to Preflight, stored as-is.
	FilePath string
	// FileSHA256 is the hex-encoded SHA-256 digest of the file.
	FileSHA256 string
	// FileSize is the file size in bytes from os.Stat.
	FileSize int64
	// Format is FormatXLSX or FormatParquet, from the file extension.
	Format string
}

// DetectFormat maps a file name to an input format by extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
}

// Preflight checks the file type and size and computes its SHA-256.
func Preflight(log zerolog.Logger, filePath string, maxBytes int64) (*PreflightResult, error) {
	start := time.Now()

	format, err := DetectFormat(filePath)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}
	if maxBytes > 0 && stat.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, stat.Size(), maxBytes)
	}

	sha, err := normalize.FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	log.Info().
		Str("file", filepath.Base(filePath)).
		Str("format", format).
		Str("sha256", sha).
		Int64("bytes", stat.Size()).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	return &PreflightResult{
		FilePath:   filePath,
		FileSHA256: sha,
		FileSize:   stat.Size(),
		Format:     format,
	}, nil
}
