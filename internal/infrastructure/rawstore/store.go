// Package rawstore persists raw marketplace API payloads on disk.
// Documents keep only a reference; the payload itself is compressed with
// zstd and kept for replays and support investigations.
package rawstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"mercatus/pkg/logger"
)

const fileExt = ".json.zst"

// Store writes and reads compressed raw payloads.
type Store struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New creates a raw payload store rooted at dir.
// level maps to zstd encoder levels 1..4 (fastest..best).
func New(dir string, level int) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("raw store dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create raw store dir: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Store{
		dir:     dir,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Put stores a payload and returns its reference. The reference is a
// relative path keyed by marketplace, document type and source key, so
// re-importing the same source object overwrites the previous payload.
func (s *Store) Put(ctx context.Context, marketplace, docType, key string, payload []byte) (string, error) {
	ref := filepath.Join(marketplace, docType, sanitizeKey(key)+fileExt)
	fullPath := filepath.Join(s.dir, ref)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create payload dir: %w", err)
	}

	compressed := s.encoder.EncodeAll(payload, nil)

	// Write via temp file so a crash never leaves a truncated payload.
	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return "", fmt.Errorf("write payload: %w", err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		return "", fmt.Errorf("finalize payload: %w", err)
	}

	logger.FromContext(ctx).Debugw("raw payload stored",
		"ref", ref,
		"size", len(payload),
		"compressed_size", len(compressed),
	)

	return ref, nil
}

// Get reads a payload by reference.
func (s *Store) Get(ctx context.Context, ref string) ([]byte, error) {
	fullPath, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	compressed, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("raw payload %s not found", ref)
		}
		return nil, fmt.Errorf("read payload: %w", err)
	}

	payload, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}

	return payload, nil
}

// Close releases the compression codecs.
func (s *Store) Close() {
	_ = s.encoder.Close()
	s.decoder.Close()
}

// Delete removes a payload by reference. Missing payloads are not an error.
func (s *Store) Delete(ctx context.Context, ref string) error {
	fullPath, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete payload: %w", err)
	}
	return nil
}

// resolve maps a reference to an absolute path, rejecting traversal.
func (s *Store) resolve(ref string) (string, error) {
	clean := filepath.Clean(ref)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid payload reference: %s", ref)
	}
	return filepath.Join(s.dir, clean), nil
}

func sanitizeKey(key string) string {
	if key == "" {
		key = fmt.Sprintf("payload-%d", time.Now().UnixNano())
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	return replacer.Replace(key)
}
