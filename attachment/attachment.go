// Package attachment turns files into self-contained data URLs that can be
// stored alongside a trade.
package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxSize bounds the raw file size accepted by Encode.
const DefaultMaxSize = 5 << 20

var (
	ErrTooLarge   = errors.New("attachment too large")
	ErrNotDataURL = errors.New("not a base64 data URL")
)

// Encode reads r fully and returns "data:<mime>;base64,<payload>".
func Encode(r io.Reader, maxSize int64) (string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read attachment: %w", err)
	}
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxSize)
	}

	mime := mimetype.Detect(data)

	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(mime.String())
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}

// EncodeFile encodes the file at path.
func EncodeFile(path string, maxSize int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()
	return Encode(f, maxSize)
}

// Decode splits a data URL produced by Encode into its MIME type and bytes.
func Decode(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNotDataURL, err)
	}
	return mime, data, nil
}

// Extension returns the file extension for a data URL's MIME type, e.g. ".png".
func Extension(dataURL string) string {
	_, data, err := Decode(dataURL)
	if err != nil {
		return ""
	}
	return mimetype.Detect(data).Extension()
}

// Pending is an encoding in progress. A trade may only be built from its
// result once Wait has returned.
type Pending struct {
	done  chan struct{}
	value string
	err   error
}

// None is an already resolved Pending with no attachment.
func None() *Pending {
	p := &Pending{done: make(chan struct{})}
	close(p.done)
	return p
}

// Start encodes path in the background. An empty path resolves to None.
func Start(path string, maxSize int64) *Pending {
	if path == "" {
		return None()
	}
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.value, p.err = EncodeFile(path, maxSize)
	}()
	return p
}

// Wait blocks until the encoding finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (string, error) {
	if p == nil {
		return "", nil
	}
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
