package attachment

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG header plus IHDR chunk prefix; enough for sniffing.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	s, err := Encode(bytes.NewReader(pngBytes), 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "data:image/png;base64,"), s)

	mime, data, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, ".png", Extension(s))
}

func TestEncodeTooLarge(t *testing.T) {
	t.Parallel()

	_, err := Encode(bytes.NewReader(make([]byte, 11)), 10)
	assert.True(t, errors.Is(err, ErrTooLarge))

	_, err = Encode(bytes.NewReader(make([]byte, 10)), 10)
	assert.NoError(t, err)
}

func TestDecodeRejects(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "image.png", "data:image/png,abc", "data:image/png;base64", "data:x;base64,!!!"} {
		_, _, err := Decode(s)
		assert.True(t, errors.Is(err, ErrNotDataURL), s)
	}
}

func TestStartAndWait(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o644))

	p := Start(path, 0)
	s, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "data:image/png;base64,"))

	// Waiting again returns the same result.
	again, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestStartMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Start(filepath.Join(t.TempDir(), "missing.png"), 0).Wait(context.Background())
	assert.Error(t, err)
}

func TestNone(t *testing.T) {
	t.Parallel()

	s, err := Start("", 0).Wait(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s)

	var nilPending *Pending
	s, err = nilPending.Wait(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestWaitContextDone(t *testing.T) {
	t.Parallel()

	p := &Pending{done: make(chan struct{})}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
