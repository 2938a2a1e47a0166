package speech

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuong-9/pydoan/internal/storage"
)

type fakeSynth struct{ calls int }

func (f *fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.calls++
	return []byte("mp3:" + text), nil
}

func TestCachedSynthesizesOnce(t *testing.T) {
	ctx := context.Background()
	blobs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	inner := &fakeSynth{}
	c := NewCached(inner, blobs, nil)

	a, err := c.Synthesize(ctx, " Slide ")
	require.NoError(t, err)
	b, err := c.Synthesize(ctx, "Slide")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3:Slide"), a)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, inner.calls)

	rc, err := blobs.Get(ctx, Key("Slide"))
	require.NoError(t, err)
	rc.Close()
}

func TestCachedWithoutSynthesizer(t *testing.T) {
	ctx := context.Background()
	blobs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	c := NewCached(nil, blobs, nil)

	_, err = c.Synthesize(ctx, "Swing")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = c.Synthesize(ctx, "  ")
	assert.Error(t, err)
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("ball"), Key("ball"))
	assert.NotEqual(t, Key("ball"), Key("Ball"))
	assert.Regexp(t, `^tts/[0-9a-f]{64}\.mp3$`, Key("ball"))
}
