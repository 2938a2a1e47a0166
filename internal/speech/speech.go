// Package speech turns English text into spoken audio for listening drills.
package speech

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/thuong-9/pydoan/internal/llm"
	"github.com/thuong-9/pydoan/internal/logger"
	"github.com/thuong-9/pydoan/internal/storage"
)

// ErrUnavailable means no synthesizer is configured.
var ErrUnavailable = errors.New("speech synthesis unavailable")

// MaxInput bounds the text accepted for synthesis.
const MaxInput = 500

// Synthesizer returns MP3 audio for text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// OpenAI synthesizes with the OpenAI speech endpoint.
type OpenAI struct {
	client *openai.Client
	voice  openai.SpeechVoice
}

func NewOpenAI(cfg llm.OpenAIConfig) (*OpenAI, error) {
	client, err := llm.NewOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	return &OpenAI{client: client, voice: openai.VoiceAlloy}, nil
}

func (o *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          0.9,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()
	return io.ReadAll(resp)
}

// Cached keeps every synthesized clip in a blob store under
// tts/<sha256 of text>.mp3 and serves repeats from there.
type Cached struct {
	inner Synthesizer
	blobs storage.BlobStore
	log   *logger.Logger
}

// NewCached wraps inner. A nil inner makes every call fail with
// ErrUnavailable unless the clip is already stored.
func NewCached(inner Synthesizer, blobs storage.BlobStore, log *logger.Logger) *Cached {
	if log == nil {
		log = logger.Nop()
	}
	return &Cached{inner: inner, blobs: blobs, log: log}
}

func (c *Cached) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty text")
	}
	if len(text) > MaxInput {
		return nil, fmt.Errorf("text longer than %d bytes", MaxInput)
	}
	key := Key(text)
	if rc, err := c.blobs.Get(ctx, key); err == nil {
		defer rc.Close()
		return io.ReadAll(rc)
	} else if !errors.Is(err, storage.ErrNotFound) {
		c.log.Warn("audio cache read failed", "key", key, "error", err)
	}

	if c.inner == nil {
		return nil, ErrUnavailable
	}
	audio, err := c.inner.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	if _, err := c.blobs.Put(ctx, key, bytes.NewReader(audio)); err != nil {
		c.log.Warn("audio cache write failed", "key", key, "error", err)
	}
	return audio, nil
}

// Key is the blob key for text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "tts/" + hex.EncodeToString(sum[:]) + ".mp3"
}
