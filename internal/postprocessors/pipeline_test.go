package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingProcessor always returns an error.
type failingProcessor struct{}

func (failingProcessor) Name() string { return "failing" }
func (failingProcessor) Process(_ context.Context, _ string) (string, error) {
	return "", errors.New("boom")
}

// upperProcessor marks that it ran by appending a suffix.
type suffixProcessor struct{ suffix string }

func (p suffixProcessor) Name() string { return "suffix" }
func (p suffixProcessor) Process(_ context.Context, text string) (string, error) {
	return text + p.suffix, nil
}

func TestPipeline_Process(t *testing.T) {
	t.Run("runs processors in order", func(t *testing.T) {
		pipeline := NewPipeline(suffixProcessor{suffix: "-a"}, suffixProcessor{suffix: "-b"})

		out, err := pipeline.Process(context.Background(), "x")

		require.NoError(t, err)
		assert.Equal(t, "x-a-b", out)
	})

	t.Run("empty pipeline passes text through", func(t *testing.T) {
		pipeline := NewPipeline()

		out, err := pipeline.Process(context.Background(), "unchanged")

		require.NoError(t, err)
		assert.Equal(t, "unchanged", out)
	})

	t.Run("wraps processor errors with the processor name", func(t *testing.T) {
		pipeline := NewPipeline(failingProcessor{})

		_, err := pipeline.Process(context.Background(), "x")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failing")
	})
}

func TestNewDefaultPipeline(t *testing.T) {
	t.Run("contains the standard chain", func(t *testing.T) {
		pipeline := NewDefaultPipeline()

		assert.Equal(t, 3, pipeline.Len())
	})

	t.Run("normalises messy extracted text", func(t *testing.T) {
		pipeline := NewDefaultPipeline()

		out, err := pipeline.Process(context.Background(), "  hello\t\tworld \r\n\r\n next\x00 line  ")

		require.NoError(t, err)
		assert.Equal(t, "hello world\nnext line", out)
	})

	t.Run("is idempotent", func(t *testing.T) {
		pipeline := NewDefaultPipeline()
		ctx := context.Background()

		once, err := pipeline.Process(ctx, "á  b \n\n c")
		require.NoError(t, err)
		twice, err := pipeline.Process(ctx, once)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	})
}
