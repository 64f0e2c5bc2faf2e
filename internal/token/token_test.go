package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestNew(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := New()
		require.NoError(t, err)
		assert.Len(t, tok, 43)
		assert.Regexp(t, `^[A-Za-z0-9_-]+$`, tok)
		seen[tok] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestNew_ReaderError(t *testing.T) {
	orig := reader
	reader = failingReader{}
	defer func() { reader = orig }()

	_, err := New()

	assert.ErrorContains(t, err, "entropy exhausted")
}
