package upload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/pkg/upload"
)

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr  string
		bytes int64
	}{
		{"20B", 20},
		{"1KB", 1024},
		{"2 kb", 2048},
		{"1.5MB", 1572864},
		{"1GB", 1 << 30},
		{" 3tb ", 3 << 40},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			s, err := upload.ParseSize(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.bytes, s.Bytes())
		})
	}
}

func TestParseSize_Invalid(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"", "20", "MB", "-1KB", "1PB", "ten bytes", "8388608TB", "8388608.5TB", "99999999999TB"} {
		t.Run(expr, func(t *testing.T) {
			_, err := upload.ParseSize(expr)
			require.ErrorIs(t, err, upload.ErrInvalidSize)
		})
	}
}

func TestParseSize_LargestValid(t *testing.T) {
	t.Parallel()

	s, err := upload.ParseSize("8388607TB")
	require.NoError(t, err)
	assert.Equal(t, int64(8388607)<<40, s.Bytes())
	assert.Positive(t, s.Bytes())
}

func TestSize_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5MB", upload.MustParseSize("5MB").String())
	assert.Equal(t, "42B", upload.Bytes(42).String())
	assert.Panics(t, func() { upload.MustParseSize("huge") })
}
