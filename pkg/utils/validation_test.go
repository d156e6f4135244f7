package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "https", raw: "https://example.com", want: "https://example.com"},
		{name: "trimmed", raw: "  http://example.com/path?q=1 \n", want: "http://example.com/path?q=1"},
		{name: "empty", raw: "", wantErr: ErrURLRequired},
		{name: "whitespace", raw: " \t ", wantErr: ErrURLRequired},
		{name: "no scheme", raw: "not-a-url", wantErr: ErrURLNotAbsolute},
		{name: "host only", raw: "example.com", wantErr: ErrURLNotAbsolute},
		{name: "scheme without host", raw: "mailto:someone", wantErr: ErrURLNotAbsolute},
		{name: "bad escape", raw: "http://exa mple.com/%zz", wantErr: ErrURLNotAbsolute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateURL(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab••23", MaskSecret("abc123"))
	assert.Equal(t, "•••", MaskSecret("abc"))
	assert.Equal(t, "", MaskSecret(""))
}
