package transfer

import (
	"testing"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareLink(t *testing.T) {
	got, err := ShareLink("https://drop.example", "abc")
	require.NoError(t, err)
	assert.Equal(t, "https://drop.example?blobId=abc", got)

	got, err = ShareLink("https://drop.example/?lang=en", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "https://drop.example/?lang=en&blobIds=a,b", got)

	got, err = ShareLink("", "x-y_Z")
	require.NoError(t, err)
	assert.Equal(t, "?blobId=x-y_Z", got)

	_, err = ShareLink("https://drop.example")
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = ShareLink("", "a,b")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestParseShareLink(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{in: "https://drop.example?blobId=abc", want: []string{"abc"}},
		{in: "https://drop.example/?blobIds=a,%20b,,c", want: []string{"a", "b", "c"}},
		{in: "?blobIds=a&blobId=z", want: []string{"a"}},
		{in: "?blobIds=,&blobId=z", want: []string{"z"}},
		{in: "plainBlobId_123", want: []string{"plainBlobId_123"}},
		{in: "https://drop.example/other", wantErr: true},
		{in: "https://drop.example?x=1", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShareLink(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	link, err := ShareLink("https://drop.example", "one", "two")
	require.NoError(t, err)
	ids, err := ParseShareLink(link)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, ids)
}
