package models

import (
	"testing"

	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRecord_Validate(t *testing.T) {
	uploader := ledger.MustParseAddress("0x1")
	recipient := ledger.MustParseAddress("0x2")

	tests := []struct {
		name    string
		rec     FileRecord
		wantErr bool
	}{
		{"private ok", FileRecord{BlobID: "b", Uploader: uploader, Recipient: recipient}, false},
		{"public ok without recipient", FileRecord{BlobID: "b", Uploader: uploader, IsPublic: true}, false},
		{"no blob id", FileRecord{Uploader: uploader, Recipient: recipient}, true},
		{"no uploader", FileRecord{BlobID: "b", Recipient: recipient}, true},
		{"private without recipient", FileRecord{BlobID: "b", Uploader: uploader}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRecord)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFileRecord_IsExpired(t *testing.T) {
	assert.False(t, FileRecord{ExpiresAt: 0}.IsExpired(1000))
	assert.False(t, FileRecord{ExpiresAt: 11}.IsExpired(10))
	assert.True(t, FileRecord{ExpiresAt: 10}.IsExpired(10))
	assert.True(t, FileRecord{ExpiresAt: 9}.IsExpired(10))
}

func TestFileRecord_DisplayName(t *testing.T) {
	assert.Equal(t, "a.pdf", FileRecord{FileName: "a.pdf", BlobID: "xyz"}.DisplayName())
	assert.Equal(t, "walrus_file_abcdef", FileRecord{BlobID: "abcdefghij"}.DisplayName())
	assert.Equal(t, "walrus_file_ab", FileRecord{BlobID: "ab"}.DisplayName())
}

func TestFileRecord_UploadedTime(t *testing.T) {
	r := FileRecord{UploadedAt: 1_700_000_000_123}
	assert.Equal(t, int64(1_700_000_000_123), r.UploadedTime().UnixMilli())
}
