package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

// byteField decodes vector<u8> values, which the node renders as a number
// array. A plain string is taken as the blob id text itself.
type byteField []byte

func (b *byteField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = []byte(s)
		return nil
	}
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("vector<u8>: %w", err)
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return fmt.Errorf("vector<u8>: element %d out of range", i)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

// u64Field accepts u64 values rendered as strings or as JSON numbers.
type u64Field uint64

func (u *u64Field) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("u64: %w", err)
	}
	*u = u64Field(v)
	return nil
}

type uploadedEvent struct {
	BlobID     byteField `json:"blob_id"`
	Uploader   string    `json:"uploader"`
	Recipient  string    `json:"recipient"`
	FileName   string    `json:"file_name"`
	UploadedAt u64Field  `json:"uploaded_at"`
	IsPublic   bool      `json:"is_public"`
}

type recordFields struct {
	uploadedEvent
	FileType  string   `json:"file_type"`
	FileSize  u64Field `json:"file_size"`
	ExpiresAt u64Field `json:"expires_at"`
}

func (e uploadedEvent) record() (models.FileRecord, error) {
	rec := models.FileRecord{
		BlobID:     string(e.BlobID),
		FileName:   e.FileName,
		UploadedAt: uint64(e.UploadedAt),
		IsPublic:   e.IsPublic,
	}
	var err error
	if rec.Uploader, err = ledger.ParseAddress(e.Uploader); err != nil {
		return rec, fmt.Errorf("uploader: %w", err)
	}
	if e.Recipient != "" {
		if rec.Recipient, err = ledger.ParseAddress(e.Recipient); err != nil {
			return rec, fmt.Errorf("recipient: %w", err)
		}
	}
	return rec, nil
}

func recordFromEvent(ev ledger.Event) (models.FileRecord, error) {
	var e uploadedEvent
	if err := json.Unmarshal(ev.ParsedJSON, &e); err != nil {
		return models.FileRecord{}, err
	}
	rec, err := e.record()
	if err != nil {
		return rec, err
	}
	return rec, rec.Validate()
}

func recordFromObject(o ledger.Object) (models.FileRecord, error) {
	if o.Content == nil || o.Content.DataType != "moveObject" {
		return models.FileRecord{}, fmt.Errorf("object %s has no move content", o.ObjectID)
	}
	var f recordFields
	if err := json.Unmarshal(o.Content.Fields, &f); err != nil {
		return models.FileRecord{}, err
	}
	rec, err := f.record()
	if err != nil {
		return rec, err
	}
	rec.FileType = f.FileType
	rec.FileSize = uint64(f.FileSize)
	rec.ExpiresAt = uint64(f.ExpiresAt)
	rec.ObjectID = o.ObjectID
	rec.ObjectVersion = o.VersionNumber()
	return rec, rec.Validate()
}
