package models

import (
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

// Orphan is a blob that reached the store but whose registration failed.
// It keeps everything needed to build the registration again.
type Orphan struct {
	BlobID          string
	SessionID       string
	Uploader        ledger.Address
	Recipient       ledger.Address
	FileName        string
	FileType        string
	FileSize        uint64
	RetentionEpochs uint64
	IsPublic        bool
	Reason          string
	CreatedAt       time.Time
}
