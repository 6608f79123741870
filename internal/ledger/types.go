package ledger

import (
	"encoding/json"
	"strconv"
)

// EventID identifies an event by transaction digest and sequence.
type EventID struct {
	TxDigest string `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

// Event is an emitted Move event as returned by suix_queryEvents.
type Event struct {
	ID          EventID         `json:"id"`
	PackageID   string          `json:"packageId"`
	Module      string          `json:"transactionModule"`
	Sender      string          `json:"sender"`
	Type        string          `json:"type"`
	ParsedJSON  json.RawMessage `json:"parsedJson"`
	TimestampMs string          `json:"timestampMs"`
}

type eventPage struct {
	Data        []Event  `json:"data"`
	NextCursor  *EventID `json:"nextCursor"`
	HasNextPage bool     `json:"hasNextPage"`
}

// MoveContent is the parsed content of a Move object.
type MoveContent struct {
	DataType string          `json:"dataType"`
	Type     string          `json:"type"`
	Fields   json.RawMessage `json:"fields"`
}

// Object is the data part of an object response.
type Object struct {
	ObjectID string       `json:"objectId"`
	Version  string       `json:"version"`
	Digest   string       `json:"digest"`
	Type     string       `json:"type"`
	Content  *MoveContent `json:"content"`
}

// VersionNumber parses Version, returning 0 when it is not a number.
func (o Object) VersionNumber() uint64 {
	v, err := strconv.ParseUint(o.Version, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

type objectResponse struct {
	Data  *Object `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type objectPage struct {
	Data        []objectResponse `json:"data"`
	NextCursor  *string          `json:"nextCursor"`
	HasNextPage bool             `json:"hasNextPage"`
}

// ObjectChange is one entry of a transaction's objectChanges.
type ObjectChange struct {
	Type       string `json:"type"`
	ObjectID   string `json:"objectId"`
	ObjectType string `json:"objectType"`
	Version    string `json:"version"`
}

type transactionBlock struct {
	Digest        string         `json:"digest"`
	ObjectChanges []ObjectChange `json:"objectChanges"`
	Effects       *struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"status"`
	} `json:"effects"`
}

type systemState struct {
	Epoch string `json:"epoch"`
}

type txBytesResponse struct {
	TxBytes string `json:"txBytes"`
}

// ExecutionResult summarizes an executed transaction.
type ExecutionResult struct {
	Digest        string
	ObjectChanges []ObjectChange
}
