package transfer

import "fmt"

// State is the tag of a transfer session's state machine.
//
// Upload:   Idle -> Encrypting (private only) -> Uploading -> Registering -> Complete
// Download: Idle -> FetchingMetadata -> FetchingBlob -> Decrypting (private only) -> Ready
//
// Any working state may move to Errored.
type State int

const (
	StateIdle State = iota
	StateEncrypting
	StateUploading
	StateRegistering
	StateComplete
	StateFetchingMetadata
	StateFetchingBlob
	StateDecrypting
	StateReady
	StateErrored
)

var stateNames = [...]string{
	StateIdle:             "idle",
	StateEncrypting:       "encrypting",
	StateUploading:        "uploading",
	StateRegistering:      "registering",
	StateComplete:         "complete",
	StateFetchingMetadata: "fetching_metadata",
	StateFetchingBlob:     "fetching_blob",
	StateDecrypting:       "decrypting",
	StateReady:            "ready",
	StateErrored:          "errored",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateReady || s == StateErrored
}

// Stage names the step of a transfer that failed.
type Stage string

const (
	StageValidate Stage = "validate"
	StageEncrypt  Stage = "encrypt"
	StageUpload   Stage = "upload"
	StageRegister Stage = "register"
	StageMetadata Stage = "metadata"
	StageExpired  Stage = "expired"
	StageAccess   Stage = "access"
	StageDownload Stage = "download"
	StageDecrypt  Stage = "decrypt"
)

// Mode selects whether an upload is encrypted for one recipient or stored in
// the clear.
type Mode int

const (
	ModePrivate Mode = iota
	ModePublic
)

func (m Mode) String() string {
	if m == ModePublic {
		return "public"
	}
	return "private"
}
