package transfer

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/google/uuid"
)

// File is one local file queued for upload. Open is called once, when the
// file's turn comes.
type File struct {
	Name string
	Type string
	Size int64
	Open func() (io.ReadCloser, error)
}

// BytesFile wraps in-memory content as a File.
func BytesFile(name, fileType string, data []byte) File {
	return File{
		Name: name,
		Type: fileType,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Progress is a snapshot of a session handed to ProgressFunc.
type Progress struct {
	SessionID        string
	State            State
	FileIndex        int
	FileCount        int
	FileName         string
	FilePercent      int
	BatchPercent     int
	SecondsRemaining int
}

// Status renders the snapshot for humans.
func (p Progress) Status() string {
	switch p.State {
	case StateIdle:
		return "Waiting"
	case StateEncrypting:
		return fmt.Sprintf("Encrypting file %d of %d (%s)", p.FileIndex+1, p.FileCount, p.FileName)
	case StateUploading:
		s := fmt.Sprintf("Uploading file %d of %d (%s): %d%%", p.FileIndex+1, p.FileCount, p.FileName, p.FilePercent)
		if p.SecondsRemaining > 0 {
			s += fmt.Sprintf(", %ds left", p.SecondsRemaining)
		}
		return s
	case StateRegistering:
		if p.FileCount == 1 {
			return "Registering file"
		}
		return fmt.Sprintf("Registering %d files", p.FileCount)
	case StateComplete:
		return "Upload complete"
	case StateFetchingMetadata:
		return "Fetching file metadata"
	case StateFetchingBlob:
		return fmt.Sprintf("Downloading %s: %d%%", p.FileName, p.FilePercent)
	case StateDecrypting:
		return fmt.Sprintf("Decrypting %s", p.FileName)
	case StateReady:
		return "Download ready"
	case StateErrored:
		return "Failed"
	}
	return p.State.String()
}

// ProgressFunc receives session snapshots. It runs on the session's goroutine
// and must return promptly.
type ProgressFunc func(Progress)

// Session is the state of one upload or download operation. It is created
// by the orchestrator per call and discarded when the call returns.
//
// Blob store callbacks may arrive from transport goroutines, so updates are
// serialized by mu. ProgressFunc is invoked with mu held.
type Session struct {
	mu sync.Mutex

	id        string
	files     []File
	mode      Mode
	recipient ledger.Address

	state            State
	current          int
	filePercent      []int
	batchPercent     int
	secondsRemaining int

	onProgress ProgressFunc
}

func newSession(files []File, mode Mode, recipient ledger.Address, onProgress ProgressFunc) *Session {
	return &Session{
		id:          uuid.NewString(),
		files:       files,
		mode:        mode,
		recipient:   recipient,
		state:       StateIdle,
		filePercent: make([]int, len(files)),
		onProgress:  onProgress,
	}
}

func (s *Session) ID() string                { return s.id }
func (s *Session) Files() []File             { return s.files }
func (s *Session) Mode() Mode                { return s.mode }
func (s *Session) Recipient() ledger.Address { return s.recipient }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Progress {
	p := Progress{
		SessionID:        s.id,
		State:            s.state,
		FileIndex:        s.current,
		FileCount:        len(s.files),
		BatchPercent:     s.batchPercent,
		SecondsRemaining: s.secondsRemaining,
	}
	if s.current < len(s.files) {
		p.FileName = s.files[s.current].Name
		p.FilePercent = s.filePercent[s.current]
	}
	return p
}

func (s *Session) emit() {
	if s.onProgress != nil {
		s.onProgress(s.snapshot())
	}
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == to || s.state.Terminal() {
		return
	}
	s.state = to
	if to == StateComplete || to == StateReady {
		for i := range s.filePercent {
			s.filePercent[i] = 100
		}
		s.batchPercent = 100
		s.secondsRemaining = 0
	}
	s.emit()
}

// selectFile makes idx the current file.
func (s *Session) selectFile(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = idx
	s.secondsRemaining = 0
}

// advance records percent for the current file. Neither the file nor the
// batch percentage ever moves backwards.
func (s *Session) advance(percent, secondsRemaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	percent = min(max(percent, 0), 100)
	if percent < s.filePercent[s.current] {
		percent = s.filePercent[s.current]
	}
	changed := percent != s.filePercent[s.current] || secondsRemaining != s.secondsRemaining
	s.filePercent[s.current] = percent
	s.secondsRemaining = secondsRemaining

	total := 0
	for _, p := range s.filePercent {
		total += p
	}
	if batch := total / len(s.filePercent); batch > s.batchPercent {
		s.batchPercent = batch
		changed = true
	}
	if changed {
		s.emit()
	}
}
