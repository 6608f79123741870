package seal

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"golang.org/x/crypto/nacl/secretbox"
)

// Payload layout:
//
//	magic[8] | package[32] | identity[32] | n:u8 | n × share | nonce prefix[16] | blocks
//	share = idLen:u16 | id | keyLen:u16 | wrapped key
//
// Each block holds BlockSize plaintext bytes (the last one may be shorter or
// empty) sealed with secretbox. Block nonces are prefix || counter:u64 with
// the top counter bit set on the final block so truncation is detected.
const (
	BlockSize = 64 * 1024

	noncePrefixSize = 16
	finalBlockFlag  = uint64(1) << 63
	maxShares       = 255
)

var magic = [8]byte{'S', 'D', 'S', 'E', 'A', 'L', '0', '1'}

var errMalformed = errors.New("malformed payload")

// share is the data key wrapped for one key server.
type share struct {
	serverID string
	wrapped  []byte
}

type header struct {
	packageID   ledger.Address
	identity    ledger.Address
	shares      []share
	noncePrefix [noncePrefixSize]byte
}

func (h *header) marshal() ([]byte, error) {
	if len(h.shares) == 0 || len(h.shares) > maxShares {
		return nil, fmt.Errorf("share count %d out of range", len(h.shares))
	}
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.Write(h.packageID[:])
	buf.Write(h.identity[:])
	buf.WriteByte(byte(len(h.shares)))
	for _, s := range h.shares {
		if len(s.serverID) > 0xffff || len(s.wrapped) > 0xffff {
			return nil, errors.New("share too large")
		}
		_ = binary.Write(&buf, binary.BigEndian, uint16(len(s.serverID)))
		buf.WriteString(s.serverID)
		_ = binary.Write(&buf, binary.BigEndian, uint16(len(s.wrapped)))
		buf.Write(s.wrapped)
	}
	buf.Write(h.noncePrefix[:])
	return buf.Bytes(), nil
}

// parseHeader returns the header and the offset where blocks start.
func parseHeader(b []byte) (*header, int, error) {
	r := bytes.NewReader(b)
	var m [8]byte
	if _, err := io.ReadFull(r, m[:]); err != nil || m != magic {
		return nil, 0, fmt.Errorf("%w: bad magic", errMalformed)
	}

	h := &header{}
	if _, err := io.ReadFull(r, h.packageID[:]); err != nil {
		return nil, 0, fmt.Errorf("%w: package id", errMalformed)
	}
	if _, err := io.ReadFull(r, h.identity[:]); err != nil {
		return nil, 0, fmt.Errorf("%w: identity", errMalformed)
	}
	n, err := r.ReadByte()
	if err != nil || n == 0 {
		return nil, 0, fmt.Errorf("%w: share count", errMalformed)
	}
	for i := 0; i < int(n); i++ {
		id, err := readField(r)
		if err != nil {
			return nil, 0, err
		}
		wrapped, err := readField(r)
		if err != nil {
			return nil, 0, err
		}
		h.shares = append(h.shares, share{serverID: string(id), wrapped: wrapped})
	}
	if _, err := io.ReadFull(r, h.noncePrefix[:]); err != nil {
		return nil, 0, fmt.Errorf("%w: nonce", errMalformed)
	}
	return h, len(b) - r.Len(), nil
}

func readField(r *bytes.Reader) ([]byte, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, fmt.Errorf("%w: field length", errMalformed)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: field", errMalformed)
	}
	return b, nil
}

// PayloadIdentity reports the identity a payload is bound to without
// touching any key server.
func PayloadIdentity(payload []byte) (ledger.Address, error) {
	h, _, err := parseHeader(payload)
	if err != nil {
		return ledger.Address{}, err
	}
	return h.identity, nil
}

func blockNonce(prefix [noncePrefixSize]byte, counter uint64, final bool) *[24]byte {
	var n [24]byte
	copy(n[:], prefix[:])
	if final {
		counter |= finalBlockFlag
	}
	binary.BigEndian.PutUint64(n[noncePrefixSize:], counter)
	return &n
}

// sealBlocks encrypts r block by block into dst. checkpoint is called with the
// number of plaintext bytes consumed so far after every block.
func sealBlocks(dst *bytes.Buffer, r io.Reader, key *[32]byte, prefix [noncePrefixSize]byte, checkpoint func(consumed int64) error) error {
	br := bufio.NewReaderSize(r, BlockSize)
	chunk := make([]byte, BlockSize)
	out := make([]byte, 0, BlockSize+secretbox.Overhead)
	var consumed int64

	for counter := uint64(0); ; counter++ {
		if counter >= finalBlockFlag {
			return errors.New("input too large")
		}
		n, err := io.ReadFull(br, chunk)
		final := false
		switch {
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			final = true
		case err != nil:
			return err
		default:
			if _, perr := br.Peek(1); perr == io.EOF {
				final = true
			} else if perr != nil {
				return perr
			}
		}

		out = secretbox.Seal(out[:0], chunk[:n], blockNonce(prefix, counter, final), key)
		dst.Write(out)
		consumed += int64(n)

		if checkpoint != nil {
			if err := checkpoint(consumed); err != nil {
				return err
			}
		}
		if final {
			return nil
		}
	}
}

// openBlocks reverses sealBlocks. The body must end with exactly one final block.
func openBlocks(body []byte, key *[32]byte, prefix [noncePrefixSize]byte) ([]byte, error) {
	const sealedBlock = BlockSize + secretbox.Overhead

	plain := make([]byte, 0, max(len(body)-len(body)/sealedBlock*secretbox.Overhead, 0))
	for counter := uint64(0); ; counter++ {
		if len(body) < secretbox.Overhead {
			return nil, fmt.Errorf("%w: truncated", errMalformed)
		}
		final := len(body) <= sealedBlock
		size := min(len(body), sealedBlock)

		var ok bool
		plain, ok = secretbox.Open(plain, body[:size], blockNonce(prefix, counter, final), key)
		if !ok {
			return nil, fmt.Errorf("%w: block %d failed authentication", errMalformed, counter)
		}
		body = body[size:]
		if final {
			return plain, nil
		}
	}
}
