package transfer

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/gabriel-vasile/mimetype"
)

// OpenFile describes a local file for upload. The type comes from the
// extension, then from the content, then falls back to
// application/octet-stream.
func OpenFile(path string) (File, error) {
	st, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	if !st.Mode().IsRegular() {
		return File{}, fmt.Errorf("%w: %s is not a regular file", common.ErrValidation, path)
	}

	return File{
		Name: filepath.Base(path),
		Type: detectType(path),
		Size: st.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func detectType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	m, err := mimetype.DetectFile(path)
	if err != nil || m.Is("application/octet-stream") {
		return common.DefaultContentType
	}
	return m.String()
}
