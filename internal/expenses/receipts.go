package expenses

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/entity"
)

// Upload is an uploaded receipt file. Content is read once.
type Upload struct {
	Filename string
	Content  io.Reader
}

// StagedReceipt is a receipt file already on disk whose row is not yet written.
type StagedReceipt struct {
	Receipt entity.Receipt
	Path    string
}

// ReceiptStore writes receipt files under a local upload root.
type ReceiptStore struct {
	dir       string
	urlPrefix string
	logger    *slog.Logger
}

// NewReceiptStore creates a store rooted at dir whose files are served under urlPrefix.
func NewReceiptStore(dir, urlPrefix string, logger *slog.Logger) *ReceiptStore {
	return &ReceiptStore{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		logger:    logger,
	}
}

// Stage checks the extension, writes the file under a random name and hashes it.
// Nothing is written when the extension is not accepted.
func (s *ReceiptStore) Stage(ctx context.Context, up Upload) (*StagedReceipt, error) {
	ext := constants.NormalizeExt(filepath.Ext(up.Filename))
	if ext == "" || !constants.AllowedExt(ext) {
		s.logger.Warn("rejected receipt upload", "filename", up.Filename, "ext", ext)
		return nil, &common.UnsupportedFormatError{Ext: ext}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Error("failed to create upload directory", "dir", s.dir, "error", err)
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	name := constants.ReceiptFilePrefix + strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	dst := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.logger.Error("failed to create receipt file", "path", dst, "error", err)
		return nil, fmt.Errorf("create receipt file: %w", err)
	}

	h := sha256.New()
	size, copyErr := io.Copy(io.MultiWriter(f, h), up.Content)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		s.logger.Error("failed to write receipt file", "path", dst, "error", err)
		s.remove(dst)
		return nil, fmt.Errorf("write receipt file: %w", err)
	}

	s.logger.Info("receipt staged", "path", dst, "size", size)
	return &StagedReceipt{
		Receipt: entity.Receipt{
			Kind:        constants.KindForExt(ext),
			URL:         path.Join(s.urlPrefix, name),
			Filename:    name,
			FileSize:    size,
			ContentHash: hex.EncodeToString(h.Sum(nil)),
			CreatedAt:   time.Now().UTC(),
		},
		Path: dst,
	}, nil
}

// Discard removes a staged file whose row was never committed.
func (s *ReceiptStore) Discard(st *StagedReceipt) {
	if st == nil {
		return
	}
	s.remove(st.Path)
}

func (s *ReceiptStore) remove(p string) {
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Error("failed to remove receipt file", "path", p, "error", err)
	}
}
