package portal

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"vatkhata/internal/domain"
)

// TemplateService downloads report templates and verifies them against their
// published checksums. Purchase and sales templates come from CBMS behind
// token auth; the ledger template is public on the taxpayer portal.
type TemplateService struct {
	cbms   *Client
	portal *Client
	auth   Authenticator
	hashes map[string]string

	// Keep a local copy of fetched templates when saveDir is set.
	saveDir string
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(cbms, portal *Client, auth Authenticator, hashes map[string]string, saveDir string) *TemplateService {
	return &TemplateService{
		cbms:    cbms,
		portal:  portal,
		auth:    auth,
		hashes:  hashes,
		saveDir: saveDir,
	}
}

// Get downloads the book's template and returns its bytes. Content is
// untrusted until the MD5 matches the registered checksum; a mismatch is a
// hard failure, never a fallback.
func (s *TemplateService) Get(ctx context.Context, book domain.Book) ([]byte, error) {
	want, ok := s.hashes[book.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrBookHashNotFound, book.Name)
	}

	var (
		data []byte
		err  error
	)
	if book.Name == domain.BookLedger {
		data, err = s.portal.Get(ctx, book.TemplateEndpoint, nil)
	} else {
		data, err = s.cbms.Get(ctx, book.TemplateEndpoint, s.auth)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s template: %w", book.Name, err)
	}

	sum := md5.Sum(data)
	got := hex.EncodeToString(sum[:])
	if got != want {
		return nil, fmt.Errorf("%w: %s template, expected %s got %s", domain.ErrTemplateIntegrity, book.Name, want, got)
	}

	if s.saveDir != "" {
		if err := s.saveLocal(book, data); err != nil {
			log.Warn().Err(err).Str("book", book.Name).Msg("Could not save template copy")
		}
	}

	return data, nil
}

func (s *TemplateService) saveLocal(book domain.Book, data []byte) error {
	ext := ".xlsx"
	if book.Name == domain.BookLedger {
		ext = ".xls"
	}
	if err := os.MkdirAll(s.saveDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.saveDir, book.Name+ext)
	log.Info().Str("path", path).Msg("Saving template copy")
	return os.WriteFile(path, data, 0o644)
}
