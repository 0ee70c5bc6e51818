package credentials

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keyFile    = "key"
	sealedFile = "credentials.enc"
	keySize    = 32
	nonceSize  = 24
)

// FileStore keeps credentials sealed with NaCl secretbox under a per-install random key.
//
// The key lives next to the sealed file, so anyone who can read the directory
// can decrypt it. The sealing detects tampering and keeps the password out of
// plain view; secrecy at rest rests on the 0700 directory and 0600 file
// permissions, not on a hardware-backed keystore.
type FileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(logger zerolog.Logger, dir string) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

// Dir returns the store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Get opens the sealed credentials. A store that was never written yields nil.
func (s *FileStore) Get(_ context.Context) (*models.Credentials, error) {
	sealed, err := os.ReadFile(filepath.Join(s.dir, sealedFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	key, err := s.readKey()
	if err != nil {
		return nil, err
	}

	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrCorrupt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrCorrupt
	}

	var creds models.Credentials
	if err := json.Unmarshal(plain, &creds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return &creds, nil
}

// Put seals and stores creds, creating the key on first use.
func (s *FileStore) Put(_ context.Context, creds models.Credentials) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	key, err := s.readKey()
	if errors.Is(err, fs.ErrNotExist) {
		key, err = s.createKey()
	}
	if err != nil {
		return err
	}

	plain, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], plain, &nonce, key)
	if err := writeFileAtomic(filepath.Join(s.dir, sealedFile), sealed); err != nil {
		return err
	}

	s.logger.Info().Str("dir", s.dir).Str("username", creds.Username).Msg("credentials stored")
	return nil
}

// Clear removes stored credentials. The key is kept.
func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(filepath.Join(s.dir, sealedFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing credentials: %w", err)
	}

	s.logger.Info().Str("dir", s.dir).Msg("credentials cleared")
	return nil
}

func (s *FileStore) readKey() (*[keySize]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, keyFile))
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}
	if len(raw) != keySize {
		return nil, fmt.Errorf("%w: key has %d bytes", ErrCorrupt, len(raw))
	}

	var key [keySize]byte
	copy(key[:], raw)
	return &key, nil
}

func (s *FileStore) createKey() (*[keySize]byte, error) {
	var key [keySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(s.dir, keyFile), key[:]); err != nil {
		return nil, err
	}

	return &key, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
