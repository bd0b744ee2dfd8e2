// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"

	"github.com/ubiqweus/qbiq-client/lib/codec"
)

// storeVersion is written into every session file. Load rejects files
// with a newer version rather than guessing at their layout.
const storeVersion = 1

// ageHeader is the first line of every binary age file.
const ageHeader = "age-encryption.org/"

// storedSession is the on-disk record. Account uses its json tags
// through the CBOR json-tag fallback.
type storedSession struct {
	Version int       `cbor:"version"`
	Token   string    `cbor:"token"`
	Account *Account  `cbor:"account,omitempty"`
	SavedAt time.Time `cbor:"savedAt"`
}

// StoreConfig configures a [Store].
type StoreConfig struct {
	// Path is the session file. Required. Its directory is created on
	// first Save with mode 0700.
	Path string

	// Identity, when set, seals the file with age to the identity's
	// X25519 recipient. A sealed file cannot be read without it.
	Identity *age.X25519Identity
}

// Store persists one session to a file. Saves are atomic: the file is
// written to a temporary sibling and renamed into place.
type Store struct {
	path     string
	identity *age.X25519Identity
}

// NewStore returns a store for the given configuration.
func NewStore(config StoreConfig) (*Store, error) {
	if config.Path == "" {
		return nil, errors.New("session: store path is required")
	}
	return &Store{path: config.Path, identity: config.Identity}, nil
}

// Path returns the session file path.
func (store *Store) Path() string {
	return store.path
}

// Sealed reports whether the store encrypts its file.
func (store *Store) Sealed() bool {
	return store.identity != nil
}

// Save writes session to the store, replacing any previous one. An
// unauthenticated session is rejected.
func (store *Store) Save(session *Session) error {
	if err := Require(session); err != nil {
		return err
	}

	data, err := codec.Marshal(storedSession{
		Version: storeVersion,
		Token:   session.Token,
		Account: session.Account,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("session: encoding: %w", err)
	}

	if store.identity != nil {
		data, err = seal(data, store.identity.Recipient())
		if err != nil {
			return err
		}
	}

	directory := filepath.Dir(store.path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("session: creating %s: %w", directory, err)
	}

	temporary, err := os.CreateTemp(directory, ".session-*")
	if err != nil {
		return fmt.Errorf("session: creating temporary file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("session: writing %s: %w", temporaryPath, err)
	}
	if err := temporary.Chmod(0o600); err != nil {
		temporary.Close()
		return fmt.Errorf("session: chmod %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("session: closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, store.path); err != nil {
		return fmt.Errorf("session: replacing %s: %w", store.path, err)
	}
	return nil
}

// Load reads the saved session. Returns ErrNoSession when nothing has
// been saved.
func (store *Store) Load() (*Session, error) {
	data, err := store.ReadRaw()
	if err != nil {
		return nil, err
	}

	var stored storedSession
	if err := codec.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("session: decoding %s: %w", store.path, err)
	}
	if stored.Version > storeVersion {
		return nil, fmt.Errorf("session: %s has version %d, this client understands up to %d",
			store.path, stored.Version, storeVersion)
	}
	if stored.Token == "" {
		return nil, ErrNoSession
	}
	return &Session{Token: stored.Token, Account: stored.Account}, nil
}

// ReadRaw returns the stored CBOR record, unsealed if necessary.
func (store *Store) ReadRaw() ([]byte, error) {
	data, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session: reading %s: %w", store.path, err)
	}

	isSealed := bytes.HasPrefix(data, []byte(ageHeader))
	switch {
	case isSealed && store.identity == nil:
		return nil, fmt.Errorf("session: %s is sealed and no session key is configured", store.path)
	case isSealed:
		return unseal(data, store.identity)
	case store.identity != nil:
		return nil, fmt.Errorf("session: %s is not sealed but a session key is configured; log in again", store.path)
	}
	return data, nil
}

// Clear removes the saved session. Clearing an empty store succeeds.
func (store *Store) Clear() error {
	err := os.Remove(store.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: removing %s: %w", store.path, err)
	}
	return nil
}

func seal(plaintext []byte, recipient age.Recipient) ([]byte, error) {
	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return nil, fmt.Errorf("session: creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("session: sealing: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("session: finalizing seal: %w", err)
	}
	return ciphertext.Bytes(), nil
}

func unseal(ciphertext []byte, identity age.Identity) ([]byte, error) {
	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("session: unsealing: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("session: reading unsealed data: %w", err)
	}
	return plaintext, nil
}

// LoadIdentity reads an age X25519 identity from a key file in the
// format written by age-keygen (comment lines starting with "#" are
// ignored).
func LoadIdentity(path string) (*age.X25519Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: reading key file: %w", err)
	}
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		identity, err := age.ParseX25519Identity(line)
		if err != nil {
			return nil, fmt.Errorf("session: parsing key file %s: %w", path, err)
		}
		return identity, nil
	}
	return nil, fmt.Errorf("session: key file %s contains no identity", path)
}

// LoadOrCreateIdentity loads the identity at path, generating and
// writing a new one (mode 0600) if the file does not exist.
func LoadOrCreateIdentity(path string) (*age.X25519Identity, error) {
	identity, err := LoadIdentity(path)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	identity, err = age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("session: generating key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("session: creating key directory: %w", err)
	}
	contents := fmt.Sprintf("# created: %s\n# public key: %s\n%s\n",
		time.Now().UTC().Format(time.RFC3339), identity.Recipient(), identity)
	// O_EXCL so two processes racing here cannot overwrite each other's key.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return LoadIdentity(path)
		}
		return nil, fmt.Errorf("session: creating key file: %w", err)
	}
	if _, err := file.WriteString(contents); err != nil {
		file.Close()
		return nil, fmt.Errorf("session: writing key file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("session: closing key file: %w", err)
	}
	return identity, nil
}
