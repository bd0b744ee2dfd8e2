// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// ErrNoSession is returned when an operation needs an authenticated
// session and none is available: a nil or token-less session passed to
// an API call, or a [Store] with nothing saved.
var ErrNoSession = errors.New("session: not logged in")

// Session is the token issued by the auth server, plus the account it
// belongs to when the server included one. The JSON shape matches the
// server's token-acquired response, so it decodes directly.
type Session struct {
	Token   string   `json:"token"`
	Account *Account `json:"account,omitempty"`
}

// Account is an authenticated qBiq user.
type Account struct {
	ID        uuid.UUID          `json:"id"`
	Email     string             `json:"email"`
	Flags     uint               `json:"flags"`
	CreatedAt int64              `json:"createdAt,omitempty"`
	Source    string             `json:"source,omitempty"`
	Meta      *AccountPublicMeta `json:"meta,omitempty"`
}

// AccountPublicMeta is the user-editable metadata stored on an account.
type AccountPublicMeta struct {
	FullName string `json:"fullName,omitempty"`
}

// AliasBrief is the server's summary of a newly registered address.
type AliasBrief struct {
	Address       string    `json:"address"`
	Account       uuid.UUID `json:"account"`
	Priority      int       `json:"priority"`
	Flags         uint      `json:"flags"`
	DefaultLocale string    `json:"defaultLocale,omitempty"`
}

// Authenticated reports whether s carries a token. A nil session is not
// authenticated.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Require returns ErrNoSession unless s carries a token.
func Require(s *Session) error {
	if !s.Authenticated() {
		return ErrNoSession
	}
	return nil
}

// UserID returns the account ID as a string, or "" when the account is
// not known yet (a session restored from disk before the first /me).
func (s *Session) UserID() string {
	if s == nil || s.Account == nil {
		return ""
	}
	return s.Account.ID.String()
}

// WithAccount returns a copy of s with the account replaced.
func (s *Session) WithAccount(account *Account) *Session {
	if s == nil {
		return nil
	}
	return &Session{Token: s.Token, Account: account}
}

// fingerprintKey is the BLAKE3 keyed-hash key for token fingerprints:
// the ASCII domain name, zero-padded to 32 bytes.
var fingerprintKey = [32]byte{
	'q', 'b', 'i', 'q', '.', 's', 'e', 's', 's', 'i', 'o', 'n', '.',
	'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i', 'n', 't',
}

// Fingerprint returns a short, stable, non-reversible identifier for the
// token: the first 8 bytes of its keyed BLAKE3 hash, hex encoded. Returns
// "" for an unauthenticated session.
func (s *Session) Fingerprint() string {
	if !s.Authenticated() {
		return ""
	}
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		// NewKeyed only fails for keys that are not 32 bytes.
		panic("session: " + err.Error())
	}
	hasher.Write([]byte(s.Token))
	digest := hasher.Sum(nil)
	return hex.EncodeToString(digest[:8])
}
