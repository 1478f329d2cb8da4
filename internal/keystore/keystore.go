// Package keystore is the interface boundary to the external secret store
// that holds per-election ballot encryption keys. Keys pass through memory
// only; nothing here persists them.
package keystore

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the AES-256 key length used by the casting engine.
const KeySize = 32

// Provider resolves the symmetric encryption key for an election.
type Provider interface {
	Key(ctx context.Context, electionID uuid.UUID) ([]byte, error)
}

// DerivingProvider expands a master secret into per-election keys with
// HKDF-SHA256, using the election id as salt. In production the master secret
// comes from the external secret store; derivation keeps per-election keys
// out of configuration entirely.
type DerivingProvider struct {
	master []byte
}

func NewDerivingProvider(master string) (*DerivingProvider, error) {
	if master == "" {
		return nil, fmt.Errorf("keystore: master secret is required")
	}
	return &DerivingProvider{master: []byte(master)}, nil
}

func (p *DerivingProvider) Key(_ context.Context, electionID uuid.UUID) ([]byte, error) {
	r := hkdf.New(sha256.New, p.master, electionID[:], []byte("uvote ballot encryption v1"))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive election key: %w", err)
	}
	return key, nil
}
