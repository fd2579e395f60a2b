package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainTree   = "deswitch/tree/v1"
	DomainModule = "deswitch/module/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TreeHash computes the content hash of the subtree rooted at n.
// Structurally equal trees hash equal regardless of node identity.
func TreeHash(n Node) (string, error) {
	canonical, err := MarshalCanonical(ToCanonical(n))
	if err != nil {
		return "", fmt.Errorf("TreeHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTree, canonical), nil
}

// ModuleHash computes the content hash of a whole module.
func ModuleHash(m *Module) (string, error) {
	canonical, err := MarshalCanonical(ModuleToCanonical(m))
	if err != nil {
		return "", fmt.Errorf("ModuleHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModule, canonical), nil
}

// MustTreeHash is like TreeHash but panics on error.
// Use only in tests or when the tree is known to be well formed.
func MustTreeHash(n Node) string {
	h, err := TreeHash(n)
	if err != nil {
		panic(err)
	}
	return h
}
