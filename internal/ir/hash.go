package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainProgram separates program fingerprints from any other hash.
const DomainProgram = "vera/program/v" + IRVersion

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CanonicalForm returns the program as plain values ready for
// MarshalCanonical. Rules reference symbols by name, so two sources that
// differ only in whitespace produce the same form.
func (p *Program) CanonicalForm() map[string]any {
	rules := make([]any, len(p.Rules))
	for i, r := range p.Rules {
		rules[i] = map[string]any{
			"lhs": p.countsByName(r.LHS),
			"rhs": p.countsByName(r.RHS),
		}
	}
	return map[string]any{
		"delimiter": string(p.Delimiter),
		"symbols":   p.Symbols.Names(),
		"rules":     rules,
	}
}

func (p *Program) countsByName(m Multiset) map[string]int {
	out := make(map[string]int, m.Len())
	for _, t := range m.Terms() {
		out[p.Symbols.Name(t.Symbol)] = t.Count
	}
	return out
}

// Fingerprint returns a stable content hash of the program.
func (p *Program) Fingerprint() (string, error) {
	data, err := MarshalCanonical(p.CanonicalForm())
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, data), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the program is known to be well formed.
func (p *Program) MustFingerprint() string {
	fp, err := p.Fingerprint()
	if err != nil {
		panic(err)
	}
	return fp
}
