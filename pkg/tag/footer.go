// Package tag handles the checksum footer embedded in annotated tag
// messages and the verification verdict over a stored footer, a fresh
// digest, and the backend's signature check.
package tag

import (
	"regexp"
	"strings"
)

// Prefix selects which footer line Embed writes. Two prefixes exist in
// the wild; Extract accepts both no matter which one is configured.
type Prefix string

const (
	// PrefixCurrent is the interoperable footer prefix.
	PrefixCurrent Prefix = "Git-EVTag-v0-SHA512"

	// PrefixLegacy is the prefix written by the older Python port,
	// kept for compatibility with tags it produced.
	PrefixLegacy Prefix = "Git-EVTag-Py-v0-SHA512"
)

var knownPrefixes = []Prefix{PrefixCurrent, PrefixLegacy}

// Line renders the footer line for a digest.
func (p Prefix) Line(digest string) string {
	return string(p) + ": " + digest
}

var (
	footerLine = regexp.MustCompile(
		`(?m)^[ \t]*(?:Git-EVTag-v0-SHA512|Git-EVTag-Py-v0-SHA512): .*\n?`)
	signatureBlock = regexp.MustCompile(
		`(?s)\n?-----BEGIN PGP SIGNATURE-----.*?-----END PGP SIGNATURE-----\n?`)
)

// Extract returns the digest carried by the first footer line found in
// a tag message, or false when none is present.
func Extract(message string) (string, bool) {
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		for _, p := range knownPrefixes {
			if rest, ok := strings.CutPrefix(line, string(p)+": "); ok {
				return strings.TrimSpace(rest), true
			}
		}
	}
	return "", false
}

// Clean strips every known footer line and any PGP signature block from
// a tag message, so re-embedding never stacks stale footers.
func Clean(message string) string {
	message = signatureBlock.ReplaceAllString(message, "")
	return footerLine.ReplaceAllString(message, "")
}

// Embed returns base with exactly one footer: prior footers and
// signature blocks removed, trailing whitespace trimmed, then a blank
// line and the new footer appended.
func Embed(base, digest string, prefix Prefix) string {
	cleaned := strings.TrimRight(Clean(base), " \t\n")
	return cleaned + "\n\n" + prefix.Line(digest) + "\n"
}
