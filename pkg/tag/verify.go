package tag

import "fmt"

// Outcome is the four-way verification result: the digest comparison
// crossed with the backend's signature check. A mismatch is reported,
// never silently degraded into success.
type Outcome int

const (
	// Neither: digest mismatch and failed signature check.
	Neither Outcome = iota
	// ChecksumOnly: digests match but the signature check failed.
	ChecksumOnly
	// SignatureOnly: signature is valid but the digests differ.
	SignatureOnly
	// Verified: digests match and the signature is valid.
	Verified
)

// Judge combines a stored digest, a freshly computed digest, and the
// externally obtained signature validity into an Outcome.
func Judge(stored, computed string, signatureValid bool) Outcome {
	matched := stored == computed
	switch {
	case matched && signatureValid:
		return Verified
	case matched:
		return ChecksumOnly
	case signatureValid:
		return SignatureOnly
	default:
		return Neither
	}
}

// Ok reports whether the outcome counts as a successful verification.
func (o Outcome) Ok() bool {
	return o == Verified
}

func (o Outcome) String() string {
	switch o {
	case Verified:
		return "verified"
	case ChecksumOnly:
		return "checksum-only"
	case SignatureOnly:
		return "signature-only"
	default:
		return "neither"
	}
}

// Report renders the operator-facing verdict for a tag. Both digest
// values are included whenever they differ.
func (o Outcome) Report(tagName, stored, computed string) string {
	switch o {
	case Verified:
		return fmt.Sprintf("checksum and signature verified for tag %q", tagName)
	case ChecksumOnly:
		return fmt.Sprintf("checksum verified for tag %q, but the signature check failed", tagName)
	case SignatureOnly:
		return fmt.Sprintf(
			"signature verified for tag %q, but the checksum does not match\nstored:   %s\ncomputed: %s",
			tagName, stored, computed)
	default:
		return fmt.Sprintf(
			"both the checksum and the signature check failed for tag %q\nstored:   %s\ncomputed: %s",
			tagName, stored, computed)
	}
}
