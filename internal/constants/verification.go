package constants

// VerificationReason explains the outcome of verifying a bill token.
type VerificationReason int

const (
	VerificationVerified VerificationReason = iota
	VerificationInvalidToken
	VerificationExpired
	VerificationNotFound
	VerificationMismatch
	VerificationClaimsMismatch
)

func (r VerificationReason) String() string {
	switch r {
	case VerificationVerified:
		return "Verified"
	case VerificationInvalidToken:
		return "InvalidToken"
	case VerificationExpired:
		return "Expired"
	case VerificationNotFound:
		return "NotFound"
	case VerificationMismatch:
		return "Mismatch"
	case VerificationClaimsMismatch:
		return "ClaimsMismatch"
	default:
		return "Unknown"
	}
}

// Message is the human readable text returned to clients.
func (r VerificationReason) Message() string {
	switch r {
	case VerificationVerified:
		return "Bill verified successfully"
	case VerificationInvalidToken:
		return "Invalid QR code"
	case VerificationExpired:
		return "QR code has expired"
	case VerificationNotFound:
		return "Bill not found in one or both databases"
	case VerificationMismatch:
		return "Bill details do not match"
	case VerificationClaimsMismatch:
		return "Bill details do not match the QR code"
	default:
		return "Unknown verification result"
	}
}

// MarshalText renders the reason by name in JSON bodies.
func (r VerificationReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
