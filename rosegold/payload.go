package rosegold

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

// Encode packs the payload into a single base64 string laid out as
// seed || ciphertext || digest, for callers that want to store or transmit
// the payload as opaque text (for example as transaction metadata).
func (p Payload) Encode() string {
	combined := make([]byte, 0, len(p.Seed)+len(p.Ciphertext)+len(p.Digest))
	combined = append(combined, p.Seed...)
	combined = append(combined, p.Ciphertext...)
	combined = append(combined, p.Digest...)
	return base64.StdEncoding.EncodeToString(combined)
}

// DecodePayload reverses Encode. It fails only on malformed base64 or a
// payload too short to hold the seed and digest; integrity is Decrypt's job.
func DecodePayload(encoded string) (Payload, error) {
	combined, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, errors.Wrap(err, "decoding payload")
	}
	if len(combined) < seedSize+digestSize {
		return Payload{}, errors.Errorf("payload too short: %d bytes", len(combined))
	}

	return Payload{
		Seed:       combined[:seedSize],
		Ciphertext: combined[seedSize : len(combined)-digestSize],
		Digest:     combined[len(combined)-digestSize:],
	}, nil
}
