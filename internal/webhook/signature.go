package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries the event signature.
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance bounds the age of a signed timestamp.
const DefaultTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("webhook: missing signature header")
	ErrMalformedHeader  = errors.New("webhook: malformed signature header")
	ErrBadSignature     = errors.New("webhook: signature mismatch")
	ErrExpired          = errors.New("webhook: timestamp outside tolerance")
)

// Sign returns the header value "t=<unix>,v1=<hex hmac>" for payload signed
// at ts. The MAC covers "<unix>.<payload>".
func Sign(secret string, payload []byte, ts time.Time) string {
	unix := ts.Unix()
	return fmt.Sprintf("t=%d,v1=%s", unix, hex.EncodeToString(mac(secret, unix, payload)))
}

// Verify checks header against payload. Any v1 entry may match. A
// tolerance of zero skips the timestamp age check.
func Verify(header string, payload []byte, secret string, tolerance time.Duration, now time.Time) error {
	if strings.TrimSpace(header) == "" {
		return ErrMissingSignature
	}

	var (
		unix    int64
		haveTS  bool
		digests [][]byte
	)
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrMalformedHeader
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad timestamp", ErrMalformedHeader)
			}
			unix, haveTS = n, true
		case "v1":
			d, err := hex.DecodeString(v)
			if err != nil {
				return fmt.Errorf("%w: bad v1 digest", ErrMalformedHeader)
			}
			digests = append(digests, d)
		}
	}
	if !haveTS || len(digests) == 0 {
		return ErrMalformedHeader
	}
	if tolerance > 0 {
		age := now.Sub(time.Unix(unix, 0))
		if age > tolerance || age < -tolerance {
			return ErrExpired
		}
	}

	want := mac(secret, unix, payload)
	for _, d := range digests {
		if hmac.Equal(d, want) {
			return nil
		}
	}
	return ErrBadSignature
}

func mac(secret string, unix int64, payload []byte) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(strconv.FormatInt(unix, 10)))
	_, _ = h.Write([]byte("."))
	_, _ = h.Write(payload)
	return h.Sum(nil)
}
