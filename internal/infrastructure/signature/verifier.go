package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/craftlane/settlement-service/internal/domain"
)

// Verifier checks the processor's event signatures. The header format is
// "t=<unix>,v1=<hex hmac>", where the MAC covers "<unix>.<raw body>". The
// timestamp bound keeps a captured signature from being replayed later.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	return &Verifier{
		secret:    []byte(secret),
		tolerance: tolerance,
		now:       time.Now,
	}
}

func (v *Verifier) Verify(rawBody []byte, header string) error {
	timestamp, mac, err := parseHeader(header)
	if err != nil {
		return err
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return domain.ErrInvalidSignature
	}

	expected := Sign(v.secret, timestamp, rawBody)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign computes the hex MAC for a timestamped body. Exposed so tests and the
// local event simulator can produce valid headers.
func Sign(secret []byte, timestamp int64, rawBody []byte) string {
	h := hmac.New(sha256.New, secret)
	fmt.Fprintf(h, "%d.", timestamp)
	h.Write(rawBody)
	return hex.EncodeToString(h.Sum(nil))
}

func parseHeader(header string) (timestamp int64, mac string, err error) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp, err = strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, "", domain.ErrInvalidSignature
			}
		case "v1":
			mac = value
		}
	}
	if timestamp == 0 || mac == "" {
		return 0, "", domain.ErrInvalidSignature
	}
	return timestamp, mac, nil
}
