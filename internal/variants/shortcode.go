package variants

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const (
	DefaultShortCodeLength      = 7
	DefaultShortCodeMaxAttempts = 8
	maxShortCodeLength          = 22
	base62Alphabet              = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// ShortCodeGenerator derives short codes for a variant. Attempt starts at zero
// and increases after every collision.
type ShortCodeGenerator func(variantID uuid.UUID, attempt int) string

// NewShortCodeGenerator returns a generator producing base62 codes of the
// given length from a hashid digest of the variant id and attempt number.
func NewShortCodeGenerator(length int) ShortCodeGenerator {
	if length <= 0 {
		length = DefaultShortCodeLength
	}
	if length > maxShortCodeLength {
		length = maxShortCodeLength
	}
	return func(variantID uuid.UUID, attempt int) string {
		key := "go-blog:short_code:" + variantID.String() + ":" + strconv.Itoa(attempt)
		digest, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
		if err != nil || digest == uuid.Nil {
			digest = uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
		}
		return encodeBase62(digest[:], length)
	}
}

// encodeBase62 maps bytes onto the base62 alphabet, consuming the input as a
// big-endian number, and returns exactly length characters.
func encodeBase62(input []byte, length int) string {
	digits := make([]byte, len(input))
	copy(digits, input)

	var out strings.Builder
	out.Grow(length)
	for out.Len() < length {
		remainder := 0
		allZero := true
		for i := range digits {
			acc := remainder*256 + int(digits[i])
			digits[i] = byte(acc / 62)
			remainder = acc % 62
			if digits[i] != 0 {
				allZero = false
			}
		}
		out.WriteByte(base62Alphabet[remainder])
		if allZero {
			for out.Len() < length {
				out.WriteByte(base62Alphabet[0])
			}
		}
	}
	return out.String()
}
