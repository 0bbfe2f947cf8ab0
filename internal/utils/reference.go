package utils

import (
	"strings"

	"github.com/google/uuid"
)

// referenceAlphabet holds the characters used in booking references.
// Uppercase letters and digits only, so references survive being read
// over the phone or typed from a confirmation email.
const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// referenceLength is the number of characters in a booking reference.
const referenceLength = 10

// NewBookingReference generates a random booking reference such as
// "K7QX2M91BD".  References are shown to customers and used for
// lookups, so they carry no embedded meaning.  Uniqueness is enforced
// by the database column; the 36^10 space makes collisions a
// non-event.
func NewBookingReference() string {
	id := uuid.New()
	var sb strings.Builder
	sb.Grow(referenceLength)
	for i := 0; i < referenceLength; i++ {
		sb.WriteByte(referenceAlphabet[int(id[i])%len(referenceAlphabet)])
	}
	return sb.String()
}
