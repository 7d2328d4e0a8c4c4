package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Prefixes for human-facing record codes.
const (
	CodePrefixPatient     = "PAT"
	CodePrefixDoctor      = "DOC"
	CodePrefixAppointment = "APT"
	CodePrefixLicense     = "LIC"
)

// NewCode builds a short display code: the prefix plus the first eight hex
// characters of a fresh UUID, uppercased.
func NewCode(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%s%s", prefix, strings.ToUpper(hex[:8]))
}
