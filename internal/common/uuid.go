package common

import (
	"strings"

	"github.com/google/uuid"
)

type UUID string

func NewUUID() UUID {
	return UUID(uuid.NewString())
}

func ParseUUID(value string) (UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", NewError(CodeValidation, "invalid uuid", err)
	}
	return UUID(parsed.String()), nil
}

func (u UUID) String() string {
	return string(u)
}
