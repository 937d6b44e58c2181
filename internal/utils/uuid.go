package utils

import "github.com/google/uuid"

// RequestIDHeader is the header carrying the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// UUIDGenerator produces time-ordered request identifiers.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
