package auth

import "github.com/google/uuid"

// UUIDGenerator implements the identifier collaborator for address and
// social-account sub-records.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() string { return uuid.NewString() }
