package core

import (
	"fmt"

	"github.com/google/uuid"
)

// IdentifierRegistry hands out unique ids and remembers which owner holds
// each one until it is released.
type IdentifierRegistry struct {
	owners map[uuid.UUID]interface{}
}

func NewIdentifierRegistry() *IdentifierRegistry {
	return &IdentifierRegistry{
		owners: make(map[uuid.UUID]interface{}),
	}
}

func (ir *IdentifierRegistry) AquireNewID(owner interface{}) uuid.UUID {
	id := uuid.New()
	ir.owners[id] = owner
	return id
}

// Track records an owner under an id that was generated elsewhere.
func (ir *IdentifierRegistry) Track(id uuid.UUID, owner interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("identifier_track: nil id: %w", ErrUnknownIdentifier)
	}
	if current, ok := ir.owners[id]; ok && current != owner {
		return fmt.Errorf("identifier_track: id '%s' already owned", id)
	}
	ir.owners[id] = owner
	return nil
}

func (ir *IdentifierRegistry) Owner(id uuid.UUID) (interface{}, bool) {
	owner, ok := ir.owners[id]
	return owner, ok
}

func (ir *IdentifierRegistry) ReleaseID(id uuid.UUID) error {
	if _, ok := ir.owners[id]; !ok {
		return fmt.Errorf("identifier_release_id: id '%s' was never acquired. Nothing was done: %w", id, ErrUnknownIdentifier)
	}
	delete(ir.owners, id)
	return nil
}

func (ir *IdentifierRegistry) Len() int {
	return len(ir.owners)
}
