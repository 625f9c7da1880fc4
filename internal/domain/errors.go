package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaNotFound is returned when a network has no registered ingestion schema
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrUnknownItemType is returned when a row carries an item type this engine does not know
	ErrUnknownItemType = errors.New("unknown item type")

	// ErrConflictingSaleFilters is returned when both onlyListing and onlyMinting are requested
	ErrConflictingSaleFilters = errors.New("onlyListing and onlyMinting are mutually exclusive")
)

// SchemaNotFoundError reports the network whose schema could not be resolved
type SchemaNotFoundError struct {
	Network Network
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("no schema registered for network %s", e.Network)
}

func (e *SchemaNotFoundError) Is(target error) bool {
	return target == ErrSchemaNotFound
}

// UnknownItemTypeError reports an item whose type is not mappable
type UnknownItemTypeError struct {
	ItemType string
	ItemID   string
}

func (e *UnknownItemTypeError) Error() string {
	return fmt.Sprintf("unknown item type %q for item %s", e.ItemType, e.ItemID)
}

func (e *UnknownItemTypeError) Is(target error) bool {
	return target == ErrUnknownItemType
}
