package inventory

import (
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
)

// MovementType classifies a stock change
type MovementType string

const (
	MovementAdjust  MovementType = "ADJUST"
	MovementReserve MovementType = "RESERVE"
	MovementRelease MovementType = "RELEASE"
	MovementConsume MovementType = "CONSUME"
)

// Movement is an append-only record of a stock change.
type Movement struct {
	shared.BaseEntity
	ProductID     uuid.UUID
	Type          MovementType
	Quantity      int
	OnHandAfter   int
	ReservedAfter int
	OrderID       *uuid.UUID
	Note          string
}
