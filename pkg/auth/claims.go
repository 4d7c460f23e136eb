package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.StaffRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT presented by dashboard users.
type AccessTokenClaims struct {
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email,omitempty"`
	Role   enums.StaffRole `json:"role"`
	jwt.RegisteredClaims
}
