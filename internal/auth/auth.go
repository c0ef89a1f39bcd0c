package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RoleCommittee = "committee"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

type Claims struct {
	MemberID  string   `json:"member_id"`
	UnitID    int64    `json:"unit_id"`
	CompanyID int64    `json:"company_id"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller's context. It is resolved once by
// the auth middleware and passed explicitly; handlers never reach for a
// globally-resolved current user.
type Identity struct {
	MemberID  uuid.UUID
	UnitID    int64
	CompanyID int64
	Roles     []string
}

func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (id Identity) IsMember(memberID uuid.UUID) bool {
	return id.MemberID == memberID
}

// HasMemberContext reports whether the token carried a full member/unit/
// company tenant context.
func (id Identity) HasMemberContext() bool {
	return id.MemberID != uuid.Nil && id.UnitID != 0 && id.CompanyID != 0
}

func CreateToken(secret string, id Identity, ttl time.Duration) (string, error) {
	claims := Claims{
		MemberID:  id.MemberID.String(),
		UnitID:    id.UnitID,
		CompanyID: id.CompanyID,
		Roles:     id.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (Identity, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return Identity{}, ErrTokenInvalid
	}

	var memberID uuid.UUID
	if claims.MemberID != "" {
		memberID, err = uuid.Parse(claims.MemberID)
		if err != nil {
			return Identity{}, ErrTokenInvalid
		}
	}

	return Identity{
		MemberID:  memberID,
		UnitID:    claims.UnitID,
		CompanyID: claims.CompanyID,
		Roles:     claims.Roles,
	}, nil
}
