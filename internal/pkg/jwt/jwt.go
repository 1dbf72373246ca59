package jwt

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// Claims are the token fields the attendance core consumes. Token issuance
// and user management belong to the identity service; this package only
// verifies and reads.
type Claims struct {
	UserID    string
	CompanyID string
	Role      string
}

// IsAdmin reports whether the caller may perform administrative corrections.
func (c Claims) IsAdmin() bool {
	return c.Role == "admin" || c.Role == "manager"
}

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
}

type jwtService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewService(secretKey string) Service {
	return &jwtService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil),
	}
}

func (j *jwtService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// ClaimsFromContext extracts the verified claims placed in the request
// context by the jwtauth verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := raw["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	companyID, ok := raw["company_id"].(string)
	if !ok || companyID == "" {
		return Claims{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	role, _ := raw["role"].(string)

	return Claims{UserID: userID, CompanyID: companyID, Role: role}, nil
}
