package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// JWTServiceImpl implements domain.TokenService with HS256 tokens carrying
// the user identity, an issuer/audience pair and an enforced typ claim.
type JWTServiceImpl struct {
	secretKey  []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a new JWT token service.
func NewJWTService(secret, issuer, audience string, accessTTL, refreshTTL time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey:  []byte(secret),
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type jwtClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func (j *JWTServiceImpl) issue(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        j.generateJTI(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// IssueAccessToken implements domain.TokenService
func (j *JWTServiceImpl) IssueAccessToken(user *domain.User) (string, error) {
	return j.issue(user, domain.TokenTypeAccess, j.accessTTL)
}

// IssueRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) IssueRefreshToken(user *domain.User) (string, error) {
	return j.issue(user, domain.TokenTypeRefresh, j.refreshTTL)
}

// VerifyAccessToken implements domain.TokenService
func (j *JWTServiceImpl) VerifyAccessToken(tokenString string) (*domain.TokenClaims, error) {
	return j.verify(tokenString, domain.TokenTypeAccess)
}

// VerifyRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) VerifyRefreshToken(tokenString string) (*domain.TokenClaims, error) {
	return j.verify(tokenString, domain.TokenTypeRefresh)
}

// AccessTTL implements domain.TokenService
func (j *JWTServiceImpl) AccessTTL() time.Duration {
	return j.accessTTL
}

func (j *JWTServiceImpl) verify(tokenString, wantType string) (*domain.TokenClaims, error) {
	var claims jwtClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return j.secretKey, nil
	}, jwt.WithIssuer(j.issuer), jwt.WithAudience(j.audience))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenInvalidIssuer),
			errors.Is(err, jwt.ErrTokenInvalidAudience),
			errors.Is(err, domain.ErrTokenInvalid):
			return nil, domain.ErrTokenInvalid
		default:
			return nil, domain.ErrTokenVerification
		}
	}

	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	// The typ marker is enforced, not advisory: an access token can never
	// stand in for a refresh token or vice versa.
	if claims.TokenType != wantType {
		return nil, domain.ErrTokenInvalid
	}

	result := &domain.TokenClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		TokenType: claims.TokenType,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Unix()
	}

	return result, nil
}

// ExtractBearer parses a "Bearer <token>" authorization header. A missing or
// malformed header is not an error; the caller decides whether it is fatal.
func ExtractBearer(authHeader string) (string, bool) {
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
