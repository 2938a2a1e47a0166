package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/thuong-9/pydoan/internal/rbac"
)

const issuer = "roboenglish"

var ErrInvalidToken = errors.New("invalid token")

type AuthService struct {
	hmac      []byte
	adminUser string
	adminHash []byte
	now       func() time.Time
}

// NewAuthService signs tokens with secret. Teacher login is disabled when
// adminHash is empty.
func NewAuthService(secret, adminUser, adminHash string) *AuthService {
	return &AuthService{
		hmac:      []byte(secret),
		adminUser: adminUser,
		adminHash: []byte(adminHash),
		now:       time.Now,
	}
}

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // "learner" or "teacher"
	jwt.RegisteredClaims
}

func ttlFor(role string) time.Duration {
	if role == rbac.RoleLearner {
		return 30 * 24 * time.Hour
	}
	return 8 * time.Hour
}

func (a *AuthService) IssueJWT(sub, role string) (string, error) {
	now := a.now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttlFor(role))),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || c.Sub == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// CheckTeacher verifies the configured teacher credentials.
func (a *AuthService) CheckTeacher(username, password string) bool {
	if len(a.adminHash) == 0 || a.adminUser == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(a.adminUser)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.adminHash, []byte(password)) == nil
}

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if !a.CheckTeacher(strings.TrimSpace(req.Username), req.Password) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(strings.TrimSpace(req.Username), rbac.RoleTeacher)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok, "role": rbac.RoleTeacher})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	return strings.TrimSpace(tok), ok && strings.TrimSpace(tok) != ""
}

// OptionalJWT attaches subject and role when a bearer token is present.
// Anonymous requests pass through; a presented but invalid token is rejected.
func OptionalJWT(a *AuthService) func(http.Handler) http.Handler {
	return jwtMiddleware(a, false)
}

// RequireJWT rejects requests without a valid bearer token.
func RequireJWT(a *AuthService) func(http.Handler) http.Handler {
	return jwtMiddleware(a, true)
}

func jwtMiddleware(a *AuthService, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := bearer(r)
			if !ok {
				if required {
					http.Error(w, "missing bearer", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			c, err := a.Parse(tok)
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), c)))
		})
	}
}
