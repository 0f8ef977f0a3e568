package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mind-engage/student-submissions/internal/exam"
)

// TokenTTL is the fixed lifetime of an access token.
const TokenTTL = 30 * time.Minute

const issuer = "student-submissions"

var ErrUnauthenticated = errors.New("invalid or expired token")

const msgCouldNotValidate = "Could not validate credentials"

type AuthService struct {
	hmac []byte
	now  func() time.Time
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{hmac: []byte(secret), now: time.Now}
}

// IssueJWT signs a token whose subject is the user id.
func (a *AuthService) IssueJWT(userID string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.hmac)
}

// Parse validates tokenStr and returns its subject.
func (a *AuthService) Parse(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrUnauthenticated
	}
	if claims.Subject == "" {
		return "", ErrUnauthenticated
	}
	return claims.Subject, nil
}

// UserFinder resolves a login (user_id or user_name) to a user.
type UserFinder interface {
	FindUser(ctx context.Context, login string) (exam.User, error)
}

// POST /auth/login  { "username": "...", "password": "..." }
// username may be the user_id or the user_name; password is compared as
// stored, the client has already hashed it.
func LoginHandler(a *AuthService, users UserFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		u, err := users.FindUser(r.Context(), req.Username)
		if err != nil && !errors.Is(err, exam.ErrUserNotFound) {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err != nil || u.HashedPassword != req.Password {
			challenge(w, "Incorrect username or password")
			return
		}
		tok, err := a.IssueJWT(u.UserID)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "issue token")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok, "token_type": "bearer"})
	}
}

// JWTMiddleware authenticates the bearer token, loads the caller and puts
// it on the request context. Inactive callers are rejected with 400.
func JWTMiddleware(a *AuthService, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				challenge(w, "Not authenticated")
				return
			}
			sub, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				challenge(w, msgCouldNotValidate)
				return
			}
			u, err := users.FindUser(r.Context(), sub)
			if err != nil {
				if errors.Is(err, exam.ErrUserNotFound) {
					challenge(w, msgCouldNotValidate)
					return
				}
				writeDetail(w, http.StatusInternalServerError, err.Error())
				return
			}
			if !u.IsActive {
				writeDetail(w, http.StatusBadRequest, "Inactive user")
				return
			}
			ctx := WithSubject(r.Context(), u.UserID)
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, u)))
		})
	}
}

func challenge(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, msg)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
