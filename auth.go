package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpiry        = 12 * time.Hour
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
	adminSubject     = "admin"
)

var (
	errAdminDisabled   = errors.New("admin api disabled")
	errBadCredentials  = errors.New("invalid password")
	errTooManyAttempts = errors.New("too many login attempts, try again later")
)

// AdminAuth guards the operator API with a bcrypt password and HS256 tokens
type AdminAuth struct {
	passHash  []byte
	jwtSecret []byte

	// Rate limiting for login attempts (IP -> attempts)
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAdminAuth creates the operator auth. An empty passHash disables login.
// The signing secret comes from secret, else the database, else is generated.
func NewAdminAuth(passHash, secret string, db *DB) *AdminAuth {
	key := []byte(secret)
	if len(key) == 0 {
		key = loadOrCreateSecret(db)
	}
	return &AdminAuth{
		passHash:  []byte(passHash),
		jwtSecret: key,
		rateMap:   make(map[string]*rateEntry),
	}
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist JWT secret: %v", err)
		}
	}
	return secret
}

// HashPassword returns a bcrypt hash suitable for RAMPAGE_ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

// Enabled reports whether an admin password is configured
func (a *AdminAuth) Enabled() bool {
	return len(a.passHash) > 0
}

// Login checks the password and returns a signed token
func (a *AdminAuth) Login(password, ip string) (string, error) {
	if !a.Enabled() {
		return "", errAdminDisabled
	}
	if !a.checkRate(ip) {
		return "", errTooManyAttempts
	}
	if err := bcrypt.CompareHashAndPassword(a.passHash, []byte(password)); err != nil {
		return "", errBadCredentials
	}
	return a.generateToken()
}

// ValidateToken validates an admin JWT
func (a *AdminAuth) ValidateToken(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid token")
	}
	if sub, _ := claims["sub"].(string); sub != adminSubject {
		return fmt.Errorf("invalid token claims")
	}
	return nil
}

func (a *AdminAuth) generateToken() (string, error) {
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"exp": time.Now().Add(jwtExpiry).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *AdminAuth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(loginRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxLoginAttempts
}

// Middleware rejects requests without a valid "Bearer" admin token
func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || a.ValidateToken(tokenStr) != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
