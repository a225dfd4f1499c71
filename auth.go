package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL  = 24 * time.Hour
	bcryptCost       = 12
	spectatorScope   = "spectate"
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidPassword = errors.New("invalid password")
	ErrRateLimited     = errors.New("too many login attempts, try again later")
	ErrLoginDisabled   = errors.New("password login is not configured")
)

// Auth issues and checks spectator tokens
type Auth struct {
	secret       []byte
	passwordHash []byte
	ttl          time.Duration

	rateMu    sync.Mutex
	rateMap   map[string]*rateEntry
	lastPrune time.Time
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth returns nil when secret is empty, meaning spectating is open
func NewAuth(secret, passwordHash string, ttl time.Duration) *Auth {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Auth{
		secret:       []byte(secret),
		passwordHash: []byte(passwordHash),
		ttl:          ttl,
		rateMap:      make(map[string]*rateEntry),
	}
}

// IssueToken signs a spectator token for subject
func (a *Auth) IssueToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": spectatorScope,
		"iat":   now.Unix(),
		"exp":   now.Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken checks signature, expiry and scope and returns the subject
func (a *Auth) ValidateToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if scope, _ := claims["scope"].(string); scope != spectatorScope {
		return "", fmt.Errorf("%w: wrong scope", ErrInvalidToken)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return sub, nil
}

// CanLogin reports whether password login is configured
func (a *Auth) CanLogin() bool {
	return a != nil && len(a.passwordHash) > 0
}

// Login checks the shared spectator password and issues a token for ip
func (a *Auth) Login(password, ip string) (string, error) {
	if !a.CanLogin() {
		return "", ErrLoginDisabled
	}
	if !a.checkRate(ip) {
		return "", ErrRateLimited
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	return a.IssueToken(ip)
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	if now.Sub(a.lastPrune) >= loginRateWindow {
		a.pruneRates(now)
	}
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(loginRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxLoginAttempts
}

// pruneRates forgets addresses whose window has ended. Caller holds rateMu.
func (a *Auth) pruneRates(now time.Time) {
	for ip, entry := range a.rateMap {
		if now.After(entry.ResetAt) {
			delete(a.rateMap, ip)
		}
	}
	a.lastPrune = now
}

// HashPassword produces a value for spectator.passwordHash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
