package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// SessionCookie carries the signed session token between requests.
const SessionCookie = "yatube_session"

var ErrNoToken = errors.New("no session token")

// Session is what a valid token says about its bearer.
type Session struct {
	UserID uint
	Stamp  string
}

// PasswordStamp fingerprints a password hash. Tokens carry it, so changing
// the password ends every session issued before.
func PasswordStamp(secret, passwordHash string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(passwordHash))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

// Matches reports whether the session was issued for passwordHash.
func (s Session) Matches(secret, passwordHash string) bool {
	return hmac.Equal([]byte(s.Stamp), []byte(PasswordStamp(secret, passwordHash)))
}

func CreateToken(secret string, id uint, stamp string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["user_id"] = id
	claims["pwd"] = stamp
	claims["exp"] = time.Now().Add(ttl).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ExtractToken prefers the session cookie and falls back to a bearer header.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	bearer := r.Header.Get("Authorization")
	if parts := strings.Split(bearer, " "); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func ExtractTokenID(secret string, r *http.Request) (uint, error) {
	session, err := ExtractSession(secret, r)
	return session.UserID, err
}

func ExtractSession(secret string, r *http.Request) (Session, error) {
	tokenString := ExtractToken(r)
	if tokenString == "" {
		return Session{}, ErrNoToken
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Session{}, errors.Wrap(err, "parse session token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, errors.New("invalid session token")
	}
	uid, err := strconv.ParseUint(fmt.Sprintf("%.0f", claims["user_id"]), 10, 32)
	if err != nil {
		return Session{}, errors.Wrap(err, "parse user id claim")
	}
	stamp, _ := claims["pwd"].(string)
	return Session{UserID: uint(uid), Stamp: stamp}, nil
}

func SetSession(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSession(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
