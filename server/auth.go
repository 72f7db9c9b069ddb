/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpmurphy2/pickleball-round-robin/internal"
)

// editClaims authorize changes to one session.
type editClaims struct {
	jwt.RegisteredClaims
}

func (s *Server) issueToken(sessionID string) (string, error) {
	now := time.Now()
	claims := editClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    internal.EditTokenIssuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.opts.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("server.token: failed to sign: %w", err)
	}
	return signed, nil
}

// verifyToken checks raw is an unexpired edit token for sessionID.
func (s *Server) verifyToken(raw string, sessionID string) error {
	var claims editClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.opts.JWTSecret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errUnauthorized, err)
	}
	if claims.Subject != sessionID || claims.Issuer != internal.EditTokenIssuer {
		return fmt.Errorf("%w: token is for another session", errUnauthorized)
	}
	return nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

// requireEditToken rejects requests without a valid edit token for the
// session named in the url.
func (s *Server) requireEditToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			s.mapServiceErrorToHTTP(w, r, errUnauthorized)
			return
		}
		if err := s.verifyToken(raw, chi.URLParam(r, "id")); err != nil {
			s.mapServiceErrorToHTTP(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func hashPassphrase(passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("server.passphrase: %w", err)
	}
	return hash, nil
}

func checkPassphrase(hash []byte, passphrase string) error {
	if len(hash) == 0 {
		return errBadPassphrase
	}
	err := bcrypt.CompareHashAndPassword(hash, []byte(passphrase))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return errBadPassphrase
	}
	return err
}
