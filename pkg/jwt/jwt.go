package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para que el middleware pueda filtrar por rol sin leer el almacén.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int    `json:"user_id"`
	CompanyID *int   `json:"empresa_id,omitempty"` // ausente para el superadmin
	Role      string `json:"rol"`                  // "superadmin" | "supervisor" | "ejecutor"
	SessionID string `json:"sid"`
}

// Identity datos de la sesión autenticada que viajan en el token.
type Identity struct {
	UserID    int
	CompanyID *int
	Role      string
	SessionID string
}

// Generate genera un token JWT firmado con la identidad y devuelve también su vencimiento.
func Generate(secret string, id Identity, issuer string, expMinutes int) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	if id.SessionID == "" {
		return "", time.Time{}, fmt.Errorf("jwt: id de sesión vacío")
	}
	now := time.Now()
	exp := now.Add(time.Duration(expMinutes) * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        id.SessionID,
		},
		UserID:    id.UserID,
		CompanyID: id.CompanyID,
		Role:      id.Role,
		SessionID: id.SessionID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Identity, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.UserID <= 0 || claims.SessionID == "" {
		return nil, fmt.Errorf("claims incompletos")
	}
	return &Identity{
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		Role:      claims.Role,
		SessionID: claims.SessionID,
	}, nil
}
