package config

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWTConfig struct {
	PrivateKey     string        `mapstructure:"private_key"`
	PrivateKeyFile string        `mapstructure:"private_key_file"`
	PublicKey      string        `mapstructure:"public_key"`
	PublicKeyFile  string        `mapstructure:"public_key_file"`
	TokenLifetime  time.Duration `mapstructure:"token_lifetime"`
}

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func readPEM(inline, path, name string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if path == "" {
		return nil, fmt.Errorf("no jwt.%s or jwt.%s_file configured", name, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT %s: %w", name, err)
	}
	return data, nil
}

// NewJWT loads the RSA key pair. The public key may be omitted, in which
// case it is derived from the private key.
func NewJWT(cfg JWTConfig) (*JWT, error) {
	privatePEM, err := readPEM(cfg.PrivateKey, cfg.PrivateKeyFile, "private_key")
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT private key: %w", err)
	}

	j := NewJWTFromKey(privateKey, cfg.TokenLifetime)

	if cfg.PublicKey == "" && cfg.PublicKeyFile == "" {
		return j, nil
	}
	publicPEM, err := readPEM(cfg.PublicKey, cfg.PublicKeyFile, "public_key")
	if err != nil {
		return nil, err
	}
	j.publicKey, err = jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT public key: %w", err)
	}
	if !j.publicKey.Equal(&privateKey.PublicKey) {
		return nil, errors.New("JWT public key does not match the private key")
	}
	return j, nil
}

func NewJWTFromKey(privateKey *rsa.PrivateKey, tokenLifetime time.Duration) *JWT {
	if tokenLifetime <= 0 {
		tokenLifetime = time.Hour * 24 * 30
	}
	return &JWT{
		privateKey:    privateKey,
		publicKey:     &privateKey.PublicKey,
		signingMethod: jwt.SigningMethodRS256,
		tokenLifetime: tokenLifetime,
	}
}

func (j *JWT) TokenLifetime() time.Duration {
	return j.tokenLifetime
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
}
