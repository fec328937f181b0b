package main

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"phishfeatures/internal/config"
	"phishfeatures/pkg/domain"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func privateKeyPEM(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	return priv, string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func TestSignToken(t *testing.T) {
	priv, privPEM := privateKeyPEM(t)
	userID := domain.UserID(uuid.New())

	signed, err := signToken(privPEM, userID, time.Hour, time.Now())
	require.NoError(t, err)

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (any, error) {
		return &priv.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	require.NoError(t, err)
	require.Equal(t, userID.String(), claims.Subject)

	_, err = signToken("not a key", userID, time.Hour, time.Now())
	require.Error(t, err)
}

func TestJWTCommand(t *testing.T) {
	_, privPEM := privateKeyPEM(t)
	cfg := &config.Config{}
	cfg.JWT.PrivateKey = privPEM

	var out bytes.Buffer
	cmd := JWTCommand(cfg)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--ttl", "1m"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, 2, strings.Count(out.String(), "."))

	cmd = JWTCommand(cfg)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--subject", "not-a-uuid"})
	require.Error(t, cmd.Execute())
}
