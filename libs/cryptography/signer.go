package cryptography

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
)

var (
	// ErrNoPrivateKey - the signer holds no usable private key
	ErrNoPrivateKey = errors.New("no private key loaded")
	// ErrInvalidPEM - the supplied key material is not a PEM encoded private key
	ErrInvalidPEM = errors.New("failed to decode PEM block containing private key")
	// ErrNotRSAKey - the supplied key material is not an rsa private key
	ErrNotRSAKey = errors.New("private key is not an rsa key")
)

// RequestSigner an interface for signing request payloads
type RequestSigner interface {
	// SignRequest signs the exact payload bytes, returning a base64 encoded signature
	SignRequest(payload []byte) (string, error)
}

// RSASigner is an in process RequestSigner implementation backed by an rsa private key
type RSASigner struct {
	key *rsa.PrivateKey
}

// NewRSASigner creates a new RequestSigner from a PEM encoded rsa private key,
// accepting both PKCS#1 and PKCS#8 encodings
func NewRSASigner(pemKey string) (*RSASigner, error) {
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, ErrInvalidPEM
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return &RSASigner{key: key}, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	return &RSASigner{key: key}, nil
}

// SignRequest hashes payload with sha512 and signs the digest with the
// private key, PKCS#1 v1.5, returning a base64 encoded signature
func (s *RSASigner) SignRequest(payload []byte) (string, error) {
	if s == nil || s.key == nil {
		return "", ErrNoPrivateKey
	}

	digest := sha512.Sum512(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA512, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Public returns the signer's public key for signature verification
func (s *RSASigner) Public() *rsa.PublicKey {
	if s == nil || s.key == nil {
		return nil
	}
	return &s.key.PublicKey
}
