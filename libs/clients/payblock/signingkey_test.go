package payblock

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payblock/payblock-go/libs/cryptography"
)

func testSigningKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	return key, string(pem.EncodeToMemory(block))
}

// unsetDefaultSigningKey keeps the ambient environment from turning signing
// on behind a test's back
func unsetDefaultSigningKey(t *testing.T) {
	t.Helper()
	t.Setenv(signingKeyEnvDefault, "")
	require.NoError(t, os.Unsetenv(signingKeyEnvDefault))
}

func TestResolveSigningKey_Disabled(t *testing.T) {
	unsetDefaultSigningKey(t)

	signer, err := resolveSigningKey(SigningKeyConfig{})

	require.NoError(t, err)
	assert.Nil(t, signer)
}

func TestResolveSigningKey_Inline(t *testing.T) {
	key, pemKey := testSigningKey(t)

	signer, err := resolveSigningKey(SigningKeyConfig{Key: pemKey})

	require.NoError(t, err)
	require.NotNil(t, signer)
	assert.True(t, key.PublicKey.Equal(signer.Public()))
}

func TestResolveSigningKey_InlineWinsOverFile(t *testing.T) {
	inlineKey, inlinePEM := testSigningKey(t)
	_, filePEM := testSigningKey(t)

	path := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(path, []byte(filePEM), 0600))

	signer, err := resolveSigningKey(SigningKeyConfig{Key: inlinePEM, KeyFile: path})

	require.NoError(t, err)
	require.NotNil(t, signer)
	assert.True(t, inlineKey.PublicKey.Equal(signer.Public()))
}

func TestResolveSigningKey_File(t *testing.T) {
	key, pemKey := testSigningKey(t)

	path := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(path, []byte(pemKey), 0600))

	signer, err := resolveSigningKey(SigningKeyConfig{KeyFile: path})

	require.NoError(t, err)
	require.NotNil(t, signer)
	assert.True(t, key.PublicKey.Equal(signer.Public()))
}

func TestResolveSigningKey_FileWinsOverEnv(t *testing.T) {
	fileKey, filePEM := testSigningKey(t)
	_, envPEM := testSigningKey(t)

	path := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(path, []byte(filePEM), 0600))
	t.Setenv("PAYBLOCK_TEST_SIGNING_KEY", envPEM)

	signer, err := resolveSigningKey(SigningKeyConfig{KeyFile: path, KeyEnv: "PAYBLOCK_TEST_SIGNING_KEY"})

	require.NoError(t, err)
	require.NotNil(t, signer)
	assert.True(t, fileKey.PublicKey.Equal(signer.Public()))
}

func TestResolveSigningKey_FileUnreadable(t *testing.T) {
	signer, err := resolveSigningKey(SigningKeyConfig{
		KeyFile: filepath.Join(t.TempDir(), "no-such-key.pem"),
	})

	assert.Nil(t, signer)
	assert.ErrorIs(t, err, ErrSigningKeyFileUnreadable)
}

func TestResolveSigningKey_NamedEnv(t *testing.T) {
	key, pemKey := testSigningKey(t)
	t.Setenv("PAYBLOCK_TEST_SIGNING_KEY", pemKey)

	signer, err := resolveSigningKey(SigningKeyConfig{KeyEnv: "PAYBLOCK_TEST_SIGNING_KEY"})

	require.NoError(t, err)
	require.NotNil(t, signer)
	assert.True(t, key.PublicKey.Equal(signer.Public()))
}

func TestResolveSigningKey_NamedEnvMissing(t *testing.T) {
	// naming a variable makes it mandatory, unlike the default variable
	t.Setenv("PAYBLOCK_TEST_SIGNING_KEY", "")
	require.NoError(t, os.Unsetenv("PAYBLOCK_TEST_SIGNING_KEY"))

	signer, err := resolveSigningKey(SigningKeyConfig{KeyEnv: "PAYBLOCK_TEST_SIGNING_KEY"})

	assert.Nil(t, signer)
	assert.ErrorIs(t, err, ErrSigningKeyEnvMissing)
}

func TestResolveSigningKey_DefaultEnv(t *testing.T) {
	key, pemKey := testSigningKey(t)
	t.Setenv(signingKeyEnvDefault, pemKey)

	signer, err := resolveSigningKey(SigningKeyConfig{})

	require.NoError(t, err)
	require.NotNil(t, signer)
	assert.True(t, key.PublicKey.Equal(signer.Public()))
}

func TestResolveSigningKey_InvalidPEM(t *testing.T) {
	signer, err := resolveSigningKey(SigningKeyConfig{Key: "not a pem block"})

	assert.Nil(t, signer)
	assert.ErrorIs(t, err, cryptography.ErrInvalidPEM)
}

func TestRSASigner_RoundTrip(t *testing.T) {
	_, pemKey := testSigningKey(t)

	signer, err := cryptography.NewRSASigner(pemKey)
	require.NoError(t, err)

	payload := []byte(`{"publicKey":"pub1","symbol":"ETH","hash":"abc"}`)
	signature, err := signer.SignRequest(payload)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(signature)
	require.NoError(t, err)

	digest := sha512.Sum512(payload)
	assert.NoError(t, rsa.VerifyPKCS1v15(signer.Public(), crypto.SHA512, digest[:], raw))

	// a single flipped byte must not verify
	payload[0] = '['
	digest = sha512.Sum512(payload)
	assert.Error(t, rsa.VerifyPKCS1v15(signer.Public(), crypto.SHA512, digest[:], raw))
}
