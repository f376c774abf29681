package payblock

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/payblock/payblock-go/libs/ptr"
)

func TestSignatureHash_DepositCreate(t *testing.T) {
	payload := CreateDepositAddressPayload{
		PublicKey:   "pub1",
		Symbol:      "ETH",
		Label:       ptr.FromString("L"),
		ReferenceID: ptr.FromString("R1"),
		CallbackURL: ptr.FromString("https://x/y"),
	}

	// md5 of pub1ETHLR1https://x/ysecret1
	assert.Equal(t, "683771a06196ba0972fd95be8b566ba7", payload.SignatureHash("secret1"))
}

func TestSignatureHash_Withdrawal(t *testing.T) {
	payload := CreateWithdrawalPayload{
		Symbol:                "ETH",
		Amount:                decimal.RequireFromString("0.1"),
		Address:               "0xabc",
		MerchantTransactionID: "W-1",
	}

	// md5 of ETH0.10xabcW-1s, the public key is not part of this record
	assert.Equal(t, "b06f8e181e95be6781b471952863b8c1", payload.SignatureHash("s"))
}

func TestSignatureHash_WithdrawalAmountCanonical(t *testing.T) {
	payload := CreateWithdrawalPayload{
		Symbol:                "ETH",
		Amount:                decimal.RequireFromString("0.10"),
		Address:               "0xabc",
		MerchantTransactionID: "W-1",
	}

	// trailing zeros never reach the record, 0.10 hashes as 0.1
	assert.Equal(t, "b06f8e181e95be6781b471952863b8c1", payload.SignatureHash("s"))
}

func TestSignatureHash_NilOptionalsHashAsEmpty(t *testing.T) {
	withNil := CreateDepositAddressPayload{
		PublicKey: "pub1",
		Symbol:    "BTC",
	}
	withEmpty := CreateDepositAddressPayload{
		PublicKey:   "pub1",
		Symbol:      "BTC",
		Label:       ptr.FromString(""),
		ReferenceID: ptr.FromString(""),
		CallbackURL: ptr.FromString(""),
	}

	assert.Equal(t, withNil.SignatureHash("s"), withEmpty.SignatureHash("s"))
}

func TestSignatureHash_Deterministic(t *testing.T) {
	payload := StartVerificationPayload{
		Symbol:      "BTC",
		NetworkID:   "mainnet",
		Address:     "1HZ8g817ZgfLUCALFnnLPdgEUsmwHLb73W",
		ReferenceID: "R-7",
	}

	assert.Equal(t, payload.SignatureHash("s"), payload.SignatureHash("s"))
}

func TestRequestHash_FieldSensitivity(t *testing.T) {
	base := requestHash("s", "ETH", "mainnet", "addr", "R1")

	assert.NotEqual(t, base, requestHash("s", "ETH", "mainnet", "addr", "R2"))
	assert.NotEqual(t, base, requestHash("s", "mainnet", "ETH", "addr", "R1"))
	assert.NotEqual(t, base, requestHash("x", "ETH", "mainnet", "addr", "R1"))
}

func TestRequestHash_ListRecords(t *testing.T) {
	// md5 of pub1R-42secret1
	assert.Equal(t, "1a029aef6b76f7bd5f354d5256100f2e", requestHash("secret1", "pub1", "R-42"))
	// md5 of pub1secret1
	assert.Equal(t, "6d960dd45670bf7755fc6c0343db324e", requestHash("secret1", "pub1"))
}

func TestSignatureHash_VerificationConfirm(t *testing.T) {
	payload := ConfirmVerificationPayload{
		Symbol:      "ETH",
		NetworkID:   "mainnet",
		Amount:      decimal.RequireFromString("0.015"),
		ReferenceID: "R-7",
	}

	assert.Equal(t, requestHash("s", "ETH", "mainnet", "0.015", "R-7"), payload.SignatureHash("s"))
}
