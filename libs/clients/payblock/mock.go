package payblock

import (
	"context"
)

// MockClient implements Client for tests, unset functions answer with empty values
type MockClient struct {
	fnCreateDepositAddress       func(ctx context.Context, payload CreateDepositAddressPayload) (*DepositAddress, error)
	fnGetDepositAddress          func(ctx context.Context, referenceID string) (*DepositAddress, error)
	fnCreateWithdrawal           func(ctx context.Context, payload CreateWithdrawalPayload) (*Withdrawal, error)
	fnStartAddressVerification   func(ctx context.Context, payload StartVerificationPayload) (*VerificationSession, error)
	fnConfirmAddressVerification func(ctx context.Context, payload ConfirmVerificationPayload) (*VerificationResult, error)
	fnWithdrawableAssets         func(ctx context.Context) (*[]Asset, error)
	fnBalances                   func(ctx context.Context) (*[]Balance, error)
}

// CreateDepositAddress implements Client
func (c *MockClient) CreateDepositAddress(ctx context.Context, payload CreateDepositAddressPayload) (*DepositAddress, error) {
	if c.fnCreateDepositAddress == nil {
		return &DepositAddress{}, nil
	}

	return c.fnCreateDepositAddress(ctx, payload)
}

// GetDepositAddress implements Client
func (c *MockClient) GetDepositAddress(ctx context.Context, referenceID string) (*DepositAddress, error) {
	if c.fnGetDepositAddress == nil {
		return &DepositAddress{}, nil
	}

	return c.fnGetDepositAddress(ctx, referenceID)
}

// CreateWithdrawal implements Client
func (c *MockClient) CreateWithdrawal(ctx context.Context, payload CreateWithdrawalPayload) (*Withdrawal, error) {
	if c.fnCreateWithdrawal == nil {
		return &Withdrawal{}, nil
	}

	return c.fnCreateWithdrawal(ctx, payload)
}

// StartAddressVerification implements Client
func (c *MockClient) StartAddressVerification(ctx context.Context, payload StartVerificationPayload) (*VerificationSession, error) {
	if c.fnStartAddressVerification == nil {
		return &VerificationSession{}, nil
	}

	return c.fnStartAddressVerification(ctx, payload)
}

// ConfirmAddressVerification implements Client
func (c *MockClient) ConfirmAddressVerification(ctx context.Context, payload ConfirmVerificationPayload) (*VerificationResult, error) {
	if c.fnConfirmAddressVerification == nil {
		return &VerificationResult{}, nil
	}

	return c.fnConfirmAddressVerification(ctx, payload)
}

// WithdrawableAssets implements Client
func (c *MockClient) WithdrawableAssets(ctx context.Context) (*[]Asset, error) {
	if c.fnWithdrawableAssets == nil {
		return &[]Asset{}, nil
	}

	return c.fnWithdrawableAssets(ctx)
}

// Balances implements Client
func (c *MockClient) Balances(ctx context.Context) (*[]Balance, error) {
	if c.fnBalances == nil {
		return &[]Balance{}, nil
	}

	return c.fnBalances(ctx)
}
