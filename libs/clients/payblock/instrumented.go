package payblock

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// clientDurationSummaryVec is shared by every instrumented payblock client,
// instances are told apart through the instance_name label
var clientDurationSummaryVec = promauto.NewSummaryVec(
	prometheus.SummaryOpts{
		Name:       "payblock_client_duration_seconds",
		Help:       "client runtime duration and result",
		MaxAge:     time.Minute,
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	},
	[]string{"instance_name", "method", "result"},
)

// ClientWithPrometheus implements Client with all methods wrapped in a
// prometheus summary metric
type ClientWithPrometheus struct {
	base         Client
	instanceName string
}

// NewClientWithPrometheus returns an instance of the Client decorated with prometheus summary metric.
func NewClientWithPrometheus(base Client, instanceName string) *ClientWithPrometheus {
	return &ClientWithPrometheus{
		base:         base,
		instanceName: instanceName,
	}
}

// CreateDepositAddress implements Client
func (_d *ClientWithPrometheus) CreateDepositAddress(ctx context.Context, payload CreateDepositAddressPayload) (ap1 *DepositAddress, err error) {
	_since := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}

		clientDurationSummaryVec.WithLabelValues(_d.instanceName, "CreateDepositAddress", result).Observe(time.Since(_since).Seconds())
	}()

	return _d.base.CreateDepositAddress(ctx, payload)
}

// GetDepositAddress implements Client
func (_d *ClientWithPrometheus) GetDepositAddress(ctx context.Context, referenceID string) (ap1 *DepositAddress, err error) {
	_since := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}

		clientDurationSummaryVec.WithLabelValues(_d.instanceName, "GetDepositAddress", result).Observe(time.Since(_since).Seconds())
	}()

	return _d.base.GetDepositAddress(ctx, referenceID)
}

// CreateWithdrawal implements Client
func (_d *ClientWithPrometheus) CreateWithdrawal(ctx context.Context, payload CreateWithdrawalPayload) (wp1 *Withdrawal, err error) {
	_since := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}

		clientDurationSummaryVec.WithLabelValues(_d.instanceName, "CreateWithdrawal", result).Observe(time.Since(_since).Seconds())
	}()

	return _d.base.CreateWithdrawal(ctx, payload)
}

// StartAddressVerification implements Client
func (_d *ClientWithPrometheus) StartAddressVerification(ctx context.Context, payload StartVerificationPayload) (vp1 *VerificationSession, err error) {
	_since := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}

		clientDurationSummaryVec.WithLabelValues(_d.instanceName, "StartAddressVerification", result).Observe(time.Since(_since).Seconds())
	}()

	return _d.base.StartAddressVerification(ctx, payload)
}

// ConfirmAddressVerification implements Client
func (_d *ClientWithPrometheus) ConfirmAddressVerification(ctx context.Context, payload ConfirmVerificationPayload) (vp1 *VerificationResult, err error) {
	_since := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}

		clientDurationSummaryVec.WithLabelValues(_d.instanceName, "ConfirmAddressVerification", result).Observe(time.Since(_since).Seconds())
	}()

	return _d.base.ConfirmAddressVerification(ctx, payload)
}

// WithdrawableAssets implements Client
func (_d *ClientWithPrometheus) WithdrawableAssets(ctx context.Context) (ap1 *[]Asset, err error) {
	_since := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}

		clientDurationSummaryVec.WithLabelValues(_d.instanceName, "WithdrawableAssets", result).Observe(time.Since(_since).Seconds())
	}()

	return _d.base.WithdrawableAssets(ctx)
}

// Balances implements Client
func (_d *ClientWithPrometheus) Balances(ctx context.Context) (bp1 *[]Balance, err error) {
	_since := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}

		clientDurationSummaryVec.WithLabelValues(_d.instanceName, "Balances", result).Observe(time.Since(_since).Seconds())
	}()

	return _d.base.Balances(ctx)
}
