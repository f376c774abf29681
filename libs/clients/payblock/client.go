package payblock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	"github.com/asaskevich/govalidator"
	cache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/payblock/payblock-go/libs/clients"
	appctx "github.com/payblock/payblock-go/libs/context"
	"github.com/payblock/payblock-go/libs/cryptography"
	errorutils "github.com/payblock/payblock-go/libs/errors"
	"github.com/payblock/payblock-go/libs/logging"
	"github.com/payblock/payblock-go/libs/ptr"
	"github.com/payblock/payblock-go/libs/requestutils"
	"github.com/payblock/payblock-go/libs/validators"
)

// Client abstracts over the underlying client
type Client interface {
	CreateDepositAddress(ctx context.Context, payload CreateDepositAddressPayload) (*DepositAddress, error)
	GetDepositAddress(ctx context.Context, referenceID string) (*DepositAddress, error)
	CreateWithdrawal(ctx context.Context, payload CreateWithdrawalPayload) (*Withdrawal, error)
	StartAddressVerification(ctx context.Context, payload StartVerificationPayload) (*VerificationSession, error)
	ConfirmAddressVerification(ctx context.Context, payload ConfirmVerificationPayload) (*VerificationResult, error)
	WithdrawableAssets(ctx context.Context) (*[]Asset, error)
	Balances(ctx context.Context) (*[]Balance, error)
}

var payblockBalanceGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "payblock_account_balance",
		Help: "A gauge of the per asset account balance at the payblock gateway",
	},
	[]string{"symbol", "kind"},
)

func init() {
	prometheus.MustRegister(payblockBalanceGauge)
}

const assetsCacheKey = "withdrawable_assets"

var (
	defaultAssetsCacheExpiry = 5 * time.Minute
	defaultAssetsCachePurge  = 10 * time.Minute
)

// HTTPClient wraps http.Client for interacting with the payblock gateway
type HTTPClient struct {
	client    *clients.SimpleHTTPClient
	cache     *cache.Cache
	publicKey string
	secretKey string
	signer    *cryptography.RSASigner
}

// Conf is the payblock client configuration
type Conf struct {
	Server            string
	PublicKey         string
	SecretKey         string
	Proxy             string
	SigningKey        SigningKeyConfig
	AssetsCacheExpiry time.Duration
	AssetsCachePurge  time.Duration
}

// New returns a new HTTPClient, retrieving the base URL from the environment
func New() (Client, error) {
	serverEnvKey := "PAYBLOCK_SERVER"
	serverURL := os.Getenv(serverEnvKey)
	if len(serverURL) == 0 {
		return nil, errors.New(serverEnvKey + " was empty")
	}
	publicKey := os.Getenv("PAYBLOCK_PUBLIC_KEY")
	if len(publicKey) == 0 {
		return nil, errors.New("PAYBLOCK_PUBLIC_KEY was empty")
	}
	secretKey := os.Getenv("PAYBLOCK_SECRET_KEY")
	if len(secretKey) == 0 {
		return nil, errors.New("PAYBLOCK_SECRET_KEY was empty")
	}
	return NewWithConf(Conf{
		Server:    serverURL,
		PublicKey: publicKey,
		SecretKey: secretKey,
		Proxy:     os.Getenv("HTTP_PROXY"),
		SigningKey: SigningKeyConfig{
			KeyFile: os.Getenv("PAYBLOCK_SIGNING_KEY_FILE"),
			KeyEnv:  os.Getenv("PAYBLOCK_SIGNING_KEY_ENV"),
		},
	})
}

// NewWithContext returns a new HTTPClient, retrieving the base URL from the context
func NewWithContext(ctx context.Context) (Client, error) {
	// get the server url from context
	serverURL, err := appctx.GetStringFromContext(ctx, appctx.PayblockServerCTXKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get PayblockServer from context: %w", err)
	}
	// the api key pair identifying the merchant account
	publicKey, err := appctx.GetStringFromContext(ctx, appctx.PayblockPublicKeyCTXKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get PayblockPublicKey from context: %w", err)
	}
	secretKey, err := appctx.GetStringFromContext(ctx, appctx.PayblockSecretKeyCTXKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get PayblockSecretKey from context: %w", err)
	}

	conf := Conf{
		Server:    serverURL,
		PublicKey: publicKey,
		SecretKey: secretKey,
	}

	// the remaining values are optional
	conf.Proxy, err = appctx.GetStringFromContext(ctx, appctx.PayblockProxyCTXKey)
	if err != nil && !errors.Is(err, appctx.ErrNotInContext) {
		return nil, err
	}
	conf.SigningKey.Key, err = appctx.GetStringFromContext(ctx, appctx.PayblockSigningKeyCTXKey)
	if err != nil && !errors.Is(err, appctx.ErrNotInContext) {
		return nil, err
	}
	conf.SigningKey.KeyFile, err = appctx.GetStringFromContext(ctx, appctx.PayblockSigningKeyFileCTXKey)
	if err != nil && !errors.Is(err, appctx.ErrNotInContext) {
		return nil, err
	}
	conf.SigningKey.KeyEnv, err = appctx.GetStringFromContext(ctx, appctx.PayblockSigningKeyEnvCTXKey)
	if err != nil && !errors.Is(err, appctx.ErrNotInContext) {
		return nil, err
	}
	conf.AssetsCacheExpiry, err = appctx.GetDurationFromContext(ctx, appctx.AssetsCacheExpiryDurationCTXKey)
	if err != nil && !errors.Is(err, appctx.ErrNotInContext) {
		return nil, err
	}
	conf.AssetsCachePurge, err = appctx.GetDurationFromContext(ctx, appctx.AssetsCachePurgeDurationCTXKey)
	if err != nil && !errors.Is(err, appctx.ErrNotInContext) {
		return nil, err
	}

	return NewWithConf(conf)
}

// NewWithConf returns a new HTTPClient from explicit configuration. The
// signing key is resolved here, once, a key rotated after construction is
// not picked up.
func NewWithConf(conf Conf) (Client, error) {
	client, err := clients.NewWithProxy("payblock", conf.Server, "", conf.Proxy)
	if err != nil {
		return nil, err
	}
	signer, err := resolveSigningKey(conf.SigningKey)
	if err != nil {
		return nil, err
	}
	expiry := conf.AssetsCacheExpiry
	if expiry == 0 {
		expiry = defaultAssetsCacheExpiry
	}
	purge := conf.AssetsCachePurge
	if purge == 0 {
		purge = defaultAssetsCachePurge
	}
	return NewClientWithPrometheus(&HTTPClient{
		client:    client,
		cache:     cache.New(expiry, purge),
		publicKey: conf.PublicKey,
		secretKey: conf.SecretKey,
		signer:    signer,
	}, "payblock_client"), nil
}

// envelope is the fixed wrapper every payblock response body arrives in
type envelope struct {
	APIVersion string          `json:"apiVersion"`
	Data       json.RawMessage `json:"data"`
	Code       int             `json:"code"`
	Message    string          `json:"message"`
}

// APIError is an application level failure reported through the payblock
// response envelope. The envelope code is authoritative, an APIError can
// surface from a request the transport considered successful.
type APIError struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	APIVersion     string `json:"apiVersion"`
	HTTPStatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payblock api error %d: %s", e.Code, e.Message)
}

// NotFoundError - the referenced resource does not exist at the gateway
func (e *APIError) NotFoundError() bool {
	return e.Code == http.StatusNotFound
}

// Unauthorized - the gateway rejected the request hash or the api keys
func (e *APIError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized
}

// ForbiddenError - the api keys are valid but not allowed this operation
func (e *APIError) ForbiddenError() bool {
	return e.Code == http.StatusForbidden
}

// AlreadyExistsError - a resource with the same identifiers already exists
func (e *APIError) AlreadyExistsError() bool {
	return e.Code == http.StatusConflict
}

// InsufficientBalance - the account balance does not cover the withdrawal
func (e *APIError) InsufficientBalance() bool {
	return e.Code == http.StatusPaymentRequired
}

// handlePayblockError tries to surface an application level error from the
// body of a failed request, falling back to the error as received
func handlePayblockError(e error) error {
	state, err := clients.UnwrapHTTPState(e)
	if err != nil {
		return e
	}
	errData, ok := state.Body.(clients.RespErrData)
	if !ok {
		return e
	}
	body, ok := errData.Body.(string)
	if !ok {
		return e
	}
	var env envelope
	if jsonErr := json.Unmarshal([]byte(body), &env); jsonErr != nil {
		return e
	}
	if env.Code == 0 || env.Code == http.StatusOK {
		return e
	}
	return &APIError{
		Code:           env.Code,
		Message:        env.Message,
		APIVersion:     env.APIVersion,
		HTTPStatusCode: state.Status,
	}
}

// signRequest computes the detached rsa signature over the exact body bytes
// about to go on the wire and affixes it as the x-signature header
func (c *HTTPClient) signRequest(ctx context.Context, req *http.Request) error {
	if c.signer == nil {
		return ErrSigningKeyMissing
	}
	body, err := requestutils.Read(ctx, req.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body for signing: %w", err)
	}
	req.Body = ioutil.NopCloser(bytes.NewBuffer(body))
	signature, err := c.signer.SignRequest(body)
	if err != nil {
		return fmt.Errorf("failed to sign request body: %w", err)
	}
	req.Header.Set("X-Signature", signature)
	return nil
}

// doRequest signs when configured, performs the request and unwraps the
// response envelope into v
func (c *HTTPClient) doRequest(ctx context.Context, req *http.Request, v interface{}) error {
	if c.signer != nil {
		if err := c.signRequest(ctx, req); err != nil {
			return err
		}
	}
	var env envelope
	resp, err := c.client.Do(ctx, req, &env)
	if err != nil {
		return handlePayblockError(err)
	}
	if env.Code != http.StatusOK {
		apiError := &APIError{
			Code:       env.Code,
			Message:    env.Message,
			APIVersion: env.APIVersion,
		}
		if resp != nil {
			apiError.HTTPStatusCode = resp.StatusCode
		}
		return apiError
	}
	if v != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, v); err != nil {
			return errorutils.Wrap(err, clients.ErrUnableToDecode)
		}
	}
	return nil
}

// validateAssetAddress applies chain specific address shape checks where the
// symbol pins the chain, the gateway stays the authority on unknown symbols
func validateAssetAddress(symbol, address string) error {
	if !validators.IsCompatibleAddress(symbol, address) {
		return fmt.Errorf("address %s is not a valid %s address", address, symbol)
	}
	return nil
}

// CreateDepositAddressPayload is the body for the deposit address creation api
type CreateDepositAddressPayload struct {
	PublicKey   string  `json:"publicKey" valid:"base64urlnopad"`
	Symbol      string  `json:"symbol" valid:"assetsymbol"`
	Label       *string `json:"label,omitempty" valid:"-"`
	ReferenceID *string `json:"referenceId,omitempty" valid:"-"`
	CallbackURL *string `json:"callbackUrl,omitempty" valid:"url,optional"`
	Hash        string  `json:"hash" valid:"-"`
}

// SignatureHash computes the integrity hash for the creation record: the
// public key, then the fields in documented order, the secret last. Absent
// optional fields hash as the empty string.
func (p *CreateDepositAddressPayload) SignatureHash(secretKey string) string {
	return requestHash(
		secretKey,
		p.PublicKey,
		p.Symbol,
		ptr.String(p.Label),
		ptr.String(p.ReferenceID),
		ptr.String(p.CallbackURL),
	)
}

// Validate implements inputs.Validatable
func (p *CreateDepositAddressPayload) Validate(ctx context.Context) error {
	_, err := govalidator.ValidateStruct(p)
	return err
}

// DepositAddress describes a gateway managed deposit address
type DepositAddress struct {
	Address     string  `json:"address"`
	Symbol      string  `json:"symbol"`
	NetworkID   string  `json:"networkId"`
	Label       *string `json:"label,omitempty"`
	ReferenceID *string `json:"referenceId,omitempty"`
	CallbackURL *string `json:"callbackUrl,omitempty"`
	CreatedAt   int64   `json:"createdAt"`
}

// CreateDepositAddress generates a fresh deposit address under the merchant
// account, optionally tagged with a label, reference id and callback url
func (c *HTTPClient) CreateDepositAddress(ctx context.Context, payload CreateDepositAddressPayload) (*DepositAddress, error) {
	payload.PublicKey = c.publicKey
	payload.Hash = payload.SignatureHash(c.secretKey)
	if err := payload.Validate(ctx); err != nil {
		return nil, err
	}
	req, err := c.client.NewRequest(ctx, http.MethodPost, "/v2/deposit/create", payload, nil)
	if err != nil {
		return nil, err
	}
	var address DepositAddress
	if err := c.doRequest(ctx, req, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// getDepositAddressPayload is the body for the deposit address lookup api
type getDepositAddressPayload struct {
	PublicKey   string `json:"publicKey"`
	ReferenceID string `json:"referenceId"`
	Hash        string `json:"hash"`
}

// GetDepositAddress looks up a previously created deposit address by the
// merchant assigned reference id
func (c *HTTPClient) GetDepositAddress(ctx context.Context, referenceID string) (*DepositAddress, error) {
	payload := getDepositAddressPayload{
		PublicKey:   c.publicKey,
		ReferenceID: referenceID,
		Hash:        requestHash(c.secretKey, c.publicKey, referenceID),
	}
	req, err := c.client.NewRequest(ctx, http.MethodPost, "/v2/deposit/get", payload, nil)
	if err != nil {
		return nil, err
	}
	var address DepositAddress
	if err := c.doRequest(ctx, req, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// CreateWithdrawalPayload is the body for the withdrawal submission api
type CreateWithdrawalPayload struct {
	PublicKey             string          `json:"publicKey" valid:"base64urlnopad"`
	Symbol                string          `json:"symbol" valid:"assetsymbol"`
	Amount                decimal.Decimal `json:"amount" valid:"-"`
	Address               string          `json:"address" valid:"required"`
	MerchantTransactionID string          `json:"merchantTransactionId" valid:"required"`
	Hash                  string          `json:"hash" valid:"-"`
}

// SignatureHash computes the integrity hash for the withdrawal record. The
// amount contributes its canonical decimal rendering, "0.1" not "0.10".
func (p *CreateWithdrawalPayload) SignatureHash(secretKey string) string {
	return requestHash(
		secretKey,
		p.Symbol,
		p.Amount.String(),
		p.Address,
		p.MerchantTransactionID,
	)
}

// Validate implements inputs.Validatable
func (p *CreateWithdrawalPayload) Validate(ctx context.Context) error {
	if _, err := govalidator.ValidateStruct(p); err != nil {
		return err
	}
	if !p.Amount.IsPositive() {
		return errors.New("withdrawal amount must be greater than zero")
	}
	return validateAssetAddress(p.Symbol, p.Address)
}

// Withdrawal describes a submitted withdrawal
type Withdrawal struct {
	WithdrawalID          string          `json:"withdrawalId"`
	MerchantTransactionID string          `json:"merchantTransactionId"`
	Symbol                string          `json:"symbol"`
	Amount                decimal.Decimal `json:"amount"`
	Fee                   decimal.Decimal `json:"fee"`
	Address               string          `json:"address"`
	Status                string          `json:"status"`
	CreatedAt             int64           `json:"createdAt"`
}

// CreateWithdrawal submits a withdrawal to the given address. The merchant
// transaction id doubles as the idempotency key, resubmitting it yields the
// already exists application error rather than a second transfer.
func (c *HTTPClient) CreateWithdrawal(ctx context.Context, payload CreateWithdrawalPayload) (*Withdrawal, error) {
	payload.PublicKey = c.publicKey
	payload.Hash = payload.SignatureHash(c.secretKey)
	if err := payload.Validate(ctx); err != nil {
		return nil, err
	}
	req, err := c.client.NewRequest(ctx, http.MethodPost, "/v2/withdraw/add", payload, nil)
	if err != nil {
		return nil, err
	}
	var withdrawal Withdrawal
	if err := c.doRequest(ctx, req, &withdrawal); err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// StartVerificationPayload is the body for the address verification start api
type StartVerificationPayload struct {
	PublicKey   string `json:"publicKey" valid:"base64urlnopad"`
	Symbol      string `json:"symbol" valid:"assetsymbol"`
	NetworkID   string `json:"networkId" valid:"required"`
	Address     string `json:"address" valid:"required"`
	ReferenceID string `json:"referenceId" valid:"required"`
	Hash        string `json:"hash" valid:"-"`
}

// SignatureHash computes the integrity hash for the verification start record
func (p *StartVerificationPayload) SignatureHash(secretKey string) string {
	return requestHash(
		secretKey,
		p.Symbol,
		p.NetworkID,
		p.Address,
		p.ReferenceID,
	)
}

// Validate implements inputs.Validatable
func (p *StartVerificationPayload) Validate(ctx context.Context) error {
	if _, err := govalidator.ValidateStruct(p); err != nil {
		return err
	}
	return validateAssetAddress(p.Symbol, p.Address)
}

// VerificationSession describes a started address ownership verification
type VerificationSession struct {
	VerificationID string          `json:"verificationId"`
	Symbol         string          `json:"symbol"`
	NetworkID      string          `json:"networkId"`
	Address        string          `json:"address"`
	DepositAmount  decimal.Decimal `json:"depositAmount"`
	ExpiresAt      int64           `json:"expiresAt"`
}

// StartAddressVerification begins an ownership verification for an external
// address, the gateway answers with the exact amount to send back
func (c *HTTPClient) StartAddressVerification(ctx context.Context, payload StartVerificationPayload) (*VerificationSession, error) {
	payload.PublicKey = c.publicKey
	payload.Hash = payload.SignatureHash(c.secretKey)
	if err := payload.Validate(ctx); err != nil {
		return nil, err
	}
	req, err := c.client.NewRequest(ctx, http.MethodPost, "/v2/verify/start", payload, nil)
	if err != nil {
		return nil, err
	}
	var session VerificationSession
	if err := c.doRequest(ctx, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ConfirmVerificationPayload is the body for the address verification confirm api
type ConfirmVerificationPayload struct {
	PublicKey   string          `json:"publicKey" valid:"base64urlnopad"`
	Symbol      string          `json:"symbol" valid:"assetsymbol"`
	NetworkID   string          `json:"networkId" valid:"required"`
	Amount      decimal.Decimal `json:"amount" valid:"-"`
	ReferenceID string          `json:"referenceId" valid:"required"`
	Hash        string          `json:"hash" valid:"-"`
}

// SignatureHash computes the integrity hash for the verification confirm record
func (p *ConfirmVerificationPayload) SignatureHash(secretKey string) string {
	return requestHash(
		secretKey,
		p.Symbol,
		p.NetworkID,
		p.Amount.String(),
		p.ReferenceID,
	)
}

// Validate implements inputs.Validatable
func (p *ConfirmVerificationPayload) Validate(ctx context.Context) error {
	if _, err := govalidator.ValidateStruct(p); err != nil {
		return err
	}
	if !p.Amount.IsPositive() {
		return errors.New("verification amount must be greater than zero")
	}
	return nil
}

// VerificationResult is the outcome of confirming an address verification
type VerificationResult struct {
	VerificationID string `json:"verificationId"`
	ReferenceID    string `json:"referenceId"`
	Verified       bool   `json:"verified"`
	Status         string `json:"status"`
}

// ConfirmAddressVerification reports the amount observed from the address
// under verification, closing out the session started earlier
func (c *HTTPClient) ConfirmAddressVerification(ctx context.Context, payload ConfirmVerificationPayload) (*VerificationResult, error) {
	payload.PublicKey = c.publicKey
	payload.Hash = payload.SignatureHash(c.secretKey)
	if err := payload.Validate(ctx); err != nil {
		return nil, err
	}
	req, err := c.client.NewRequest(ctx, http.MethodPost, "/v2/verify/confirm", payload, nil)
	if err != nil {
		return nil, err
	}
	var result VerificationResult
	if err := c.doRequest(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// listPayload is the shared body for the account scoped list apis
type listPayload struct {
	PublicKey string `json:"publicKey"`
	Hash      string `json:"hash"`
}

// Asset describes an asset withdrawals are currently enabled for
type Asset struct {
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	NetworkID         string          `json:"networkId"`
	WithdrawalEnabled bool            `json:"withdrawalEnabled"`
	MinimumWithdrawal decimal.Decimal `json:"minimumWithdrawal"`
	FeeEstimate       decimal.Decimal `json:"feeEstimate"`
}

// WithdrawableAssets lists the assets withdrawals are currently enabled for,
// results are cached to keep per request polling off the gateway
func (c *HTTPClient) WithdrawableAssets(ctx context.Context) (*[]Asset, error) {
	if cached, found := c.cache.Get(assetsCacheKey); found {
		if assets, ok := cached.(*[]Asset); ok {
			return assets, nil
		}
	}
	payload := listPayload{
		PublicKey: c.publicKey,
		Hash:      requestHash(c.secretKey, c.publicKey),
	}
	req, err := c.client.NewRequest(ctx, http.MethodPost, "/v2/withdrawable/list", payload, nil)
	if err != nil {
		return nil, err
	}
	var assets []Asset
	if err := c.doRequest(ctx, req, &assets); err != nil {
		return nil, err
	}
	c.cache.Set(assetsCacheKey, &assets, cache.DefaultExpiration)
	return &assets, nil
}

// Balance holds the per asset balance of the merchant account
type Balance struct {
	Symbol    string          `json:"symbol"`
	Available decimal.Decimal `json:"available"`
	Pending   decimal.Decimal `json:"pending"`
	Total     decimal.Decimal `json:"total"`
}

// Balances fetches the per asset balances of the merchant account
func (c *HTTPClient) Balances(ctx context.Context) (*[]Balance, error) {
	payload := listPayload{
		PublicKey: c.publicKey,
		Hash:      requestHash(c.secretKey, c.publicKey),
	}
	req, err := c.client.NewRequest(ctx, http.MethodPost, "/v2/balance/list", payload, nil)
	if err != nil {
		return nil, err
	}
	var balances []Balance
	if err := c.doRequest(ctx, req, &balances); err != nil {
		return nil, err
	}
	return &balances, nil
}

// WatchPayblockBalance polls the balance api on interval and keeps the
// account balance gauge current until the context is done
func WatchPayblockBalance(ctx context.Context, client Client, interval time.Duration) error {
	logger := logging.Logger(ctx, "payblock.WatchPayblockBalance")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			balances, err := client.Balances(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("failed to fetch payblock balances")
				continue
			}
			for _, balance := range *balances {
				payblockBalanceGauge.WithLabelValues(balance.Symbol, "available").Set(balance.Available.InexactFloat64())
				payblockBalanceGauge.WithLabelValues(balance.Symbol, "pending").Set(balance.Pending.InexactFloat64())
			}
		}
	}
}
