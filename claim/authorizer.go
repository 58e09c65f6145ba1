package claim

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
	"github.com/dan13ram/dfc-bridge-settler/eth/util"
	"github.com/dan13ram/dfc-bridge-settler/ledger"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

type Request struct {
	ClaimantAddress string
	TokenAddress    string
	TokenSymbol     string
	// human readable, scaled to the token's decimals before signing
	Amount   string
	ClaimKey string
}

type Store interface {
	Lock(ctx context.Context, resource string) (func(), error)
	GetClaim(claimKey string) (*models.ClaimAuthorization, error)
	InsertClaim(claim models.ClaimAuthorization) (*models.ClaimAuthorization, error)
}

type Config struct {
	ChainId *big.Int
}

type Authorizer struct {
	config   Config
	store    Store
	contract eth.BridgeContract
	signer   appcommon.Signer
	now      func() time.Time
}

func NewAuthorizer(config Config, store Store, contract eth.BridgeContract, signer appcommon.Signer) *Authorizer {
	return &Authorizer{
		config:   config,
		store:    store,
		contract: contract,
		signer:   signer,
		now:      time.Now,
	}
}

// NextUTCMidnight is the start of the UTC day after now.
func NextUTCMidnight(now time.Time) time.Time {
	year, month, day := now.UTC().Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, time.UTC)
}

func (r Request) validate() (common.Address, common.Address, decimal.Decimal, error) {
	if strings.TrimSpace(r.ClaimKey) == "" {
		return common.Address{}, common.Address{}, decimal.Zero, errors.New("missing claim key")
	}
	if !common.IsHexAddress(r.ClaimantAddress) {
		return common.Address{}, common.Address{}, decimal.Zero, fmt.Errorf("invalid claimant address %s", r.ClaimantAddress)
	}
	if !common.IsHexAddress(r.TokenAddress) {
		return common.Address{}, common.Address{}, decimal.Zero, fmt.Errorf("invalid token address %s", r.TokenAddress)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return common.Address{}, common.Address{}, decimal.Zero, fmt.Errorf("invalid amount %s: %w", r.Amount, err)
	}
	if !amount.IsPositive() {
		return common.Address{}, common.Address{}, decimal.Zero, fmt.Errorf("invalid amount %s", r.Amount)
	}
	return common.HexToAddress(r.ClaimantAddress), common.HexToAddress(r.TokenAddress), amount, nil
}

// Authorize returns the signed claim for request.ClaimKey, signing it on the
// first call only. Later calls get the stored tuple back unchanged.
func (a *Authorizer) Authorize(ctx context.Context, request Request) (*models.ClaimAuthorization, error) {
	logger := log.WithField("claim_key", request.ClaimKey)

	if stored, err := a.store.GetClaim(request.ClaimKey); err == nil {
		return stored, nil
	} else if !errors.Is(err, appcommon.ErrNotFound) {
		return nil, err
	}

	claimant, token, amount, err := request.validate()
	if err != nil {
		return nil, err
	}

	unlock, err := a.store.Lock(ctx, ledger.ClaimLockResource(request.ClaimKey))
	if err != nil {
		return nil, fmt.Errorf("failed to lock claim: %w", err)
	}
	defer unlock()

	// another caller may have signed while we waited for the lock
	if stored, err := a.store.GetClaim(request.ClaimKey); err == nil {
		return stored, nil
	} else if !errors.Is(err, appcommon.ErrNotFound) {
		return nil, err
	}

	nonce, err := a.contract.NonceOf(ctx, claimant)
	if err != nil {
		return nil, appcommon.NewTransientChainError("get nonce", err)
	}
	name, err := a.contract.DomainName(ctx)
	if err != nil {
		return nil, appcommon.NewTransientChainError("get domain name", err)
	}
	version, err := a.contract.DomainVersion(ctx)
	if err != nil {
		return nil, appcommon.NewTransientChainError("get domain version", err)
	}
	decimals, err := a.contract.TokenDecimals(ctx, token)
	if err != nil {
		return nil, appcommon.NewTransientChainError("get token decimals", err)
	}

	onChainAmount := util.ToBaseUnits(amount, decimals)
	if onChainAmount.Sign() == 0 {
		return nil, fmt.Errorf("invalid amount %s: below token precision of %d decimals", request.Amount, decimals)
	}
	deadline := NextUTCMidnight(a.now())

	domain := eth.DomainData{
		Name:              name,
		Version:           version,
		ChainId:           a.config.ChainId,
		VerifyingContract: a.contract.Address(),
	}
	claim := util.ClaimData{
		To:           claimant,
		Amount:       onChainAmount,
		Nonce:        nonce,
		Deadline:     big.NewInt(deadline.Unix()),
		TokenAddress: token,
	}

	signature, err := util.SignClaim(domain, claim, a.signer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign claim: %w", err)
	}

	stored, err := a.store.InsertClaim(models.ClaimAuthorization{
		ClaimKey:        request.ClaimKey,
		ClaimantAddress: claimant.Hex(),
		TokenAddress:    token.Hex(),
		TokenSymbol:     request.TokenSymbol,
		Amount:          amount.String(),
		OnChainAmount:   onChainAmount.String(),
		Nonce:           nonce.String(),
		Deadline:        deadline.Unix(),
		Signature:       hexutil.Encode(signature),
		CreatedAt:       a.now(),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[CLAIM] Signed claim for ", stored.ClaimantAddress, " with nonce ", stored.Nonce)
	return stored, nil
}
