package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"

	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
)

const tokenDecimalsCacheSize = 256

// DomainData mirrors the EIP-5267 eip712Domain() return tuple.
type DomainData struct {
	Fields            [1]byte
	Name              string
	Version           string
	ChainId           *big.Int
	VerifyingContract common.Address
	Salt              [32]byte
	Extensions        []*big.Int
}

type BridgeContract interface {
	Address() common.Address
	NonceOf(ctx context.Context, address common.Address) (*big.Int, error)
	DomainName(ctx context.Context) (string, error)
	DomainVersion(ctx context.Context) (string, error)
	TokenDecimals(ctx context.Context, tokenAddress common.Address) (uint8, error)
}

type bridgeContract struct {
	address  common.Address
	contract *bind.BoundContract
	backend  bind.ContractBackend
	decimals *lru.Cache
}

func (c *bridgeContract) Address() common.Address {
	return c.address
}

func (c *bridgeContract) NonceOf(ctx context.Context, address common.Address) (*big.Int, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "eoaAddressToNonce", address)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected eoaAddressToNonce output length %d", len(out))
	}
	nonce := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return nonce, nil
}

func (c *bridgeContract) domain(ctx context.Context) (DomainData, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "eip712Domain")
	if err != nil {
		return DomainData{}, err
	}
	if len(out) != 7 {
		return DomainData{}, fmt.Errorf("unexpected eip712Domain output length %d", len(out))
	}

	return DomainData{
		Fields:            *abi.ConvertType(out[0], new([1]byte)).(*[1]byte),
		Name:              *abi.ConvertType(out[1], new(string)).(*string),
		Version:           *abi.ConvertType(out[2], new(string)).(*string),
		ChainId:           *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		VerifyingContract: *abi.ConvertType(out[4], new(common.Address)).(*common.Address),
		Salt:              *abi.ConvertType(out[5], new([32]byte)).(*[32]byte),
		Extensions:        *abi.ConvertType(out[6], new([]*big.Int)).(*[]*big.Int),
	}, nil
}

func (c *bridgeContract) DomainName(ctx context.Context) (string, error) {
	domain, err := c.domain(ctx)
	if err != nil {
		return "", err
	}
	return domain.Name, nil
}

func (c *bridgeContract) DomainVersion(ctx context.Context) (string, error) {
	domain, err := c.domain(ctx)
	if err != nil {
		return "", err
	}
	return domain.Version, nil
}

// TokenDecimals returns the on-chain precision of a token. The zero address
// is the native asset.
func (c *bridgeContract) TokenDecimals(ctx context.Context, tokenAddress common.Address) (uint8, error) {
	if tokenAddress == (common.Address{}) {
		return appcommon.NativeTokenDecimals, nil
	}

	key := strings.ToLower(tokenAddress.Hex())
	if cached, ok := c.decimals.Get(key); ok {
		return cached.(uint8), nil
	}

	token := bind.NewBoundContract(tokenAddress, ERC20ABI, c.backend, c.backend, c.backend)
	var out []interface{}
	err := token.Call(&bind.CallOpts{Context: ctx}, &out, "decimals")
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("unexpected decimals output length %d", len(out))
	}
	decimals := *abi.ConvertType(out[0], new(uint8)).(*uint8)

	c.decimals.Add(key, decimals)
	return decimals, nil
}

func NewBridgeContract(address common.Address, backend bind.ContractBackend) (BridgeContract, error) {
	cache, err := lru.New(tokenDecimalsCacheSize)
	if err != nil {
		return nil, err
	}
	return &bridgeContract{
		address:  address,
		contract: bind.NewBoundContract(address, BridgeABI, backend, backend, backend),
		backend:  backend,
		decimals: cache,
	}, nil
}
