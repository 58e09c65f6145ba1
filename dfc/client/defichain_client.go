package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/dfc/util"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

const (
	// PayoutTxFee is the flat fee in satoshis attached to every payout.
	PayoutTxFee int64 = 10000
	maxConfirmations  = 9999999
	historyLimit      = 100

	errRPCVerifyAlreadyInChain btcjson.RPCErrorCode = -27
)

type PayoutRequest struct {
	Address string
	Amount  decimal.Decimal
	Symbol  string
	// outpoints already spent by payouts the node may not know about yet
	Exclude []wire.OutPoint
}

type AccountHistory struct {
	Owner       string   `json:"owner"`
	BlockHeight int64    `json:"blockHeight"`
	BlockHash   string   `json:"blockHash"`
	Type        string   `json:"type"`
	TxId        string   `json:"txid"`
	Amounts     []string `json:"amounts"`
}

type DefiChainClient interface {
	ValidateNetwork(ctx context.Context) error
	GetBlockHeight(ctx context.Context) (int64, error)
	GetTransaction(ctx context.Context, txHash string) (*btcjson.TxRawResult, error)
	GetBlockHeaderHeight(ctx context.Context, blockHash string) (int64, error)
	GetAccountHistory(ctx context.Context, address string) ([]AccountHistory, error)
	ListTransactions(ctx context.Context, address string) ([]btcjson.ListTransactionsResult, error)
	CraftTransaction(ctx context.Context, request PayoutRequest) (*util.SignedTx, error)
	BroadcastSignedTransaction(ctx context.Context, rawTx string) (string, error)
	PayoutAddress() string
}

type defiChainClient struct {
	client        *rpcclient.Client
	params        *chaincfg.Params
	network       string
	timeout       time.Duration
	payoutKey     *btcutil.WIF
	payoutAddress btcutil.Address
}

// IsTxNotFound reports whether the node answered that it has no record of a tx.
func IsTxNotFound(err error) bool {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code == btcjson.ErrRPCNoTxInfo || rpcErr.Code == btcjson.ErrRPCInvalidAddressOrKey
	}
	return false
}

// IsAlreadyBroadcast reports whether the node refused a raw tx because it
// already holds it in the mempool or the chain.
func IsAlreadyBroadcast(err error) bool {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code == errRPCVerifyAlreadyInChain || strings.Contains(rpcErr.Message, "already")
	}
	return false
}

// IsNodeRejection reports whether err is an answer from the node, as opposed
// to a transport failure.
func IsNodeRejection(err error) bool {
	var rpcErr *btcjson.RPCError
	return errors.As(err, &rpcErr)
}

func await[T any](ctx context.Context, timeout time.Duration, receive func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := receive()
		done <- result{value, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (c *defiChainClient) rawRequest(ctx context.Context, method string, params []interface{}, result interface{}) error {
	rawParams := make([]json.RawMessage, 0, len(params))
	for _, param := range params {
		raw, err := json.Marshal(param)
		if err != nil {
			return err
		}
		rawParams = append(rawParams, raw)
	}

	raw, err := await(ctx, c.timeout, c.client.RawRequestAsync(method, rawParams).Receive)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(raw, result)
}

func (c *defiChainClient) PayoutAddress() string {
	return c.payoutAddress.EncodeAddress()
}

func (c *defiChainClient) ValidateNetwork(ctx context.Context) error {
	log.Debugln("[DFC]", "Validating network")

	var info struct {
		Chain  string `json:"chain"`
		Blocks int64  `json:"blocks"`
	}
	if err := c.rawRequest(ctx, "getblockchaininfo", nil, &info); err != nil {
		return fmt.Errorf("failed to get blockchain info: %w", err)
	}

	expected := map[string]string{
		common.DefiChainNetworkMainnet: "main",
		common.DefiChainNetworkTestnet: "test",
		common.DefiChainNetworkRegtest: "regtest",
	}[c.network]
	if info.Chain != expected {
		return fmt.Errorf("chain mismatch: expected %s, got %s", expected, info.Chain)
	}

	log.Debugln("[DFC]", "blocks", info.Blocks)
	log.Infoln("[DFC]", "Validated network")
	return nil
}

func (c *defiChainClient) GetBlockHeight(ctx context.Context) (int64, error) {
	return await(ctx, c.timeout, c.client.GetBlockCountAsync().Receive)
}

func (c *defiChainClient) GetTransaction(ctx context.Context, txHash string) (*btcjson.TxRawResult, error) {
	hash, err := chainhash.NewHashFromStr(common.Remove0xPrefix(txHash))
	if err != nil {
		return nil, err
	}
	return await(ctx, c.timeout, c.client.GetRawTransactionVerboseAsync(hash).Receive)
}

func (c *defiChainClient) GetBlockHeaderHeight(ctx context.Context, blockHash string) (int64, error) {
	hash, err := chainhash.NewHashFromStr(blockHash)
	if err != nil {
		return 0, err
	}
	header, err := await(ctx, c.timeout, c.client.GetBlockHeaderVerboseAsync(hash).Receive)
	if err != nil {
		return 0, err
	}
	return int64(header.Height), nil
}

func (c *defiChainClient) GetAccountHistory(ctx context.Context, address string) ([]AccountHistory, error) {
	var history []AccountHistory
	options := map[string]interface{}{"limit": historyLimit}
	if err := c.rawRequest(ctx, "listaccounthistory", []interface{}{address, options}, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *defiChainClient) ListTransactions(ctx context.Context, address string) ([]btcjson.ListTransactionsResult, error) {
	txs, err := await(ctx, c.timeout, c.client.ListTransactionsCountAsync("*", historyLimit).Receive)
	if err != nil {
		return nil, err
	}

	var filtered []btcjson.ListTransactionsResult
	for _, tx := range txs {
		if tx.Address == address {
			filtered = append(filtered, tx)
		}
	}
	return filtered, nil
}

func (c *defiChainClient) listUnspent(ctx context.Context) ([]util.Utxo, error) {
	unspent, err := await(ctx, c.timeout, c.client.ListUnspentMinMaxAddressesAsync(1, maxConfirmations, []btcutil.Address{c.payoutAddress}).Receive)
	if err != nil {
		return nil, err
	}

	utxos := make([]util.Utxo, 0, len(unspent))
	for _, item := range unspent {
		amount, err := btcutil.NewAmount(item.Amount)
		if err != nil {
			return nil, err
		}
		script, err := txscript.PayToAddrScript(c.payoutAddress)
		if err != nil {
			return nil, err
		}
		utxos = append(utxos, util.Utxo{
			TxId:     item.TxID,
			Vout:     item.Vout,
			Amount:   int64(amount),
			PkScript: script,
		})
	}
	return utxos, nil
}

// TokenId resolves a DFC token symbol through gettoken.
func (c *defiChainClient) TokenId(ctx context.Context, symbol string) (uint32, error) {
	if strings.EqualFold(symbol, "DFI") {
		return util.DFITokenId, nil
	}

	var tokens map[string]struct {
		Symbol    string `json:"symbol"`
		SymbolKey string `json:"symbolKey"`
	}
	if err := c.rawRequest(ctx, "gettoken", []interface{}{symbol}, &tokens); err != nil {
		return 0, err
	}
	for id := range tokens {
		var tokenId uint32
		if _, err := fmt.Sscanf(id, "%d", &tokenId); err != nil {
			return 0, fmt.Errorf("invalid token id %q: %w", id, err)
		}
		return tokenId, nil
	}
	return 0, common.NewNotFoundError("token", symbol)
}

// CraftTransaction builds and signs a payout from the configured payout
// address. Nothing is sent to the network.
func (c *defiChainClient) CraftTransaction(ctx context.Context, request PayoutRequest) (*util.SignedTx, error) {
	toAddress, err := DecodeAddress(request.Address, c.params)
	if err != nil {
		return nil, err
	}
	toScript, err := txscript.PayToAddrScript(toAddress)
	if err != nil {
		return nil, err
	}
	changeScript, err := txscript.PayToAddrScript(c.payoutAddress)
	if err != nil {
		return nil, err
	}

	tokenId, err := c.TokenId(ctx, request.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token %s: %w", request.Symbol, err)
	}

	utxos, err := c.listUnspent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unspent outputs: %w", err)
	}
	utxos = util.ExcludeSpent(utxos, request.Exclude)

	tx, selected, err := util.BuildPayoutTx(utxos, util.PayoutTx{
		ToScript:     toScript,
		ChangeScript: changeScript,
		TokenId:      tokenId,
		Amount:       request.Amount.Shift(common.DefiChainDecimals).IntPart(),
		Fee:          PayoutTxFee,
	})
	if err != nil {
		return nil, err
	}

	if err := util.SignP2WPKH(tx, selected, c.payoutKey); err != nil {
		return nil, fmt.Errorf("failed to sign payout: %w", err)
	}

	return util.EncodeSignedTx(tx)
}

func (c *defiChainClient) BroadcastSignedTransaction(ctx context.Context, rawTx string) (string, error) {
	var txHash string
	if err := c.rawRequest(ctx, "sendrawtransaction", []interface{}{rawTx}, &txHash); err != nil {
		return "", err
	}
	return txHash, nil
}

func NewClient(config models.DefiChainConfig, payoutKey *btcutil.WIF) (DefiChainClient, error) {
	params, err := common.DefiChainParams(config.Network)
	if err != nil {
		return nil, err
	}

	payoutAddress, err := util.P2WPKHAddress(payoutKey, params)
	if err != nil {
		return nil, err
	}
	if config.PayoutAddress != "" && config.PayoutAddress != payoutAddress.EncodeAddress() {
		return nil, fmt.Errorf("payout key does not match payout address %s", config.PayoutAddress)
	}

	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         config.RPCHost,
		User:         config.RPCUser,
		Pass:         config.RPCPassword,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
	if err != nil {
		return nil, err
	}

	network := config.Network
	if network == "" {
		network = common.DefiChainNetworkMainnet
	}

	return &defiChainClient{
		client:        client,
		params:        params,
		network:       network,
		timeout:       time.Duration(config.RPCTimeoutMillis) * time.Millisecond,
		payoutKey:     payoutKey,
		payoutAddress: payoutAddress,
	}, nil
}
