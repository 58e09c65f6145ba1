package allocator

import (
	"context"
	"errors"
	"io"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	log "github.com/sirupsen/logrus"

	appcommon "github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/confirm"
	dfc "github.com/dan13ram/dfc-bridge-settler/dfc/client"
	dfcmocks "github.com/dan13ram/dfc-bridge-settler/dfc/client/mocks"
	dfcutil "github.com/dan13ram/dfc-bridge-settler/dfc/util"
	eth "github.com/dan13ram/dfc-bridge-settler/eth/client"
	ethmocks "github.com/dan13ram/dfc-bridge-settler/eth/client/mocks"
	"github.com/dan13ram/dfc-bridge-settler/ledger"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

func init() {
	log.SetOutput(io.Discard)
}

var (
	testBridgeAddress = common.HexToAddress("0x96E07fD9A5CE8B8A6DB6A2adB63da05eC9D1b6a0")
	testTokenAddress  = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	testPayoutTxHash  = "9f2c6a1c30b8ad3a0f1e6e1d0a3f2b4c5d6e7f8091a2b3c4d5e6f708192a3b4c"
	testMnemonic      = "test test test test test test test test test test test junk"
)

// memStore keeps deposits in memory with the same conditional write rules as
// the ledger.
type memStore struct {
	mu       sync.Mutex
	locks    sync.Map
	deposits map[string]*models.BridgeDeposit
	source   confirm.Result
	pending  int
}

func newMemStore(source confirm.Result) *memStore {
	return &memStore{deposits: map[string]*models.BridgeDeposit{}, source: source}
}

func (s *memStore) Lock(ctx context.Context, resource string) (func(), error) {
	l, _ := s.locks.LoadOrStore(resource, &sync.Mutex{})
	l.(*sync.Mutex).Lock()
	return l.(*sync.Mutex).Unlock, nil
}

func (s *memStore) RecordDeposit(ctx context.Context, sourceTxHash string) (*models.BridgeDeposit, confirm.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deposit, ok := s.deposits[sourceTxHash]
	if !ok {
		deposit = &models.BridgeDeposit{SourceTxHash: sourceTxHash, Status: models.DepositStatusNotConfirmed}
		s.deposits[sourceTxHash] = deposit
	}
	deposit.Confirmations = s.source.Confirmations
	if s.source.IsConfirmed() {
		deposit.Status = models.DepositStatusConfirmed
	}
	copied := *deposit
	return &copied, s.source, nil
}

func (s *memStore) GetDeposit(sourceTxHash string) (*models.BridgeDeposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deposit, ok := s.deposits[sourceTxHash]
	if !ok {
		return nil, appcommon.NewNotFoundError("deposit", sourceTxHash)
	}
	copied := *deposit
	return &copied, nil
}

func (s *memStore) SetDepositDetails(sourceTxHash string, details ledger.DepositDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deposit := s.deposits[sourceTxHash]
	if deposit.PayoutTxHash != "" || deposit.PendingPayoutTxHash != "" {
		return appcommon.NewGuardViolationError("payout dispatched", "", "deposit details are frozen")
	}
	deposit.Amount = details.Amount
	deposit.TokenSymbol = details.TokenSymbol
	deposit.PayoutAmount = details.PayoutAmount
	return nil
}

func (s *memStore) SetPendingPayout(sourceTxHash string, payoutTxHash string, rawTx string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deposit := s.deposits[sourceTxHash]
	if deposit.Status != models.DepositStatusConfirmed || deposit.PayoutTxHash != "" || deposit.PendingPayoutTxHash != "" {
		return false, nil
	}
	deposit.PendingPayoutTxHash = payoutTxHash
	deposit.PendingPayoutRawTx = rawTx
	s.pending++
	return true, nil
}

func (s *memStore) PromotePayout(sourceTxHash string, pendingTxHash string, blockHeight int64, blockHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deposit := s.deposits[sourceTxHash]
	if deposit.PendingPayoutTxHash != pendingTxHash || deposit.PayoutTxHash != "" {
		return false, nil
	}
	deposit.PayoutTxHash = pendingTxHash
	deposit.PendingPayoutTxHash = ""
	deposit.PendingPayoutRawTx = ""
	deposit.BlockHeight = blockHeight
	deposit.BlockHash = blockHash
	return true, nil
}

func (s *memStore) FindPendingPayouts() ([]models.BridgeDeposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deposits := []models.BridgeDeposit{}
	for _, deposit := range s.deposits {
		if deposit.PendingPayoutTxHash != "" && deposit.PayoutTxHash == "" {
			deposits = append(deposits, *deposit)
		}
	}
	return deposits, nil
}

type payoutTracker struct {
	mu     sync.Mutex
	result confirm.Result
	calls  int
}

func (p *payoutTracker) set(result confirm.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result = result
}

func (p *payoutTracker) Evaluate(ctx context.Context, txHash string, chain models.ChainType) (confirm.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.result, nil
}

func (p *payoutTracker) Required(chain models.ChainType) int64 {
	return 35
}

func testRecipient(t *testing.T) string {
	address, err := btcutil.NewAddressWitnessPubKeyHash(make([]byte, 20), &appcommon.DefiChainTestNetParams)
	assert.Nil(t, err)
	return address.EncodeAddress()
}

func depositTx(t *testing.T, to common.Address, recipient string, token common.Address, amount *big.Int) *types.Transaction {
	data, err := eth.BridgeABI.Pack(eth.BridgeToDefiChainMethod, []byte(recipient), token, amount)
	assert.Nil(t, err)
	return types.NewTx(&types.LegacyTx{
		Nonce:    1,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      100000,
		GasPrice: big.NewInt(1),
		Data:     data,
	})
}

type testAllocator struct {
	allocator *Allocator
	store     *memStore
	tracker   *payoutTracker
	ethClient *ethmocks.MockEthereumClient
	contract  *ethmocks.MockBridgeContract
	dfcClient *dfcmocks.MockDefiChainClient
	hash      string
}

func newTestAllocator(t *testing.T, tx *types.Transaction, source confirm.Result) *testAllocator {
	ta := &testAllocator{
		store:     newMemStore(source),
		tracker:   &payoutTracker{result: confirm.Result{State: confirm.StatePending, Required: 35}},
		ethClient: ethmocks.NewMockEthereumClient(t),
		contract:  ethmocks.NewMockBridgeContract(t),
		dfcClient: dfcmocks.NewMockDefiChainClient(t),
		hash:      appcommon.NormalizeTxHash(tx.Hash().Hex()),
	}

	ta.ethClient.EXPECT().GetTransactionByHash(mock.Anything, ta.hash).Return(tx, false, nil).Maybe()
	ta.ethClient.EXPECT().GetTransactionReceipt(mock.Anything, ta.hash).Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil).Maybe()
	ta.contract.EXPECT().TokenDecimals(mock.Anything, testTokenAddress).Return(uint8(6), nil).Maybe()
	ta.dfcClient.EXPECT().PayoutAddress().Return("tf1qpayout").Maybe()

	ta.allocator = NewAllocator(Config{
		BridgeAddress:     testBridgeAddress,
		FeeRate:           decimal.RequireFromString("0.003"),
		BroadcastAttempts: 3,
		RetryInterval:     time.Millisecond,
		Tokens:            map[common.Address]string{testTokenAddress: "USDT"},
		Params:            &appcommon.DefiChainTestNetParams,
	}, ta.store, ta.tracker, ta.ethClient, ta.contract, ta.dfcClient)
	return ta
}

var confirmedSource = confirm.Result{State: confirm.StateConfirmed, Confirmations: 65, Required: 65}

func TestAllocateScenario(t *testing.T) {
	recipient := testRecipient(t)
	tx := depositTx(t, testBridgeAddress, recipient, testTokenAddress, big.NewInt(100_000000))
	ta := newTestAllocator(t, tx, confirmedSource)
	ctx := context.Background()

	ta.dfcClient.EXPECT().CraftTransaction(mock.Anything, mock.MatchedBy(func(request dfc.PayoutRequest) bool {
		return request.Address == recipient &&
			request.Symbol == "USDT" &&
			request.Amount.Equal(decimal.RequireFromString("99.7"))
	})).Return(&dfcutil.SignedTx{TxHash: testPayoutTxHash, RawTx: "0200"}, nil).Once()
	ta.dfcClient.EXPECT().BroadcastSignedTransaction(mock.Anything, "0200").Return(testPayoutTxHash, nil).Once()

	result, err := ta.allocator.Allocate(ctx, ta.hash)
	assert.Nil(t, err)
	assert.Equal(t, KindAwaitingConfirmation, result.Kind)
	assert.Equal(t, testPayoutTxHash, result.PayoutTxHash)
	assert.Equal(t, int64(0), result.Confirmations)

	deposit, _ := ta.store.GetDeposit(ta.hash)
	assert.Equal(t, "100", deposit.Amount)
	assert.Equal(t, "99.7", deposit.PayoutAmount)
	assert.Equal(t, testPayoutTxHash, deposit.PendingPayoutTxHash)

	ta.tracker.set(confirm.Result{State: confirm.StateUnderConfirmed, Confirmations: 10, Required: 35})
	result, err = ta.allocator.Allocate(ctx, ta.hash)
	assert.Nil(t, err)
	assert.Equal(t, KindAwaitingConfirmation, result.Kind)
	assert.Equal(t, int64(10), result.Confirmations)

	ta.tracker.set(confirm.Result{State: confirm.StateConfirmed, Confirmations: 35, Required: 35, Height: 1000, BlockHash: "bb"})
	result, err = ta.allocator.Allocate(ctx, ta.hash)
	assert.Nil(t, err)
	assert.Equal(t, KindDispatched, result.Kind)
	assert.Equal(t, testPayoutTxHash, result.PayoutTxHash)
	assert.True(t, result.IsConfirmed())

	deposit, _ = ta.store.GetDeposit(ta.hash)
	assert.Equal(t, testPayoutTxHash, deposit.PayoutTxHash)
	assert.Equal(t, "", deposit.PendingPayoutTxHash)
	assert.Equal(t, int64(1000), deposit.BlockHeight)

	result, err = ta.allocator.Allocate(ctx, ta.hash)
	assert.Nil(t, err)
	assert.Equal(t, KindAlreadyAllocated, result.Kind)
	assert.Equal(t, testPayoutTxHash, result.PayoutTxHash)
	assert.Equal(t, 1, ta.store.pending)
}

func TestAllocateRejected(t *testing.T) {
	recipient := testRecipient(t)

	t.Run("Wrong contract", func(t *testing.T) {
		tx := depositTx(t, testTokenAddress, recipient, testTokenAddress, big.NewInt(100))
		ta := newTestAllocator(t, tx, confirmedSource)

		result, err := ta.allocator.Allocate(context.Background(), ta.hash)
		assert.Nil(t, err)
		assert.Equal(t, KindRejected, result.Kind)
		assert.Equal(t, "unexpected contract address", result.Reason)
		assert.Empty(t, ta.store.deposits)
	})

	t.Run("Reverted", func(t *testing.T) {
		tx := depositTx(t, testBridgeAddress, recipient, testTokenAddress, big.NewInt(100))
		ta := &testAllocator{
			store:     newMemStore(confirmedSource),
			ethClient: ethmocks.NewMockEthereumClient(t),
			hash:      appcommon.NormalizeTxHash(tx.Hash().Hex()),
		}
		ta.ethClient.EXPECT().GetTransactionByHash(mock.Anything, ta.hash).Return(tx, false, nil)
		ta.ethClient.EXPECT().GetTransactionReceipt(mock.Anything, ta.hash).Return(&types.Receipt{Status: types.ReceiptStatusFailed}, nil)
		allocator := NewAllocator(Config{BridgeAddress: testBridgeAddress}, ta.store, nil, ta.ethClient, nil, nil)

		result, err := allocator.Allocate(context.Background(), ta.hash)
		assert.Nil(t, err)
		assert.Equal(t, KindRejected, result.Kind)
		assert.Equal(t, "transaction reverted", result.Reason)
	})

	t.Run("Unsupported token", func(t *testing.T) {
		other := common.HexToAddress("0x0000000000000000000000000000000000000abc")
		tx := depositTx(t, testBridgeAddress, recipient, other, big.NewInt(100))
		ta := newTestAllocator(t, tx, confirmedSource)

		result, err := ta.allocator.Allocate(context.Background(), ta.hash)
		assert.Nil(t, err)
		assert.Equal(t, KindRejected, result.Kind)
		assert.Contains(t, result.Reason, "unsupported token")
	})

	t.Run("Recipient on another network", func(t *testing.T) {
		address, _ := btcutil.NewAddressWitnessPubKeyHash(make([]byte, 20), &appcommon.DefiChainMainNetParams)
		tx := depositTx(t, testBridgeAddress, address.EncodeAddress(), testTokenAddress, big.NewInt(100))
		ta := newTestAllocator(t, tx, confirmedSource)

		result, err := ta.allocator.Allocate(context.Background(), ta.hash)
		assert.Nil(t, err)
		assert.Equal(t, KindRejected, result.Kind)
		assert.Equal(t, "invalid recipient address", result.Reason)
	})
}

func TestAllocateSourceNotFinal(t *testing.T) {
	recipient := testRecipient(t)
	tx := depositTx(t, testBridgeAddress, recipient, testTokenAddress, big.NewInt(100))

	t.Run("Under confirmed", func(t *testing.T) {
		ta := newTestAllocator(t, tx, confirm.Result{State: confirm.StateUnderConfirmed, Confirmations: 12, Required: 65})

		result, err := ta.allocator.Allocate(context.Background(), ta.hash)
		assert.Nil(t, err)
		assert.Equal(t, KindSourceNotFinal, result.Kind)
		assert.Equal(t, int64(12), result.Confirmations)
		assert.False(t, result.IsConfirmed())
	})

	t.Run("Still in mempool", func(t *testing.T) {
		ethClient := ethmocks.NewMockEthereumClient(t)
		hash := appcommon.NormalizeTxHash(tx.Hash().Hex())
		ethClient.EXPECT().GetTransactionByHash(mock.Anything, hash).Return(tx, true, nil)
		allocator := NewAllocator(Config{BridgeAddress: testBridgeAddress}, newMemStore(confirmedSource), nil, ethClient, nil, nil)

		result, err := allocator.Allocate(context.Background(), hash)
		assert.Nil(t, err)
		assert.Equal(t, KindSourceNotFinal, result.Kind)
	})

	t.Run("Timed out", func(t *testing.T) {
		ethClient := ethmocks.NewMockEthereumClient(t)
		hash := appcommon.NormalizeTxHash(tx.Hash().Hex())
		ethClient.EXPECT().GetTransactionByHash(mock.Anything, hash).Return(nil, false, context.DeadlineExceeded)
		allocator := NewAllocator(Config{BridgeAddress: testBridgeAddress}, newMemStore(confirmedSource), nil, ethClient, nil, nil)

		result, err := allocator.Allocate(context.Background(), hash)
		assert.Nil(t, err)
		assert.Equal(t, KindSourceNotFinal, result.Kind)
	})
}

func TestAllocateBroadcast(t *testing.T) {
	recipient := testRecipient(t)
	tx := depositTx(t, testBridgeAddress, recipient, testTokenAddress, big.NewInt(100_000000))
	signed := &dfcutil.SignedTx{TxHash: testPayoutTxHash, RawTx: "0200"}

	t.Run("Transient failures are retried with the same payload", func(t *testing.T) {
		ta := newTestAllocator(t, tx, confirmedSource)
		ta.dfcClient.EXPECT().CraftTransaction(mock.Anything, mock.Anything).Return(signed, nil).Once()
		ta.dfcClient.EXPECT().BroadcastSignedTransaction(mock.Anything, "0200").Return("", errors.New("connection reset")).Twice()
		ta.dfcClient.EXPECT().BroadcastSignedTransaction(mock.Anything, "0200").Return(testPayoutTxHash, nil).Once()

		result, err := ta.allocator.Allocate(context.Background(), ta.hash)
		assert.Nil(t, err)
		assert.Equal(t, KindAwaitingConfirmation, result.Kind)
	})

	t.Run("Exhausted retries keep the pending payout", func(t *testing.T) {
		ta := newTestAllocator(t, tx, confirmedSource)
		ta.dfcClient.EXPECT().CraftTransaction(mock.Anything, mock.Anything).Return(signed, nil).Once()
		ta.dfcClient.EXPECT().BroadcastSignedTransaction(mock.Anything, "0200").Return("", errors.New("connection reset")).Times(3)

		_, err := ta.allocator.Allocate(context.Background(), ta.hash)
		assert.True(t, errors.Is(err, appcommon.ErrTransientChain))

		deposit, _ := ta.store.GetDeposit(ta.hash)
		assert.Equal(t, testPayoutTxHash, deposit.PendingPayoutTxHash)
		assert.Equal(t, "0200", deposit.PendingPayoutRawTx)
	})

	t.Run("Node rejection is not retried", func(t *testing.T) {
		ta := newTestAllocator(t, tx, confirmedSource)
		ta.dfcClient.EXPECT().CraftTransaction(mock.Anything, mock.Anything).Return(signed, nil).Once()
		ta.dfcClient.EXPECT().BroadcastSignedTransaction(mock.Anything, "0200").
			Return("", &btcjson.RPCError{Code: -26, Message: "bad-txns-inputs-missingorspent"}).Once()

		_, err := ta.allocator.Allocate(context.Background(), ta.hash)
		assert.NotNil(t, err)
		assert.False(t, errors.Is(err, appcommon.ErrTransientChain))
	})

	t.Run("Unseen payout is rebroadcast, never re-signed", func(t *testing.T) {
		ta := newTestAllocator(t, tx, confirmedSource)
		ta.store.RecordDeposit(context.Background(), ta.hash)
		ta.store.SetPendingPayout(ta.hash, testPayoutTxHash, "0200")

		ta.dfcClient.EXPECT().BroadcastSignedTransaction(mock.Anything, "0200").
			Return("", &btcjson.RPCError{Code: -27, Message: "transaction already in block chain"}).Once()

		result, err := ta.allocator.Allocate(context.Background(), ta.hash)
		assert.Nil(t, err)
		assert.Equal(t, KindAwaitingConfirmation, result.Kind)
		assert.Equal(t, testPayoutTxHash, result.PayoutTxHash)
		assert.Equal(t, 1, ta.store.pending)
	})
}

func TestAllocateConcurrently(t *testing.T) {
	recipient := testRecipient(t)
	tx := depositTx(t, testBridgeAddress, recipient, testTokenAddress, big.NewInt(100_000000))
	ta := newTestAllocator(t, tx, confirmedSource)

	var crafted int32
	ta.dfcClient.EXPECT().CraftTransaction(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, request dfc.PayoutRequest) (*dfcutil.SignedTx, error) {
			atomic.AddInt32(&crafted, 1)
			return &dfcutil.SignedTx{TxHash: testPayoutTxHash, RawTx: "0200"}, nil
		})
	ta.dfcClient.EXPECT().BroadcastSignedTransaction(mock.Anything, "0200").Return(testPayoutTxHash, nil)

	var wg sync.WaitGroup
	results := make([]Result, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := ta.allocator.Allocate(context.Background(), ta.hash)
			assert.Nil(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&crafted))
	assert.Equal(t, 1, ta.store.pending)
	for _, result := range results {
		assert.Equal(t, testPayoutTxHash, result.PayoutTxHash)
	}
}

func TestAllocateDepositsShareWallet(t *testing.T) {
	recipient := testRecipient(t)
	first := depositTx(t, testBridgeAddress, recipient, testTokenAddress, big.NewInt(100_000000))
	second := depositTx(t, testBridgeAddress, recipient, testTokenAddress, big.NewInt(200_000000))
	ta := newTestAllocator(t, first, confirmedSource)

	secondHash := appcommon.NormalizeTxHash(second.Hash().Hex())
	ta.ethClient.EXPECT().GetTransactionByHash(mock.Anything, secondHash).Return(second, false, nil).Maybe()
	ta.ethClient.EXPECT().GetTransactionReceipt(mock.Anything, secondHash).Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil).Maybe()

	wif, err := appcommon.DefiChainWIFFromMnemonic(testMnemonic, &appcommon.DefiChainTestNetParams)
	assert.Nil(t, err)
	address, err := dfcutil.P2WPKHAddress(wif, &appcommon.DefiChainTestNetParams)
	assert.Nil(t, err)
	script, err := txscript.PayToAddrScript(address)
	assert.Nil(t, err)
	wallet := []dfcutil.Utxo{
		{TxId: strings.Repeat("11", 32), Vout: 0, Amount: 100000, PkScript: script},
		{TxId: strings.Repeat("22", 32), Vout: 0, Amount: 100000, PkScript: script},
	}

	// counts payouts between signing and their first broadcast
	var inFlight int32
	ta.dfcClient.EXPECT().CraftTransaction(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, request dfc.PayoutRequest) (*dfcutil.SignedTx, error) {
			assert.Equal(t, int32(1), atomic.AddInt32(&inFlight, 1))
			tx, selected, err := dfcutil.BuildPayoutTx(dfcutil.ExcludeSpent(wallet, request.Exclude), dfcutil.PayoutTx{
				ToScript:     script,
				ChangeScript: script,
				TokenId:      3,
				Amount:       request.Amount.Shift(appcommon.DefiChainDecimals).IntPart(),
				Fee:          dfc.PayoutTxFee,
			})
			if err != nil {
				return nil, err
			}
			if err := dfcutil.SignP2WPKH(tx, selected, wif); err != nil {
				return nil, err
			}
			return dfcutil.EncodeSignedTx(tx)
		}).Times(2)
	ta.dfcClient.EXPECT().BroadcastSignedTransaction(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, rawTx string) (string, error) {
			atomic.AddInt32(&inFlight, -1)
			return dfcutil.TxHashFromHex(rawTx)
		}).Times(2)

	var wg sync.WaitGroup
	for _, hash := range []string{ta.hash, secondHash} {
		wg.Add(1)
		go func(hash string) {
			defer wg.Done()
			result, err := ta.allocator.Allocate(context.Background(), hash)
			assert.Nil(t, err)
			assert.Equal(t, KindAwaitingConfirmation, result.Kind)
		}(hash)
	}
	wg.Wait()

	spent := map[string]string{}
	for _, hash := range []string{ta.hash, secondHash} {
		deposit, _ := ta.store.GetDeposit(hash)
		outpoints, err := dfcutil.SpentOutpoints(deposit.PendingPayoutRawTx)
		assert.Nil(t, err)
		for _, outpoint := range outpoints {
			_, reused := spent[outpoint.String()]
			assert.False(t, reused, outpoint.String())
			spent[outpoint.String()] = hash
		}
	}
	assert.Len(t, spent, 2)
	assert.Equal(t, 2, ta.store.pending)
}
