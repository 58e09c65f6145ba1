package util

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const (
	PayoutTxVersion = 2
	DFITokenId      = 0
	DustLimit       = 546
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type Utxo struct {
	TxId     string
	Vout     uint32
	Amount   int64
	PkScript []byte
}

type PayoutTx struct {
	ToScript     []byte
	ChangeScript []byte
	TokenId      uint32
	Amount       int64
	Fee          int64
}

type SignedTx struct {
	TxHash string
	RawTx  string
}

// BuildPayoutTx spends utxos into a payout. DFI is paid as a plain output,
// other tokens through an AccountToAccount message from the change script.
func BuildPayoutTx(utxos []Utxo, payout PayoutTx) (*wire.MsgTx, []Utxo, error) {
	if payout.Amount <= 0 {
		return nil, nil, fmt.Errorf("invalid payout amount %d", payout.Amount)
	}

	required := payout.Fee
	if payout.TokenId == DFITokenId {
		required += payout.Amount
	}

	tx := wire.NewMsgTx(PayoutTxVersion)
	var selected []Utxo
	var total int64
	for _, utxo := range utxos {
		if total >= required {
			break
		}
		hash, err := chainhash.NewHashFromStr(utxo.TxId)
		if err != nil {
			return nil, nil, err
		}
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, utxo.Vout), nil, nil))
		selected = append(selected, utxo)
		total += utxo.Amount
	}
	if total < required {
		return nil, nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, total, required)
	}

	if payout.TokenId == DFITokenId {
		tx.AddTxOut(wire.NewTxOut(payout.Amount, payout.ToScript))
	} else {
		message := AccountToAccount{
			From: payout.ChangeScript,
			To: []ScriptBalances{{
				Script:   payout.ToScript,
				Balances: []TokenBalance{{TokenId: payout.TokenId, Amount: payout.Amount}},
			}},
		}
		script, err := message.Script()
		if err != nil {
			return nil, nil, err
		}
		tx.AddTxOut(wire.NewTxOut(0, script))
	}

	if change := total - required; change > DustLimit {
		tx.AddTxOut(wire.NewTxOut(change, payout.ChangeScript))
	}

	return tx, selected, nil
}

// SignP2WPKH signs every input of tx, which must all spend the P2WPKH
// output owned by wif.
func SignP2WPKH(tx *wire.MsgTx, prevOuts []Utxo, wif *btcutil.WIF) error {
	if len(prevOuts) != len(tx.TxIn) {
		return fmt.Errorf("expected %d previous outputs, got %d", len(tx.TxIn), len(prevOuts))
	}

	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, in := range tx.TxIn {
		fetcher.AddPrevOut(in.PreviousOutPoint, wire.NewTxOut(prevOuts[i].Amount, prevOuts[i].PkScript))
	}
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)

	for i := range tx.TxIn {
		witness, err := txscript.WitnessSignature(tx, sigHashes, i, prevOuts[i].Amount, prevOuts[i].PkScript, txscript.SigHashAll, wif.PrivKey, true)
		if err != nil {
			return err
		}
		tx.TxIn[i].Witness = witness
	}
	return nil
}

func P2WPKHAddress(wif *btcutil.WIF, params *chaincfg.Params) (*btcutil.AddressWitnessPubKeyHash, error) {
	return btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(wif.SerializePubKey()), params)
}

func EncodeSignedTx(tx *wire.MsgTx) (*SignedTx, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}
	return &SignedTx{
		TxHash: tx.TxHash().String(),
		RawTx:  hex.EncodeToString(buf.Bytes()),
	}, nil
}

func decodeTx(rawTx string) (*wire.MsgTx, error) {
	raw, err := hex.DecodeString(rawTx)
	if err != nil {
		return nil, err
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return &tx, nil
}

// TxHashFromHex returns the txid of a serialized transaction.
func TxHashFromHex(rawTx string) (string, error) {
	tx, err := decodeTx(rawTx)
	if err != nil {
		return "", err
	}
	return tx.TxHash().String(), nil
}

// SpentOutpoints lists the outpoints a serialized transaction consumes.
func SpentOutpoints(rawTx string) ([]wire.OutPoint, error) {
	tx, err := decodeTx(rawTx)
	if err != nil {
		return nil, err
	}
	spent := make([]wire.OutPoint, 0, len(tx.TxIn))
	for _, in := range tx.TxIn {
		spent = append(spent, in.PreviousOutPoint)
	}
	return spent, nil
}

// ExcludeSpent drops the utxos consumed by transactions that are signed but
// not yet seen by the wallet.
func ExcludeSpent(utxos []Utxo, spent []wire.OutPoint) []Utxo {
	if len(spent) == 0 {
		return utxos
	}
	used := make(map[string]struct{}, len(spent))
	for _, outpoint := range spent {
		used[outpoint.String()] = struct{}{}
	}
	available := make([]Utxo, 0, len(utxos))
	for _, utxo := range utxos {
		if _, ok := used[fmt.Sprintf("%s:%d", utxo.TxId, utxo.Vout)]; ok {
			continue
		}
		available = append(available, utxo)
	}
	return available
}
