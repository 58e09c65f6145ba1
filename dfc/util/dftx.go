package util

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const (
	DfTxMarker               = "DfTx"
	DfTxTypeAccountToAccount = byte('B')
)

type TokenBalance struct {
	TokenId uint32
	Amount  int64
}

type ScriptBalances struct {
	Script   []byte
	Balances []TokenBalance
}

// AccountToAccount moves token balances between account scripts.
type AccountToAccount struct {
	From []byte
	To   []ScriptBalances
}

func (a *AccountToAccount) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(DfTxMarker)
	buf.WriteByte(DfTxTypeAccountToAccount)

	if err := wire.WriteVarBytes(&buf, 0, a.From); err != nil {
		return nil, err
	}
	if err := wire.WriteVarInt(&buf, 0, uint64(len(a.To))); err != nil {
		return nil, err
	}
	for _, to := range a.To {
		if err := wire.WriteVarBytes(&buf, 0, to.Script); err != nil {
			return nil, err
		}
		if err := wire.WriteVarInt(&buf, 0, uint64(len(to.Balances))); err != nil {
			return nil, err
		}
		for _, balance := range to.Balances {
			if err := binary.Write(&buf, binary.LittleEndian, balance.TokenId); err != nil {
				return nil, err
			}
			if err := binary.Write(&buf, binary.LittleEndian, balance.Amount); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

// Script wraps the serialized message in an OP_RETURN output script.
func (a *AccountToAccount) Script() ([]byte, error) {
	payload, err := a.Serialize()
	if err != nil {
		return nil, err
	}
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_RETURN).
		AddData(payload).
		Script()
}
