// Package settle turns an advisory payout into the outputs of a BSV payment
// transaction. Funding inputs, change and signing stay with the wallet that
// broadcasts it.
package settle

import (
	"fmt"
	"sort"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	"github.com/bitfsorg/nftext-go/royalty"
)

// AddressBook maps ledger accounts to the P2PKH hash that receives their funds.
type AddressBook map[royalty.AccountID][]byte

// Output is one payment of a settlement.
type Output struct {
	Account royalty.AccountID
	Vout    uint32
	Amount  uint64 // satoshis
}

// Settlement is an unsigned payment transaction for a payout.
type Settlement struct {
	Tx      *transaction.Transaction
	RawTx   []byte   // serialized unsigned transaction
	Outputs []Output // one per paid recipient, in output order
	Total   uint64
}

// BuildTx creates one P2PKH output per recipient with a non-zero amount,
// ordered by account so the same payout always yields the same transaction.
func BuildTx(payout royalty.Payout, book AddressBook) (*Settlement, error) {
	accounts := make([]royalty.AccountID, 0, len(payout))
	for acct := range payout {
		accounts = append(accounts, acct)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	sdkTx := transaction.NewTransaction()
	s := &Settlement{Tx: sdkTx}

	for _, acct := range accounts {
		owed := payout[acct]
		if owed.IsZero() {
			continue
		}
		sats, ok := owed.Uint64()
		if !ok {
			return nil, fmt.Errorf("%w: %s owed %s", ErrAmountTooLarge, acct, owed)
		}
		if s.Total+sats < s.Total {
			return nil, fmt.Errorf("%w: total overflows", ErrAmountTooLarge)
		}

		lock, err := lockingScript(book, acct)
		if err != nil {
			return nil, err
		}
		sdkTx.Outputs = append(sdkTx.Outputs, &transaction.TransactionOutput{
			Satoshis:      sats,
			LockingScript: lock,
		})
		s.Outputs = append(s.Outputs, Output{Account: acct, Vout: uint32(len(sdkTx.Outputs) - 1), Amount: sats})
		s.Total += sats
	}

	if len(s.Outputs) == 0 {
		return nil, ErrEmptyPayout
	}
	s.RawTx = sdkTx.Bytes()
	return s, nil
}

func lockingScript(book AddressBook, acct royalty.AccountID) (*script.Script, error) {
	pkh, ok := book[acct]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBeneficiary, acct)
	}
	if len(pkh) != 20 {
		return nil, fmt.Errorf("%w: %s has %d bytes", ErrInvalidAddress, acct, len(pkh))
	}
	addr, err := script.NewAddressFromPublicKeyHash(pkh, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s address: %w", ErrScriptBuild, acct, err)
	}
	lock, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s lock script: %w", ErrScriptBuild, acct, err)
	}
	return lock, nil
}
