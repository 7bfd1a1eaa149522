package wallet

import (
	"context"
	"fmt"

	"github.com/aman-zulfiqar/titan-swap-client/internal/titan"
	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/sirupsen/logrus"
)

// LookupTables maps a table address to the addresses it holds.
type LookupTables map[solana.PublicKey]solana.PublicKeySlice

// FetchLookupTables loads each table one at a time. A missing or
// undecodable table fails the whole fetch.
func (w *Wallet) FetchLookupTables(ctx context.Context, addrs []solana.PublicKey) (LookupTables, error) {
	tables := make(LookupTables, len(addrs))
	for _, addr := range addrs {
		if _, ok := tables[addr]; ok {
			continue
		}
		info, err := w.rpc.GetAccountInfo(ctx, addr, w.cfg.DefaultCommitment)
		if err != nil {
			return nil, fmt.Errorf("lookup table %s: %w", addr, err)
		}
		state, err := addresslookuptable.DecodeAddressLookupTableState(info.Data)
		if err != nil {
			return nil, fmt.Errorf("lookup table %s: decode: %w", addr, err)
		}
		tables[addr] = state.Addresses

		w.logger.WithFields(logrus.Fields{
			"table":     addr.String(),
			"addresses": len(state.Addresses),
		}).Debug("loaded address lookup table")
	}
	return tables, nil
}

// BuildTransaction assembles a v0 transaction from swap paid by the wallet.
// A compute unit limit instruction is prepended when the swap carries an
// estimate.
func (w *Wallet) BuildTransaction(ctx context.Context, swap *titan.SwapResponse, tables LookupTables) (*solana.Transaction, error) {
	instructions := make([]solana.Instruction, 0, len(swap.Instructions)+1)
	if swap.ComputeUnitLimit > 0 {
		cu, err := computebudget.NewSetComputeUnitLimitInstruction(swap.ComputeUnitLimit).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit limit: %w", err)
		}
		instructions = append(instructions, cu)
	}
	instructions = append(instructions, swap.Instructions...)

	bh, err := w.rpc.GetLatestBlockhash(ctx, "processed")
	if err != nil {
		return nil, fmt.Errorf("failed to get blockhash: %w", err)
	}

	opts := []solana.TransactionOption{solana.TransactionPayer(w.pub)}
	if len(tables) > 0 {
		opts = append(opts, solana.TransactionAddressTables(tables))
	}
	tx, err := solana.NewTransaction(instructions, bh.Hash, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

// SignTx signs a transaction with the wallet's private key
func (w *Wallet) SignTx(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.pub) {
			return &w.priv
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// SendTx sends a signed transaction with the configured send options.
func (w *Wallet) SendTx(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to serialize transaction: %w", err)
	}
	sig, err := w.rpc.SendTransaction(ctx, raw, *w.cfg.SendOptions)
	if err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}

// Execute fetches the swap's lookup tables, then builds, signs and sends
// the transaction.
func (w *Wallet) Execute(ctx context.Context, swap *titan.SwapResponse) (solana.Signature, error) {
	tables, err := w.FetchLookupTables(ctx, swap.AddressLookupTableAddresses)
	if err != nil {
		return solana.Signature{}, err
	}

	tx, err := w.BuildTransaction(ctx, swap, tables)
	if err != nil {
		return solana.Signature{}, err
	}

	if err := w.SignTx(tx); err != nil {
		return solana.Signature{}, err
	}

	sig, err := w.SendTx(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}

	w.logger.WithFields(logrus.Fields{
		"signature":    sig.String(),
		"instructions": len(tx.Message.Instructions),
		"tables":       len(tables),
	}).Info("swap transaction sent")
	return sig, nil
}
