// Package state persists pool and receipt snapshots. The wire format is
// borsh; bin ids ride as u64 and price mantissas as 32-byte big-endian
// words, so any 256-bit mantissa round-trips exactly.
package state

import (
	"bytes"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/google/uuid"

	liquiditybook "github.com/liqbook/liquidity-book-go/liquidity_book"
)

type feeEntryRecord struct {
	Amount             uint64
	TimestampMs        uint64
	TotalBinSizeAsLeft uint64
}

type binRecord struct {
	ID            uint64
	PriceMantissa [32]uint8
	BalanceLeft   uint64
	BalanceRight  uint64
	ProvidedLeft  uint64
	ProvidedRight uint64
	FeeLogLeft    []feeEntryRecord
	FeeLogRight   []feeEntryRecord
}

type poolRecord struct {
	ID           [16]uint8
	BinStepBps   uint64
	FeeBps       uint64
	ActiveBinID  uint64
	ReserveLeft  uint64
	ReserveRight uint64
	Bins         []binRecord
}

type receiptEntryRecord struct {
	BinID uint64
	Left  uint64
	Right uint64
}

type receiptRecord struct {
	PoolID        [16]uint8
	DepositTimeMs uint64
	Entries       []receiptEntryRecord
}

// EncodePool serializes a pool snapshot.
func EncodePool(s *liquiditybook.PoolState) ([]byte, error) {
	rec := poolRecord{
		ID:           [16]uint8(s.ID),
		BinStepBps:   s.BinStepBps,
		FeeBps:       s.FeeBps,
		ActiveBinID:  s.ActiveBinID,
		ReserveLeft:  s.ReserveLeft,
		ReserveRight: s.ReserveRight,
		Bins:         make([]binRecord, 0, len(s.Bins)),
	}
	for _, b := range s.Bins {
		br := binRecord{
			ID:            b.ID,
			BalanceLeft:   b.BalanceLeft,
			BalanceRight:  b.BalanceRight,
			ProvidedLeft:  b.ProvidedLeft,
			ProvidedRight: b.ProvidedRight,
			FeeLogLeft:    feeEntriesToRecords(b.FeeLogLeft),
			FeeLogRight:   feeEntriesToRecords(b.FeeLogRight),
		}
		if b.PriceMantissa.BitLen() > 256 || b.PriceMantissa.Sign() < 0 {
			return nil, fmt.Errorf("state: bin %d price mantissa out of range", b.ID)
		}
		b.PriceMantissa.FillBytes(br.PriceMantissa[:])
		rec.Bins = append(rec.Bins, br)
	}

	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(rec); err != nil {
		return nil, fmt.Errorf("state: encode pool: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePool deserializes a pool snapshot.
func DecodePool(data []byte) (*liquiditybook.PoolState, error) {
	var rec poolRecord
	if err := binary.NewBorshDecoder(data).Decode(&rec); err != nil {
		return nil, fmt.Errorf("state: decode pool: %w", err)
	}
	s := &liquiditybook.PoolState{
		ID:           uuid.UUID(rec.ID),
		BinStepBps:   rec.BinStepBps,
		FeeBps:       rec.FeeBps,
		ActiveBinID:  rec.ActiveBinID,
		ReserveLeft:  rec.ReserveLeft,
		ReserveRight: rec.ReserveRight,
		Bins:         make([]liquiditybook.BinState, 0, len(rec.Bins)),
	}
	for _, br := range rec.Bins {
		s.Bins = append(s.Bins, liquiditybook.BinState{
			ID:            br.ID,
			PriceMantissa: new(big.Int).SetBytes(br.PriceMantissa[:]),
			BalanceLeft:   br.BalanceLeft,
			BalanceRight:  br.BalanceRight,
			ProvidedLeft:  br.ProvidedLeft,
			ProvidedRight: br.ProvidedRight,
			FeeLogLeft:    recordsToFeeEntries(br.FeeLogLeft),
			FeeLogRight:   recordsToFeeEntries(br.FeeLogRight),
		})
	}
	return s, nil
}

// EncodeReceipt serializes a receipt.
func EncodeReceipt(r *liquiditybook.Receipt) ([]byte, error) {
	rec := receiptRecord{
		PoolID:        [16]uint8(r.PoolID()),
		DepositTimeMs: r.DepositTimeMs(),
	}
	for _, e := range r.Entries() {
		rec.Entries = append(rec.Entries, receiptEntryRecord{BinID: e.BinID, Left: e.Left, Right: e.Right})
	}
	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(rec); err != nil {
		return nil, fmt.Errorf("state: encode receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeReceipt deserializes a receipt.
func DecodeReceipt(data []byte) (*liquiditybook.Receipt, error) {
	var rec receiptRecord
	if err := binary.NewBorshDecoder(data).Decode(&rec); err != nil {
		return nil, fmt.Errorf("state: decode receipt: %w", err)
	}
	entries := make([]liquiditybook.ReceiptEntry, 0, len(rec.Entries))
	for _, e := range rec.Entries {
		entries = append(entries, liquiditybook.ReceiptEntry{BinID: e.BinID, Left: e.Left, Right: e.Right})
	}
	return liquiditybook.NewReceipt(uuid.UUID(rec.PoolID), rec.DepositTimeMs, entries), nil
}

func feeEntriesToRecords(entries []liquiditybook.FeeEntry) []feeEntryRecord {
	out := make([]feeEntryRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, feeEntryRecord{
			Amount:             e.Amount,
			TimestampMs:        e.TimestampMs,
			TotalBinSizeAsLeft: e.TotalBinSizeAsLeft,
		})
	}
	return out
}

func recordsToFeeEntries(records []feeEntryRecord) []liquiditybook.FeeEntry {
	if len(records) == 0 {
		return nil
	}
	out := make([]liquiditybook.FeeEntry, 0, len(records))
	for _, r := range records {
		out = append(out, liquiditybook.FeeEntry{
			Amount:             r.Amount,
			TimestampMs:        r.TimestampMs,
			TotalBinSizeAsLeft: r.TotalBinSizeAsLeft,
		})
	}
	return out
}
