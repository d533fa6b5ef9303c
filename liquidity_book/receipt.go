package liquiditybook

import "github.com/google/uuid"

// ReceiptEntry is one bin's slice of a deposit.
type ReceiptEntry struct {
	BinID uint64
	Left  uint64
	Right uint64
}

// Receipt is the proof of a deposit. It is the sole artifact granting
// withdrawal rights and is consumed by Withdraw; a consumed receipt has
// no entries and redeems nothing.
type Receipt struct {
	poolID        uuid.UUID
	depositTimeMs uint64
	entries       []ReceiptEntry
}

// NewReceipt rebuilds a receipt from persisted fields. Hosts should only
// feed back receipts they previously serialized.
func NewReceipt(poolID uuid.UUID, depositTimeMs uint64, entries []ReceiptEntry) *Receipt {
	return &Receipt{
		poolID:        poolID,
		depositTimeMs: depositTimeMs,
		entries:       append([]ReceiptEntry(nil), entries...),
	}
}

func (r *Receipt) PoolID() uuid.UUID {
	return r.poolID
}

func (r *Receipt) DepositTimeMs() uint64 {
	return r.depositTimeMs
}

func (r *Receipt) Entries() []ReceiptEntry {
	return append([]ReceiptEntry(nil), r.entries...)
}

func (r *Receipt) consume() []ReceiptEntry {
	entries := r.entries
	r.entries = nil
	return entries
}
