package royalty

import (
	"fmt"
	"sort"
)

const (
	// TotalBasisPoints is 100% expressed in basis points.
	TotalBasisPoints = 10000

	// MaxBeneficiaries is the number of royalty recipients a schedule may hold.
	MaxBeneficiaries = 6
)

// AccountID is an opaque ledger account identifier.
type AccountID string

// Entry is one beneficiary of a schedule.
type Entry struct {
	Account AccountID
	Share   uint32 // basis points
}

// Schedule maps each beneficiary to its royalty share in basis points.
// A schedule is always replaced as a whole, never edited in place.
type Schedule map[AccountID]uint32

// Clone returns an independent copy of the schedule. A nil schedule clones
// to an empty one.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Total returns the sum of all shares. The sum is widened to uint64 so that
// malformed schedules cannot wrap around.
func (s Schedule) Total() uint64 {
	var total uint64
	for _, share := range s {
		total += uint64(share)
	}
	return total
}

// Beneficiaries returns the schedule's accounts in ascending order.
func (s Schedule) Beneficiaries() []AccountID {
	accounts := make([]AccountID, 0, len(s))
	for k := range s {
		accounts = append(accounts, k)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })
	return accounts
}

// Entries returns the schedule as a slice ordered by account.
func (s Schedule) Entries() []Entry {
	entries := make([]Entry, 0, len(s))
	for _, acct := range s.Beneficiaries() {
		entries = append(entries, Entry{Account: acct, Share: s[acct]})
	}
	return entries
}

// Payout maps each recipient of a sale to the amount owed to it.
type Payout map[AccountID]Amount

// Total returns the sum of all payout amounts.
func (p Payout) Total() (Amount, error) {
	var total Amount
	for acct, amt := range p {
		sum, err := total.Add(amt)
		if err != nil {
			return Amount{}, fmt.Errorf("%w: summing payout for %s", err, acct)
		}
		total = sum
	}
	return total, nil
}

// Shortfall returns how much of amount the payout leaves undistributed
// because of per-beneficiary rounding.
func (p Payout) Shortfall(amount Amount) (Amount, error) {
	total, err := p.Total()
	if err != nil {
		return Amount{}, err
	}
	return amount.Sub(total)
}
