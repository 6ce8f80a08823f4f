package contract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/nftext-go/events"
	"github.com/bitfsorg/nftext-go/ledger"
	"github.com/bitfsorg/nftext-go/royalty"
)

const (
	owner royalty.AccountID = "collection.near"
	alice royalty.AccountID = "alice.near"
	bob   royalty.AccountID = "bob.near"
	carol royalty.AccountID = "carol.near"
	dave  royalty.AccountID = "dave.near"
)

type fixture struct {
	c     *Contract
	store *ledger.MemStore
	sink  *events.MemSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := ledger.NewMemStore()
	sink := events.NewMemSink()
	c, err := Init(owner, Deps{Tokens: store, States: store, Metadata: store, Events: sink})
	require.NoError(t, err)
	require.NoError(t, store.Mint("1", carol, nil))
	return &fixture{c: c, store: store, sink: sink}
}

func amt(v uint64) royalty.Amount { return royalty.NewAmount(v) }

func strPtr(s string) *string { return &s }

// --- Init / Load ---

func TestInit(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, owner, f.c.Owner())
	assert.False(t, f.c.IsLocked().IsLocked)
	assert.Empty(t, f.c.Royalty().Royalty)

	_, err := Init(owner, Deps{Tokens: f.store, States: f.store})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	_, err = Init(owner, Deps{States: f.store})
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = Init("", Deps{Tokens: ledger.NewMemStore(), States: ledger.NewMemStore()})
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestLoad_RestoresState(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.SetRoyalty(OneUnit(owner), royalty.Schedule{alice: 500}))
	require.NoError(t, f.c.Lock(OneUnit(owner)))

	reloaded, err := Load(Deps{Tokens: f.store, States: f.store})
	require.NoError(t, err)
	assert.True(t, reloaded.IsLocked().IsLocked)
	assert.Equal(t, royalty.Schedule{alice: 500}, reloaded.Royalty().Royalty)

	_, err = Load(Deps{Tokens: ledger.NewMemStore(), States: ledger.NewMemStore()})
	assert.ErrorIs(t, err, ledger.ErrStateNotFound)
}

func TestLoad_RejectsInvalidSavedSchedule(t *testing.T) {
	store := ledger.NewMemStore()
	require.NoError(t, store.SaveState(ledger.ExtensionState{Owner: owner, Royalty: royalty.Schedule{alice: 20000}}))

	_, err := Load(Deps{Tokens: store, States: store})
	assert.ErrorIs(t, err, royalty.ErrRoyaltyExceedsTotal)
}

// --- SetRoyalty ---

func TestSetRoyalty_ReplacesAndEmits(t *testing.T) {
	f := newFixture(t)
	first := royalty.Schedule{alice: 500, bob: 300}
	require.NoError(t, f.c.SetRoyalty(OneUnit(owner), first))

	second := royalty.Schedule{dave: 100}
	require.NoError(t, f.c.SetRoyalty(OneUnit(owner), second))

	assert.Equal(t, second, f.c.Royalty().Royalty, "schedules are replaced, not merged")

	got := f.sink.Events()
	require.Len(t, got, 2)
	assert.Equal(t, events.SetRoyalty{PreviousRoyalty: royalty.Schedule{}, NewRoyalty: first}, got[0])
	assert.Equal(t, events.SetRoyalty{PreviousRoyalty: first, NewRoyalty: second}, got[1])
}

func TestSetRoyalty_CallerScheduleIsCopied(t *testing.T) {
	f := newFixture(t)
	s := royalty.Schedule{alice: 500}
	require.NoError(t, f.c.SetRoyalty(OneUnit(owner), s))

	s[alice] = 9000
	assert.Equal(t, uint32(500), f.c.Royalty().Royalty[alice])

	view := f.c.Royalty().Royalty
	view[bob] = 1
	assert.NotContains(t, f.c.Royalty().Royalty, bob)
}

func TestSetRoyalty_Rejections(t *testing.T) {
	seven := royalty.Schedule{}
	for i := 0; i < 7; i++ {
		seven[royalty.AccountID(fmt.Sprintf("r%d.near", i))] = 10
	}

	tests := []struct {
		name     string
		call     Call
		schedule royalty.Schedule
		wantErr  error
		wantKind ErrorKind
	}{
		{"no deposit", Call{Caller: owner}, royalty.Schedule{alice: 1}, ErrPaymentMarkerRequired, KindPaymentMarkerRequired},
		{"two units", Call{Caller: owner, AttachedDeposit: 2}, royalty.Schedule{alice: 1}, ErrPaymentMarkerRequired, KindPaymentMarkerRequired},
		{"not the owner", OneUnit(alice), royalty.Schedule{alice: 1}, ErrUnauthorized, KindUnauthorized},
		{"seven beneficiaries", OneUnit(owner), seven, royalty.ErrTooManyBeneficiaries, KindTooManyBeneficiaries},
		{"one hundred percent", OneUnit(owner), royalty.Schedule{alice: 9999, bob: 1}, royalty.ErrRoyaltyExceedsTotal, KindRoyaltyExceedsTotal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.c.SetRoyalty(OneUnit(owner), royalty.Schedule{bob: 42}))

			err := f.c.SetRoyalty(tt.call, tt.schedule)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, KindOf(err))

			assert.Equal(t, royalty.Schedule{bob: 42}, f.c.Royalty().Royalty)
			assert.Len(t, f.sink.Events(), 1, "a rejected call emits nothing")

			st, err := f.store.LoadState()
			require.NoError(t, err)
			assert.Equal(t, royalty.Schedule{bob: 42}, st.Royalty)
		})
	}
}

type failingStates struct {
	ledger.StateStore
	fail bool
}

func (f *failingStates) SaveState(s ledger.ExtensionState) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.StateStore.SaveState(s)
}

func TestSetRoyalty_SaveFailureLeavesStateUntouched(t *testing.T) {
	store := ledger.NewMemStore()
	states := &failingStates{StateStore: store}
	sink := events.NewMemSink()
	c, err := Init(owner, Deps{Tokens: store, States: states, Events: sink})
	require.NoError(t, err)

	states.fail = true
	err = c.SetRoyalty(OneUnit(owner), royalty.Schedule{alice: 500})
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Empty(t, c.Royalty().Royalty)
	assert.Empty(t, sink.Events())

	err = c.Lock(OneUnit(owner))
	require.Error(t, err)
	assert.False(t, c.IsLocked().IsLocked)
}

// --- Lock ---

func TestLock_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.Lock(OneUnit(owner)))
	assert.True(t, f.c.IsLocked().IsLocked)
	require.NoError(t, f.c.Lock(OneUnit(owner)))
	assert.True(t, f.c.IsLocked().IsLocked)

	st, err := f.store.LoadState()
	require.NoError(t, err)
	assert.True(t, st.Locked)
}

func TestLock_Rejections(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.c.Lock(Call{Caller: owner}), ErrPaymentMarkerRequired)
	assert.ErrorIs(t, f.c.Lock(OneUnit(alice)), ErrUnauthorized)
	assert.False(t, f.c.IsLocked().IsLocked)

	require.NoError(t, f.c.Lock(OneUnit(owner)))
	assert.ErrorIs(t, f.c.Lock(OneUnit(alice)), ErrUnauthorized, "locking stays owner-only")
}

func TestLock_BlocksEveryGatedMutation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.SetRoyalty(OneUnit(owner), royalty.Schedule{alice: 500}))
	require.NoError(t, f.c.Lock(OneUnit(owner)))

	for _, caller := range []royalty.AccountID{owner, alice, carol} {
		for i := 0; i < 3; i++ {
			err := f.c.SetRoyalty(OneUnit(caller), royalty.Schedule{bob: 1})
			assert.ErrorIs(t, err, ErrLocked, "caller %s", caller)
			assert.Equal(t, KindLocked, KindOf(err))

			err = f.c.SetTokenMetadata(OneUnit(caller), "1", ledger.TokenMetadata{Title: strPtr("x")})
			assert.ErrorIs(t, err, ErrLocked, "caller %s", caller)
		}
	}
	assert.Equal(t, royalty.Schedule{alice: 500}, f.c.Royalty().Royalty)
	assert.Len(t, f.sink.Events(), 1)
}

func TestLock_DoesNotGateTransfers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.Lock(OneUnit(owner)))

	payout, err := f.c.TransferPayout(OneUnit(carol), TransferRequest{
		Receiver: dave, TokenID: "1", Amount: amt(100), MaxRecipients: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, royalty.Payout{carol: amt(100)}, payout)
}

// --- Payout / TransferPayout ---

func TestTransferPayout_Scenario(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.SetRoyalty(OneUnit(owner), royalty.Schedule{alice: 500, bob: 300}))

	payout, err := f.c.TransferPayout(OneUnit(carol), TransferRequest{
		Receiver: dave, TokenID: "1", Memo: "sale", Amount: amt(10000), MaxRecipients: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, royalty.Payout{alice: amt(500), bob: amt(300), carol: amt(9200)}, payout)

	newOwner, err := f.store.OwnerOf("1")
	require.NoError(t, err)
	assert.Equal(t, dave, newOwner)
}

func TestTransferPayout_UsesPreviousOwnerFromLedger(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.SetRoyalty(OneUnit(owner), royalty.Schedule{alice: 1000}))

	id, err := f.store.Approve(carol, "1", bob)
	require.NoError(t, err)

	// bob is only the marketplace; the seller is carol.
	payout, err := f.c.TransferPayout(OneUnit(bob), TransferRequest{
		Receiver: dave, TokenID: "1", ApprovalID: &id, Amount: amt(1000), MaxRecipients: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, royalty.Payout{alice: amt(100), carol: amt(900)}, payout)
}

func TestTransferPayout_RejectedCallsDoNotMoveToken(t *testing.T) {
	tests := []struct {
		name     string
		call     Call
		req      TransferRequest
		wantKind ErrorKind
	}{
		{"no deposit", Call{Caller: carol}, TransferRequest{Receiver: dave, TokenID: "1", Amount: amt(1), MaxRecipients: 6}, KindPaymentMarkerRequired},
		{"cap below schedule", OneUnit(carol), TransferRequest{Receiver: dave, TokenID: "1", Amount: amt(1), MaxRecipients: 1}, KindTooManyRecipientsForCaller},
		{"stranger", OneUnit(bob), TransferRequest{Receiver: dave, TokenID: "1", Amount: amt(1), MaxRecipients: 6}, KindNotApproved},
		{"unknown token", OneUnit(carol), TransferRequest{Receiver: dave, TokenID: "9", Amount: amt(1), MaxRecipients: 6}, KindNoSuchToken},
		{"to self", OneUnit(carol), TransferRequest{Receiver: carol, TokenID: "1", Amount: amt(1), MaxRecipients: 6}, KindSelfTransfer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.c.SetRoyalty(OneUnit(owner), royalty.Schedule{alice: 500, bob: 300}))

			_, err := f.c.TransferPayout(tt.call, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))

			holder, err := f.store.OwnerOf("1")
			require.NoError(t, err)
			assert.Equal(t, carol, holder)
		})
	}
}

func TestTransferPayout_OverfullScheduleDoesNotMoveToken(t *testing.T) {
	store := ledger.NewMemStore()
	require.NoError(t, store.Mint("1", carol, nil))
	deps := Deps{Tokens: store, States: store}
	require.NoError(t, deps.check())
	c := newContract(ledger.ExtensionState{Owner: owner, Royalty: royalty.Schedule{alice: 20000}}, deps)

	_, err := c.TransferPayout(OneUnit(carol), TransferRequest{Receiver: dave, TokenID: "1", Amount: amt(100), MaxRecipients: 6})
	require.Error(t, err)
	assert.Equal(t, KindRoyaltyExceedsTotal, KindOf(err))

	holder, err := store.OwnerOf("1")
	require.NoError(t, err)
	assert.Equal(t, carol, holder)
}

func TestPayout_MatchesTransferPayout(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.SetRoyalty(OneUnit(owner), royalty.Schedule{alice: 3333}))

	view, err := f.c.Payout("1", amt(100), 6)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := f.c.Payout("1", amt(100), 6)
		require.NoError(t, err)
		assert.Equal(t, view, again)
	}
	assert.Equal(t, royalty.Payout{alice: amt(33), carol: amt(66)}, view)

	transferred, err := f.c.TransferPayout(OneUnit(carol), TransferRequest{
		Receiver: dave, TokenID: "1", Amount: amt(100), MaxRecipients: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, view, transferred)
}

func TestPayout_Errors(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.SetRoyalty(OneUnit(owner), royalty.Schedule{alice: 500, bob: 300}))

	_, err := f.c.Payout("9", amt(100), 6)
	assert.Equal(t, KindNoSuchToken, KindOf(err))

	_, err = f.c.Payout("1", amt(100), 1)
	assert.Equal(t, KindTooManyRecipientsForCaller, KindOf(err))
}

// --- SetTokenMetadata ---

func TestSetTokenMetadata(t *testing.T) {
	f := newFixture(t)
	first := ledger.TokenMetadata{Title: strPtr("Dawn")}
	second := ledger.TokenMetadata{Title: strPtr("Dusk")}

	require.NoError(t, f.c.SetTokenMetadata(OneUnit(owner), "1", first))
	require.NoError(t, f.c.SetTokenMetadata(OneUnit(owner), "1", second))

	got, err := f.store.Metadata("1")
	require.NoError(t, err)
	assert.Equal(t, &second, got)

	evs := f.sink.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.SetTokenMetadata{TokenID: "1", NewTokenMetadata: first}, evs[0])
	assert.Equal(t, events.SetTokenMetadata{TokenID: "1", PreviousTokenMetadata: &first, NewTokenMetadata: second}, evs[1])
}

func TestSetTokenMetadata_Rejections(t *testing.T) {
	f := newFixture(t)
	md := ledger.TokenMetadata{Title: strPtr("Dawn")}

	assert.ErrorIs(t, f.c.SetTokenMetadata(Call{Caller: owner}, "1", md), ErrPaymentMarkerRequired)
	assert.ErrorIs(t, f.c.SetTokenMetadata(OneUnit(carol), "1", md), ErrUnauthorized)
	assert.ErrorIs(t, f.c.SetTokenMetadata(OneUnit(owner), "9", md), ledger.ErrNoSuchToken)
	assert.Empty(t, f.sink.Events())

	store := ledger.NewMemStore()
	bare, err := Init(owner, Deps{Tokens: store, States: store})
	require.NoError(t, err)
	assert.ErrorIs(t, bare.SetTokenMetadata(OneUnit(owner), "1", md), ErrMetadataUnsupported)
}

// --- KindOf ---

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindArithmeticOverflow, KindOf(fmt.Errorf("wrapped: %w", royalty.ErrArithmeticOverflow)))
	assert.Equal(t, KindUnauthorized, KindOf(ledger.ErrNotOwner))
}
