package calls

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"lawbridge-platform/internal/advocates"
	"lawbridge-platform/internal/config"
	"lawbridge-platform/internal/wallet"
)

type fakeDirectory struct {
	mu    sync.Mutex
	advs  map[string]advocates.Advocate
	cases map[string]int
}

func newFakeDirectory(advs ...advocates.Advocate) *fakeDirectory {
	d := &fakeDirectory{advs: make(map[string]advocates.Advocate), cases: make(map[string]int)}
	for _, a := range advs {
		d.advs[a.ID] = a
	}
	return d
}

func (d *fakeDirectory) Get(ctx context.Context, id string) (advocates.Advocate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.advs[id]
	if !ok {
		return advocates.Advocate{}, advocates.ErrNotFound
	}
	return a, nil
}

func (d *fakeDirectory) RecordCompletedCase(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cases[id]++
	return nil
}

type fakeGateway struct {
	mu    sync.Mutex
	err   error
	dials []DialRequest
	seq   int
}

func (g *fakeGateway) Dial(ctx context.Context, req DialRequest) (DialResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return DialResponse{}, g.err
	}
	g.dials = append(g.dials, req)
	g.seq++
	return DialResponse{ProviderCallID: fmt.Sprintf("sid-%d", g.seq), Status: "in-progress"}, nil
}

func approvedAdvocate(id string, ratePaise int64) advocates.Advocate {
	return advocates.Advocate{
		ID:                   id,
		FirstName:            "Asha",
		LastName:             "Rao",
		PhoneNumber:          "+919812345678",
		PerMinuteChargePaise: ratePaise,
		VerificationStatus:   advocates.VerificationApproved,
		DutyStatus:           true,
	}
}

type testEngine struct {
	engine  *Engine
	store   *MemoryStore
	ledger  *wallet.MemoryLedger
	dir     *fakeDirectory
	gateway *fakeGateway
}

func newTestEngine(advs ...advocates.Advocate) *testEngine {
	te := &testEngine{
		store:   NewMemoryStore(),
		ledger:  wallet.NewMemoryLedger(),
		dir:     newFakeDirectory(advs...),
		gateway: &fakeGateway{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	te.engine = NewEngine(te.store, te.ledger, te.dir, te.gateway,
		config.BillingConfig{MinTalkMinutes: 5, AdvocateSharePercent: 80}, log)
	return te
}

func TestInitiate_PreconditionOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown advocate", func(t *testing.T) {
		te := newTestEngine()
		_, err := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "missing", ClientPhone: "9876543210"})
		if !errors.Is(err, ErrAdvocateNotFound) {
			t.Fatalf("expected ErrAdvocateNotFound, got %v", err)
		}
	})

	t.Run("not approved", func(t *testing.T) {
		adv := approvedAdvocate("a1", 2500)
		adv.VerificationStatus = advocates.VerificationPending
		te := newTestEngine(adv)
		_, err := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})
		if !errors.Is(err, ErrNotApproved) {
			t.Fatalf("expected ErrNotApproved, got %v", err)
		}
	})

	t.Run("off duty", func(t *testing.T) {
		adv := approvedAdvocate("a1", 2500)
		adv.DutyStatus = false
		te := newTestEngine(adv)
		_, err := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})
		if !errors.Is(err, ErrOffDuty) {
			t.Fatalf("expected ErrOffDuty, got %v", err)
		}
	})

	t.Run("insufficient balance", func(t *testing.T) {
		// Rs 25/min needs a 12500 paise floor for 5 minutes; 10000 is short.
		te := newTestEngine(approvedAdvocate("a1", 2500))
		te.ledger.SetBalance("c1", 10000)
		_, err := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})
		if !errors.Is(err, ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
		if len(te.gateway.dials) != 0 {
			t.Fatal("gateway must not be dialed when balance is short")
		}
	})

	t.Run("success", func(t *testing.T) {
		te := newTestEngine(approvedAdvocate("a1", 2500))
		te.ledger.SetBalance("c1", 12500)
		c, err := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})
		if err != nil {
			t.Fatalf("initiate: %v", err)
		}
		if c.Status != StatusRinging {
			t.Fatalf("expected ringing, got %s", c.Status)
		}
		if c.CostPerMinutePaise != 2500 {
			t.Fatalf("rate not snapshotted: %d", c.CostPerMinutePaise)
		}
		if c.ProviderCallID == "" {
			t.Fatal("provider call id missing")
		}
		if got, _ := te.ledger.Balance(ctx, "c1"); got != 12500 {
			t.Fatalf("initiation must not charge the wallet, balance %d", got)
		}
	})
}

func TestInitiate_GatewayFailureFinalizesCall(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(approvedAdvocate("a1", 2500))
	te.ledger.SetBalance("c1", 50000)
	te.gateway.err = errors.New("503 from provider")

	_, err := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}

	stored, err := te.store.ListByClient(ctx, "c1")
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected one stored call, got %d err %v", len(stored), err)
	}
	if stored[0].Status != StatusFailed {
		t.Fatalf("undialed call must be failed, got %s", stored[0].Status)
	}
	if got, _ := te.ledger.Balance(ctx, "c1"); got != 50000 {
		t.Fatalf("failed dial must not move money, balance %d", got)
	}

	// A failed call must not be routable for passthru.
	if _, ok, _ := te.engine.ResolvePassthru(ctx, "9876543210", "leg-1"); ok {
		t.Fatal("failed call must not resolve passthru")
	}
}

func TestSettlement_BillsExactlyOnceUnderConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(approvedAdvocate("a1", 2500))
	te.ledger.SetBalance("c1", 12500)

	c, err := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	ev := StatusEvent{
		CorrelationID:   c.ID,
		ProviderCallID:  c.ProviderCallID,
		Status:          "completed",
		DurationSeconds: 125,
	}

	const workers = 16
	results := make(chan Outcome, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := te.engine.HandleStatusEvent(ctx, ev)
			if err != nil {
				t.Errorf("handle: %v", err)
			}
			results <- res.Outcome
		}()
	}
	wg.Wait()
	close(results)

	var settled, duplicate int
	for o := range results {
		switch o {
		case OutcomeSettled:
			settled++
		case OutcomeDuplicate:
			duplicate++
		default:
			t.Errorf("unexpected outcome %s", o)
		}
	}
	if settled != 1 {
		t.Fatalf("expected exactly one settled outcome, got %d", settled)
	}
	if duplicate != workers-1 {
		t.Fatalf("expected %d duplicates, got %d", workers-1, duplicate)
	}

	// 125s bills 3 minutes at 2500 = 7500; advocate share 80% = 6000.
	final, _ := te.store.Get(ctx, c.ID)
	if final.BilledMinutes != 3 || final.TotalCostPaise != 7500 {
		t.Fatalf("billing wrong: %d min, %d paise", final.BilledMinutes, final.TotalCostPaise)
	}
	if got, _ := te.ledger.Balance(ctx, "c1"); got != 5000 {
		t.Fatalf("client balance: expected 5000, got %d", got)
	}
	if got, _ := te.ledger.Balance(ctx, "a1"); got != 6000 {
		t.Fatalf("advocate balance: expected 6000, got %d", got)
	}
	if n := len(te.ledger.Transactions("c1")); n != 1 {
		t.Fatalf("client should have one charge entry, got %d", n)
	}
	if te.dir.cases["a1"] != 1 {
		t.Fatalf("expected one completed case, got %d", te.dir.cases["a1"])
	}
}

func TestSettlement_LateEventsAfterTerminalAreDuplicates(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(approvedAdvocate("a1", 2500))
	te.ledger.SetBalance("c1", 20000)

	c, _ := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})

	res, err := te.engine.HandleStatusEvent(ctx, StatusEvent{CorrelationID: c.ID, Status: "completed", DurationSeconds: 60})
	if err != nil || res.Outcome != OutcomeSettled {
		t.Fatalf("first event: outcome %s err %v", res.Outcome, err)
	}

	// A contradictory late delivery must not rewrite the settled record.
	res, err = te.engine.HandleStatusEvent(ctx, StatusEvent{CorrelationID: c.ID, Status: "busy"})
	if err != nil || res.Outcome != OutcomeDuplicate {
		t.Fatalf("late busy: outcome %s err %v", res.Outcome, err)
	}
	final, _ := te.store.Get(ctx, c.ID)
	if final.Status != StatusCompleted || final.TotalCostPaise != 2500 {
		t.Fatalf("settled record rewritten: %s %d", final.Status, final.TotalCostPaise)
	}
	if got, _ := te.ledger.Balance(ctx, "c1"); got != 17500 {
		t.Fatalf("expected single charge, balance %d", got)
	}
}

func TestSettlement_NonBillableTerminal(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(approvedAdvocate("a1", 2500))
	te.ledger.SetBalance("c1", 20000)

	c, _ := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})

	res, err := te.engine.HandleStatusEvent(ctx, StatusEvent{CorrelationID: c.ID, Status: "busy"})
	if err != nil || res.Outcome != OutcomeRecorded {
		t.Fatalf("outcome %s err %v", res.Outcome, err)
	}
	final, _ := te.store.Get(ctx, c.ID)
	if final.Status != StatusBusy || final.TotalCostPaise != 0 || final.BilledMinutes != 0 {
		t.Fatalf("unexpected record: %+v", final)
	}
	if got, _ := te.ledger.Balance(ctx, "c1"); got != 20000 {
		t.Fatalf("busy call must not bill, balance %d", got)
	}
	if te.dir.cases["a1"] != 0 {
		t.Fatal("busy call must not count as a case")
	}
}

func TestSettlement_ZeroDurationCompletionBillsNothing(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(approvedAdvocate("a1", 2500))
	te.ledger.SetBalance("c1", 20000)

	c, _ := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})

	res, err := te.engine.HandleStatusEvent(ctx, StatusEvent{CorrelationID: c.ID, Status: "completed", DurationSeconds: 0})
	if err != nil || res.Outcome != OutcomeSettled {
		t.Fatalf("outcome %s err %v", res.Outcome, err)
	}
	if got, _ := te.ledger.Balance(ctx, "c1"); got != 20000 {
		t.Fatalf("zero duration must not bill, balance %d", got)
	}
	if n := len(te.ledger.Transactions("c1")); n != 0 {
		t.Fatalf("expected no ledger entries, got %d", n)
	}
}

func TestSettlement_UnresolvedAndInProgress(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(approvedAdvocate("a1", 2500))
	te.ledger.SetBalance("c1", 20000)

	res, err := te.engine.HandleStatusEvent(ctx, StatusEvent{ProviderCallID: "sid-nope", Status: "completed", DurationSeconds: 60})
	if err != nil || res.Outcome != OutcomeUnresolved {
		t.Fatalf("unknown call: outcome %s err %v", res.Outcome, err)
	}

	c, _ := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})
	res, err = te.engine.HandleStatusEvent(ctx, StatusEvent{CorrelationID: c.ID, Status: "in-progress"})
	if err != nil || res.Outcome != OutcomeInProgress {
		t.Fatalf("progress event: outcome %s err %v", res.Outcome, err)
	}
	cur, _ := te.store.Get(ctx, c.ID)
	if cur.Status != StatusRinging {
		t.Fatalf("progress event must not change status, got %s", cur.Status)
	}
}

func TestSettlement_ResolvesByProviderIDWhenCorrelationMissing(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(approvedAdvocate("a1", 2500))
	te.ledger.SetBalance("c1", 20000)

	c, _ := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})

	res, err := te.engine.HandleStatusEvent(ctx, StatusEvent{ProviderCallID: c.ProviderCallID, Status: "completed", DurationSeconds: 61})
	if err != nil || res.Outcome != OutcomeSettled {
		t.Fatalf("outcome %s err %v", res.Outcome, err)
	}
	if res.Call.BilledMinutes != 2 {
		t.Fatalf("61s should bill 2 minutes, got %d", res.Call.BilledMinutes)
	}
}

func TestResolvePassthru(t *testing.T) {
	ctx := context.Background()
	advA := approvedAdvocate("a1", 2500)
	advB := approvedAdvocate("a2", 3000)
	advB.PhoneNumber = "+919899999999"
	te := newTestEngine(advA, advB)
	te.ledger.SetBalance("c1", 100000)

	first, _ := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a1", ClientPhone: "9876543210"})
	second, err := te.engine.Initiate(ctx, InitiateRequest{ClientID: "c1", AdvocateID: "a2", ClientPhone: "09876543210"})
	if err != nil {
		t.Fatalf("second initiate: %v", err)
	}
	// Ensure deterministic ordering for the most-recent pick.
	te.store.mu.Lock()
	te.store.calls[second.ID].CreatedAt = te.store.calls[first.ID].CreatedAt.Add(1)
	te.store.mu.Unlock()

	// The newest routable call for the caller wins.
	dial, ok, err := te.engine.ResolvePassthru(ctx, "+919876543210", "leg-1")
	if err != nil || !ok {
		t.Fatalf("resolve: ok=%v err=%v", ok, err)
	}
	if dial != "9899999999" {
		t.Fatalf("expected newest call's advocate, got %s", dial)
	}
	cur, _ := te.store.Get(ctx, second.ID)
	if cur.Status != StatusConnecting || cur.LegCallID != "leg-1" {
		t.Fatalf("second call not marked connecting: %+v", cur)
	}

	// The older call is still routable and matches next.
	dial, ok, _ = te.engine.ResolvePassthru(ctx, "9876543210", "leg-2")
	if !ok || dial != "9812345678" {
		t.Fatalf("expected older call's advocate, ok=%v dial=%s", ok, dial)
	}

	// Nothing left to route.
	if _, ok, _ = te.engine.ResolvePassthru(ctx, "9876543210", "leg-3"); ok {
		t.Fatal("no routable call should remain")
	}

	// Unknown caller.
	if _, ok, _ = te.engine.ResolvePassthru(ctx, "9000000000", "leg-4"); ok {
		t.Fatal("unknown caller must not resolve")
	}
}
