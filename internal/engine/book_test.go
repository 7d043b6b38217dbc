package engine

import (
	"strings"
	"testing"

	"quant_go/internal/domain"
)

func TestBook_BestFirstIteration(t *testing.T) {
	b := NewBook(0)
	b.Insert(makeOrder(1, domain.SideBuy, 100.0, 1.0))
	b.Insert(makeOrder(2, domain.SideBuy, 101.0, 1.0))
	b.Insert(makeOrder(3, domain.SideBuy, 99.0, 1.0))
	b.Insert(makeOrder(4, domain.SideSell, 102.0, 1.0))
	b.Insert(makeOrder(5, domain.SideSell, 101.5, 1.0))
	b.Insert(makeOrder(6, domain.SideSell, 103.0, 1.0))

	var bids []float64
	b.EachLevel(domain.SideBuy, func(l *priceLevel) bool {
		bids = append(bids, l.price)
		return true
	})
	for i, want := range []float64{101.0, 100.0, 99.0} {
		if bids[i] != want {
			t.Errorf("Expected bid %v at position %d, got %v", want, i, bids[i])
		}
	}

	var asks []float64
	b.EachLevel(domain.SideSell, func(l *priceLevel) bool {
		asks = append(asks, l.price)
		return true
	})
	for i, want := range []float64{101.5, 102.0, 103.0} {
		if asks[i] != want {
			t.Errorf("Expected ask %v at position %d, got %v", want, i, asks[i])
		}
	}
}

func TestBook_BestPerSide(t *testing.T) {
	b := NewBook(0)
	if b.Best(domain.SideBuy) != nil || b.Best(domain.SideSell) != nil {
		t.Fatal("Expected empty book to have no best level")
	}

	b.Insert(makeOrder(1, domain.SideBuy, 100.0, 1.0))
	b.Insert(makeOrder(2, domain.SideBuy, 101.0, 1.0))
	b.Insert(makeOrder(3, domain.SideSell, 102.0, 1.0))

	if best := b.Best(domain.SideBuy); best == nil || best.price != 101.0 {
		t.Errorf("Expected best bid 101.0, got %+v", best)
	}
	if best := b.Best(domain.SideSell); best == nil || best.price != 102.0 {
		t.Errorf("Expected best ask 102.0, got %+v", best)
	}
}

func TestBook_RemoveUnknownID(t *testing.T) {
	b := NewBook(0)
	if _, ok := b.Remove(42); ok {
		t.Error("Expected Remove of unknown id to report false")
	}
}

func TestBook_RemoveDropsEmptyLevel(t *testing.T) {
	b := NewBook(0)
	b.Insert(makeOrder(1, domain.SideBuy, 100.0, 1.0))
	b.Insert(makeOrder(2, domain.SideBuy, 100.0, 2.0))

	if _, ok := b.Remove(1); !ok {
		t.Fatal("Expected Remove(1) to succeed")
	}
	if b.Levels(domain.SideBuy) != 1 {
		t.Errorf("Expected level to survive while order 2 rests, got %d levels", b.Levels(domain.SideBuy))
	}

	if _, ok := b.Remove(2); !ok {
		t.Fatal("Expected Remove(2) to succeed")
	}
	if b.Levels(domain.SideBuy) != 0 {
		t.Errorf("Expected empty side after removing last order, got %d levels", b.Levels(domain.SideBuy))
	}
	if b.Best(domain.SideBuy) != nil {
		t.Error("Expected no best bid after level drop")
	}
	if b.RestingOrders() != 0 {
		t.Errorf("Expected 0 resting orders, got %d", b.RestingOrders())
	}
}

func TestBook_Snapshot(t *testing.T) {
	b := NewBook(0)
	b.Insert(makeOrder(1, domain.SideBuy, 100.0, 1.0))
	b.Insert(makeOrder(2, domain.SideBuy, 100.0, 0.5))
	b.Insert(makeOrder(3, domain.SideBuy, 99.5, 2.0))
	b.Insert(makeOrder(4, domain.SideSell, 100.5, 3.0))

	snap := b.Snapshot()

	wantBids := []domain.PriceLevelView{{Price: 100.0, Quantity: 1.5}, {Price: 99.5, Quantity: 2.0}}
	if len(snap.Bids) != len(wantBids) {
		t.Fatalf("Expected %d bid levels, got %d", len(wantBids), len(snap.Bids))
	}
	for i, want := range wantBids {
		if snap.Bids[i] != want {
			t.Errorf("Expected bid %+v at position %d, got %+v", want, i, snap.Bids[i])
		}
	}
	if len(snap.Asks) != 1 || snap.Asks[0] != (domain.PriceLevelView{Price: 100.5, Quantity: 3.0}) {
		t.Errorf("Expected single ask level {100.5 3}, got %+v", snap.Asks)
	}
}

func TestBook_DuplicateInsertPanics(t *testing.T) {
	b := NewBook(0)
	b.Insert(makeOrder(7, domain.SideBuy, 100.0, 1.0))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected duplicate insert to panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "INVARIANT_VIOLATION") {
			t.Errorf("Expected INVARIANT_VIOLATION panic, got %v", r)
		}
	}()
	b.Insert(makeOrder(7, domain.SideBuy, 101.0, 1.0))
}

func TestBook_LookupFindsRestingOrder(t *testing.T) {
	b := NewBook(0)
	o := makeOrder(9, domain.SideSell, 105.0, 2.0)
	b.Insert(o)

	got, ok := b.Lookup(9)
	if !ok || got != o {
		t.Error("Expected Lookup to return the inserted order")
	}
	if _, ok := b.Lookup(10); ok {
		t.Error("Expected Lookup of unknown id to report false")
	}
}
