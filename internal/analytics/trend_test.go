package analytics

import (
	"math"
	"testing"

	"quant_go/internal/domain"
)

func TestTrendTracker_CrossSequence(t *testing.T) {
	tr := NewTrendTracker(3, 5)

	// T1..T5: 100 five times. The window fills at T5 with short=long=100
	// and no previous sample to cross against.
	for i := 1; i <= 5; i++ {
		tr.Observe(100)
		if g, d := tr.Crosses(); g != 0 || d != 0 {
			t.Errorf("T%d: Expected no crosses, got golden=%d dead=%d", i, g, d)
		}
	}
	if !tr.Ready() {
		t.Fatal("Expected tracker to be ready after 5 observations")
	}
	if tr.ShortSMA() != 100 || tr.LongSMA() != 100 {
		t.Errorf("T5: Expected SMAs 100/100, got %v/%v", tr.ShortSMA(), tr.LongSMA())
	}

	// T6: 200. Window [100 100 100 100 200].
	// Short(3) = 400/3, Long(5) = 600/5 = 120. Short jumps above long.
	tr.Observe(200)
	if g, d := tr.Crosses(); g != 1 || d != 0 {
		t.Errorf("T6: Expected golden cross, got golden=%d dead=%d", g, d)
	}
	if math.Abs(tr.ShortSMA()-400.0/3.0) > 1e-12 {
		t.Errorf("T6: Expected short SMA 400/3, got %v", tr.ShortSMA())
	}
	if tr.LongSMA() != 120 {
		t.Errorf("T6: Expected long SMA 120, got %v", tr.LongSMA())
	}

	// T7: 50. Window [100 100 100 200 50].
	// Short(3) = 350/3 ~ 116.7, Long(5) = 110. Still above, no cross.
	tr.Observe(50)
	if g, d := tr.Crosses(); g != 1 || d != 0 {
		t.Errorf("T7: Expected no new cross, got golden=%d dead=%d", g, d)
	}

	// T8: 0. Window [100 100 200 50 0].
	// Short(3) = 250/3 ~ 83.3, Long(5) = 90. Short drops below long.
	tr.Observe(0)
	if g, d := tr.Crosses(); g != 1 || d != 1 {
		t.Errorf("T8: Expected dead cross, got golden=%d dead=%d", g, d)
	}
}

func TestTrendTracker_NotReadyBeforeFullWindow(t *testing.T) {
	tr := NewTrendTracker(2, 4)

	for i := 0; i < 3; i++ {
		tr.Observe(100 + float64(i))
		if tr.Ready() {
			t.Fatalf("Expected not ready after %d observations", i+1)
		}
		if tr.ShortSMA() != 0 || tr.LongSMA() != 0 {
			t.Errorf("Expected zero SMAs before ready, got %v/%v", tr.ShortSMA(), tr.LongSMA())
		}
	}

	tr.Observe(103)
	if !tr.Ready() {
		t.Error("Expected ready after 4 observations")
	}
}

func TestNewTrendTracker_InvalidWindows(t *testing.T) {
	cases := []struct {
		name        string
		short, long int
	}{
		{"short equals long", 5, 5},
		{"short above long", 6, 5},
		{"zero short", 0, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic for windows %d/%d", tc.short, tc.long)
				}
			}()
			NewTrendTracker(tc.short, tc.long)
		})
	}
}

func TestComputeTrendStats(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 100, 200, 50, 0}
	trades := make([]domain.Trade, len(prices))
	for i, p := range prices {
		trades[i] = domain.Trade{ID: uint64(i + 1), Price: p, Quantity: 1}
	}

	s := ComputeTrendStats(trades, 3, 5)

	if !s.Ready {
		t.Error("Expected a full window over 8 trades")
	}
	if s.GoldenCrosses != 1 {
		t.Errorf("Expected 1 golden cross, got %d", s.GoldenCrosses)
	}
	if s.DeadCrosses != 1 {
		t.Errorf("Expected 1 dead cross, got %d", s.DeadCrosses)
	}
	if math.Abs(s.ShortSMA-250.0/3.0) > 1e-12 {
		t.Errorf("Expected final short SMA 250/3, got %v", s.ShortSMA)
	}
	if s.LongSMA != 90 {
		t.Errorf("Expected final long SMA 90, got %v", s.LongSMA)
	}
}

func TestComputeTrendStats_ShortTape(t *testing.T) {
	trades := []domain.Trade{
		{ID: 1, Price: 100, Quantity: 1},
		{ID: 2, Price: 101, Quantity: 1},
	}

	s := ComputeTrendStats(trades, DefaultShortWindow, DefaultLongWindow)

	if s.Ready {
		t.Error("Expected not ready on a 2-trade tape")
	}
	if s.GoldenCrosses != 0 || s.DeadCrosses != 0 {
		t.Errorf("Expected no crosses, got golden=%d dead=%d", s.GoldenCrosses, s.DeadCrosses)
	}
}
