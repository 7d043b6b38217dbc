package analytics

import "testing"

// BenchmarkTrendTracker_Observe measures the steady-state hot path. The ring
// buffer keeps it zero-alloc.
func BenchmarkTrendTracker_Observe(b *testing.B) {
	tr := NewTrendTracker(DefaultShortWindow, DefaultLongWindow)

	// Fill the buffer to reach steady state.
	for i := 0; i < DefaultLongWindow; i++ {
		tr.Observe(100 + float64(i)*0.01)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		tr.Observe(100 + float64(i%10000)*0.01)
	}
}

// BenchmarkTrendTracker_ColdStart measures initialization overhead.
func BenchmarkTrendTracker_ColdStart(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		tr := NewTrendTracker(DefaultShortWindow, DefaultLongWindow)
		tr.Observe(100)
	}
}
