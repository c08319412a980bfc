package buffer

import (
	"testing"
)

// capacities defines the benchmark size matrix.
var capacities = []struct {
	name     string
	capacity int
}{
	{"Cap1", 1},
	{"Cap64", 64},
	{"Cap4K", 4096},
}

// =============================================================================
// BenchmarkRing - Put/Get roundtrips at several fill levels
// =============================================================================

func BenchmarkRing_PutGet(b *testing.B) {
	for _, c := range capacities {
		b.Run(c.name, func(b *testing.B) {
			r := NewRing[int](c.capacity)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				r.TryPut(i)
				r.TryGet()
			}
		})
	}
}

func BenchmarkRing_FillDrain(b *testing.B) {
	for _, c := range capacities {
		b.Run(c.name, func(b *testing.B) {
			r := NewRing[int](c.capacity)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				for r.TryPut(i) {
				}
				for !r.IsEmpty() {
					r.TryGet()
				}
			}
		})
	}
}

func BenchmarkRing_Pointers(b *testing.B) {
	type payload struct{ id int }
	r := NewRing[*payload](64)
	p := &payload{}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.TryPut(p)
		r.TryGet()
	}
}
