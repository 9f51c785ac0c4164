package guard

import (
	"sync"
	"testing"
)

func BenchmarkAccessUncontended(b *testing.B) {
	v := New(0)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h := v.Access()
		h.Update(func(p *int) { *p++ })
		h.Release()
	}
}

func BenchmarkDoUncontended(b *testing.B) {
	v := New(0)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		v.Do(func(p *int) { *p++ })
	}
}

func BenchmarkMutexBaseline(b *testing.B) {
	var mu sync.Mutex
	n := 0
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		mu.Lock()
		n++
		mu.Unlock()
	}
	_ = n
}

func BenchmarkDoContended(b *testing.B) {
	v := New(0)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			v.Do(func(p *int) { *p++ })
		}
	})
}

func BenchmarkScopeEnterTwo(b *testing.B) {
	x := New(0)
	y := New(0)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s, err := Enter(x, y)
		if err != nil {
			b.Fatal(err)
		}
		s.Exit()
	}
}
