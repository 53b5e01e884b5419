package stats

import (
	"sync"
	"testing"
)

func TestSpreadHistogram(t *testing.T) {
	h := NewSpreadHistogram()
	for _, v := range []int64{2, 4, 4, 4, 5, 5, 7, 9} {
		h.Update(v)
	}

	s := h.Snapshot()
	if s.Count() != 8 {
		t.Errorf("expected count 8, got %d", s.Count())
	}
	if s.Min() != 2 || s.Max() != 9 {
		t.Errorf("expected min 2 and max 9, got %d and %d", s.Min(), s.Max())
	}
	if s.Mean() != 5 {
		t.Errorf("expected mean 5, got %v", s.Mean())
	}
	if s.StdDev() != 2 {
		t.Errorf("expected standard deviation 2, got %v", s.StdDev())
	}
}

func TestBalance(t *testing.T) {
	if b := Balance(NewSpreadHistogram()); b != 0 {
		t.Errorf("expected zero balance without samples, got %v", b)
	}

	even := NewSpreadHistogram()
	for range 3 {
		even.Update(10)
	}
	if b := Balance(even); b != 1 {
		t.Errorf("equal samples should be perfectly balanced, got %v", b)
	}

	skewed := NewSpreadHistogram()
	skewed.Update(0)
	skewed.Update(0)
	skewed.Update(30)
	if b := Balance(skewed); b >= 1 || b < 0 {
		t.Errorf("skewed samples should score lower, got %v", b)
	}

	// mean 5, standard deviation 2, min/max 2/9
	mixed := NewSpreadHistogram()
	for _, v := range []int64{2, 4, 4, 4, 5, 5, 7, 9} {
		mixed.Update(v)
	}
	want := (1-0.4)*0.5 + (2.0/9.0)*0.5
	if b := Balance(mixed); b < want-1e-9 || b > want+1e-9 {
		t.Errorf("expected balance %v, got %v", want, b)
	}
}

func TestSizeHistogram(t *testing.T) {
	h := NewSizeHistogram()

	for i := 0; i < 90; i++ {
		h.Update(100)
	}
	for i := 0; i < 10; i++ {
		h.Update(5000)
	}

	s := h.Snapshot()
	if s.Count() != 100 {
		t.Errorf("expected 100 samples, got %d", s.Count())
	}
	if s.Mean() != float64(90*100+10*5000)/100 {
		t.Errorf("unexpected mean %v", s.Mean())
	}
	if m := s.Percentile(0.5); m != 100 {
		t.Errorf("unexpected median %v", m)
	}
	if p := s.Percentile(0.99); p != 5000 {
		t.Errorf("unexpected p99 %v", p)
	}

	h.Clear()
	if h.Count() != 0 || h.Sum() != 0 {
		t.Error("cleared histogram should be empty")
	}
}

func TestSizeHistogramConcurrent(t *testing.T) {
	h := NewSizeHistogram()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				h.Update(int64(i))
			}
		}()
	}
	wg.Wait()

	if h.Count() != 8000 {
		t.Errorf("expected 8000 samples, got %d", h.Count())
	}
}
