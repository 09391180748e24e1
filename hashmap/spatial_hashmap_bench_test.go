package hashmap

import (
	"math/rand"
	"shm/common"
	"testing"
)

func randomRectangles(amount int, worldSize float64, maxSize float64) []common.Rectangle {
	r := rand.New(rand.NewSource(1))
	rects := make([]common.Rectangle, amount)
	for i := range rects {
		rects[i] = common.Rectangle{
			X:      r.Float64() * worldSize,
			Y:      r.Float64() * worldSize,
			Width:  r.Float64() * maxSize,
			Height: r.Float64() * maxSize,
		}
	}
	return rects
}

func BenchmarkSpatialHashmap_add(b *testing.B) {
	rects := randomRectangles(10000, 1000, 20)
	config := Config{Width: 1000, Height: 1000, CellSize: 50}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, _ := NewSpatialHashmap[int](config)
		for j := range rects {
			_, _ = h.Add(j, &rects[j])
		}
	}
}

func BenchmarkSpatialHashmap_getNearby(b *testing.B) {
	rects := randomRectangles(10000, 1000, 20)
	h, _ := NewSpatialHashmap[int](Config{Width: 1000, Height: 1000, CellSize: 50})
	for j := range rects {
		_, _ = h.Add(j, &rects[j])
	}
	queries := randomRectangles(1000, 1000, 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.GetNearby(&queries[i%len(queries)])
	}
}
