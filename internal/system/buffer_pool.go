package system

import (
	"image"
	"sync"
)

// FramePool recycles RGBA frames of equal size. Export renders every frame of
// a slide into the same few buffers, so a pool per size keeps GC quiet.
type FramePool struct {
	mu    sync.RWMutex
	pools map[image.Point]*sync.Pool
}

func NewFramePool() *FramePool {
	return &FramePool{pools: make(map[image.Point]*sync.Pool)}
}

func (p *FramePool) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// double check
	if pool, ok = p.pools[size]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() any {
			return image.NewRGBA(image.Rectangle{Max: size})
		},
	}
	p.pools[size] = pool
	return pool
}

// Get returns a w x h frame with origin (0, 0). Its contents are undefined.
func (p *FramePool) Get(w, h int) *image.RGBA {
	return p.pool(image.Pt(w, h)).Get().(*image.RGBA)
}

// Put hands img back for reuse. Frames of a size never requested are
// dropped.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return
	}
	p.mu.RLock()
	pool, ok := p.pools[img.Rect.Max]
	p.mu.RUnlock()
	if ok {
		pool.Put(img)
	}
}
