package system

import (
	"image"
	"sync"
)

// CanvasPool переиспользует *image.NRGBA одинакового размера, чтобы снизить
// нагрузку на GC при пакетной генерации.
type CanvasPool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewCanvasPool()

func NewCanvasPool() *CanvasPool {
	return &CanvasPool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetCanvas возвращает холст из общего пула. Содержимое не очищается:
// вызывающий код перезаписывает его целиком.
func GetCanvas(rect image.Rectangle) *image.NRGBA {
	return globalPool.Get(rect)
}

// PutCanvas возвращает холст в общий пул.
func PutCanvas(img *image.NRGBA) {
	globalPool.Put(img)
}

func (p *CanvasPool) Get(rect image.Rectangle) *image.NRGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewNRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.NRGBA)
}

// Put drops canvases of sizes the pool has never handed out.
func (p *CanvasPool) Put(img *image.NRGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
