package impl

import "github.com/panjf2000/ants/v2"

// SendPool bounds broadcast fan-out with a shared goroutine pool.
type SendPool struct {
	pool *ants.Pool
}

func NewSendPool(workers int) (*SendPool, error) {
	p, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &SendPool{pool: p}, nil
}

func (p *SendPool) Submit(task func()) error {
	return p.pool.Submit(task)
}

func (p *SendPool) Release() {
	p.pool.Release()
}
