package calculator

import "sync"

// CalcHub 计算过程的控制信号
type CalcHub struct {
	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
}

func NewCalcHub() *CalcHub {
	return &CalcHub{
		stop: make(chan struct{}),
	}
}

// StopSignal 通知正在运行的计算停止，可重复调用
func (ch *CalcHub) StopSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if !ch.stopped {
		close(ch.stop)
		ch.stopped = true
	}
}

// StartSignal 重置停止信号，需在启动计算之前调用
func (ch *CalcHub) StartSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.stop = make(chan struct{})
	ch.stopped = false
}

func (ch *CalcHub) Stop() <-chan struct{} {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.stop
}
