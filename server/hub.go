package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"heatfem/calculator"
	"heatfem/model"
)

// Hub 一个 websocket 连接对应一个 Hub，负责请求分发和结果推送
type Hub struct {
	c    calculator.Calculator
	conn *websocket.Conn
	// request
	msg chan model.Msg
	// response
	send chan model.Msg
	done chan struct{}

	mu      sync.Mutex
	running bool
	closed  bool
	wg      sync.WaitGroup
}

func NewHub(c calculator.Calculator, conn *websocket.Conn) *Hub {
	return &Hub{
		c:    c,
		conn: conn,
		msg:  make(chan model.Msg, 10),
		send: make(chan model.Msg, 64),
		done: make(chan struct{}),
	}
}

// 连接断开后停止正在运行的计算并等待其退出
func (h *Hub) close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.c.GetCalcHub().StopSignal()
	h.wg.Wait()
	close(h.done)
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.send:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithError(err).Warn("发送消息失败")
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest(ctx context.Context) {
	for {
		select {
		case msg := <-h.msg:
			h.dispatch(ctx, msg)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, msg model.Msg) {
	switch msg.Type {
	case model.MsgEnv:
		var env model.Env
		if err := json.Unmarshal([]byte(msg.Content), &env); err != nil {
			h.replyError(err)
			return
		}
		if err := h.c.SetEnv(env); err != nil {
			h.replyError(err)
			return
		}
		h.reply(model.Msg{Type: model.MsgEnvSet, Content: "env is set"})
	case model.MsgStart:
		h.start(ctx)
	case model.MsgStop:
		h.c.GetCalcHub().StopSignal()
		h.reply(model.Msg{Type: model.MsgStopped, Content: "stopped"})
	case model.MsgHistory:
		data, err := json.Marshal(h.c.History())
		if err != nil {
			h.replyError(err)
			return
		}
		h.reply(model.Msg{Type: model.MsgHistory, Content: string(data)})
	default:
		log.WithField("type", msg.Type).Warn("no such type")
		h.replyError(errors.New("no such type: " + msg.Type))
	}
}

func (h *Hub) start(ctx context.Context) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if h.running {
		h.mu.Unlock()
		h.replyError(errors.New("calculation is already running"))
		return
	}
	h.running = true
	h.c.GetCalcHub().StartSignal()
	h.wg.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.wg.Done()
		err := h.c.Run(ctx, func(result model.StepResult) {
			data, err := json.Marshal(result)
			if err != nil {
				log.WithError(err).Error("序列化计算结果失败")
				return
			}
			h.reply(model.Msg{Type: model.MsgStep, Content: string(data)})
		})

		h.mu.Lock()
		h.running = false
		h.mu.Unlock()

		switch {
		case err == nil:
			h.reply(model.Msg{Type: model.MsgFinished, Content: "finished"})
		case errors.Is(err, calculator.ErrStopped), errors.Is(err, context.Canceled):
		default:
			log.WithError(err).Error("计算失败")
			h.replyError(err)
		}
	}()
}

func (h *Hub) reply(msg model.Msg) {
	select {
	case h.send <- msg:
	case <-h.done:
	}
}

func (h *Hub) replyError(err error) {
	h.reply(model.Msg{Type: model.MsgError, Content: err.Error()})
}
