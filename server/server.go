package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"heatfem/calculator"
	"heatfem/model"
)

// Factory 为每个连接创建独立的 calculator，连接之间不共享状态
type Factory func() (calculator.Calculator, error)

type Server struct {
	addr          string
	upgrader      websocket.Upgrader
	newCalculator Factory
}

func NewServer(addr string, upgrader websocket.Upgrader, newCalculator Factory) *Server {
	return &Server{
		addr:          addr,
		upgrader:      upgrader,
		newCalculator: newCalculator,
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	c, err := s.newCalculator()
	if err != nil {
		log.WithError(err).Error("创建 calculator 失败")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade 失败")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	hub := NewHub(c, conn)
	go hub.handleRequest(ctx)
	go hub.handleResponse()

	for {
		var msg model.Msg
		if err = conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("读取消息失败")
			}
			break
		}
		hub.msg <- msg
	}
	cancel()
	hub.close()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

func (s *Server) Serve() error {
	log.WithField("addr", s.addr).Info("websocket 服务启动")
	return http.ListenAndServe(s.addr, s.Handler())
}
