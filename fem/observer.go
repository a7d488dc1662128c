package fem

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Phase 网格计算阶段
type Phase int

const (
	PhaseLocalMatrixes Phase = iota
	PhaseLocalVectors
	PhaseGlobalMatrix
	PhaseGlobalVector
	PhaseTemperatures
)

func (p Phase) String() string {
	switch p {
	case PhaseLocalMatrixes:
		return "local matrixes"
	case PhaseLocalVectors:
		return "local vectors"
	case PhaseGlobalMatrix:
		return "global matrix"
	case PhaseGlobalVector:
		return "global vector"
	case PhaseTemperatures:
		return "temperatures"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Observer 在每个阶段结束后读取网格的公开状态
type Observer interface {
	Observe(phase Phase, g *Grid)
}

type ObserverFunc func(phase Phase, g *Grid)

func (f ObserverFunc) Observe(phase Phase, g *Grid) {
	f(phase, g)
}

// LogObserver 以 Debug 级别输出矩阵、向量和温度
type LogObserver struct {
	Logger *log.Logger
}

func NewLogObserver(logger *log.Logger) *LogObserver {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogObserver{Logger: logger}
}

func (o *LogObserver) Observe(phase Phase, g *Grid) {
	entry := o.Logger.WithField("phase", phase.String())
	switch phase {
	case PhaseLocalMatrixes:
		for i, e := range g.Elements() {
			m := e.LocalMatrix()
			entry.WithField("element", i).Debugf("%s %s", formatRow(m[0][:]), formatRow(m[1][:]))
		}
	case PhaseLocalVectors:
		for i, e := range g.Elements() {
			v := e.LocalVector()
			entry.WithField("element", i).Debug(formatRow([]float32{v[0][0], v[1][0]}))
		}
	case PhaseGlobalMatrix:
		for i, row := range g.GlobalMatrix() {
			entry.WithField("row", i).Debug(formatRow(row))
		}
	case PhaseGlobalVector:
		entry.Debug(formatRow(g.GlobalVector()))
	case PhaseTemperatures:
		entry.Info(formatRow(g.Temperatures()))
	}
}

func formatRow(row []float32) string {
	var b strings.Builder
	b.WriteString("|")
	for _, v := range row {
		if v == 0 {
			b.WriteString("[ 00.0000 ]")
			continue
		}
		fmt.Fprintf(&b, "[ %.4f ]", v)
	}
	b.WriteString("|")
	return b.String()
}
