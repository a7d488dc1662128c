package calculator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"heatfem/deque"
	"heatfem/fem"
	"heatfem/material"
	"heatfem/model"
)

var ErrStopped = errors.New("calculator: stopped")

// Simulation 圆柱径向非稳态导热，逐个时间步求解
type Simulation struct {
	mu        sync.Mutex // 保护 cfg、thermal 和 history
	cfg       Config
	thermal   fem.Thermal
	materials *material.Table

	history  deque.Deque
	calcHub  *CalcHub
	observer fem.Observer
}

func NewSimulation(cfg Config, materials *material.Table) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if materials == nil {
		materials = material.Default()
	}
	s := &Simulation{
		cfg:       cfg,
		materials: materials,
		history:   deque.NewArrDeque(cfg.History),
		calcHub:   NewCalcHub(),
	}
	if err := s.resolveThermal(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetObserver 网格每个计算阶段结束后的回调，用于调试输出
func (s *Simulation) SetObserver(observer fem.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = observer
}

func (s *Simulation) GetCalcHub() *CalcHub {
	return s.calcHub
}

// 材料表中的值，配置中 K、C、Ro 大于零时覆盖
func (s *Simulation) resolveThermal() error {
	m, err := s.materials.Get(s.cfg.Material)
	if err != nil {
		return err
	}
	thermal := m.Thermal
	if s.cfg.K > 0 {
		thermal.K = s.cfg.K
	}
	if s.cfg.C > 0 {
		thermal.C = s.cfg.C
	}
	if s.cfg.Ro > 0 {
		thermal.Ro = s.cfg.Ro
	}
	s.thermal = thermal
	return nil
}

// SetEnv 只修改 env 中给出的字段，0 也是有效值
func (s *Simulation) SetEnv(env model.Env) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	if env.Elements != nil {
		cfg.Elements = *env.Elements
	}
	setFloat(&cfg.RadiusStart, env.RadiusStart)
	setFloat(&cfg.RadiusMax, env.RadiusMax)
	setFloat(&cfg.TimeStep, env.TimeStep)
	setFloat(&cfg.TotalTime, env.TotalTime)
	setFloat(&cfg.InitialTemperature, env.InitialTemperature)
	setFloat(&cfg.Alpha, env.Alpha)
	setFloat(&cfg.TemperatureAir, env.TemperatureAir)
	if env.Material != nil {
		cfg.Material = *env.Material
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	previous := s.cfg
	s.cfg = cfg
	if err := s.resolveThermal(); err != nil {
		s.cfg = previous
		return err
	}
	log.WithFields(log.Fields{
		"Elements":           cfg.Elements,
		"RadiusStart":        cfg.RadiusStart,
		"RadiusMax":          cfg.RadiusMax,
		"TimeStep":           cfg.TimeStep,
		"TotalTime":          cfg.TotalTime,
		"InitialTemperature": cfg.InitialTemperature,
		"Material":           cfg.Material,
		"Alpha":              cfg.Alpha,
		"TemperatureAir":     cfg.TemperatureAir,
	}).Info("设置计算参数")
	return nil
}

func setFloat(dst *float32, v *float32) {
	if v != nil {
		*dst = *v
	}
}

func (s *Simulation) SetTemperatureAir(temperatureAir float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.TemperatureAir = temperatureAir
	log.WithField("TemperatureAir", temperatureAir).Info("设置环境温度")
}

func (s *Simulation) SetAlpha(alpha float32) error {
	if !(alpha >= 0) {
		return fmt.Errorf("%w: alpha %v", fem.ErrConfiguration, alpha)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Alpha = alpha
	log.WithField("Alpha", alpha).Info("设置换热系数")
	return nil
}

func (s *Simulation) SetTimeStep(timeStep float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	cfg.TimeStep = timeStep
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	log.WithFields(log.Fields{
		"TimeStep": timeStep,
		"Steps":    cfg.Steps(),
	}).Info("设置时间步长")
	return nil
}

func (s *Simulation) SetMaterial(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.cfg.Material
	s.cfg.Material = name
	if err := s.resolveThermal(); err != nil {
		s.cfg.Material = previous
		return err
	}
	log.WithFields(log.Fields{
		"Material": name,
		"K":        s.thermal.K,
		"C":        s.thermal.C,
		"Ro":       s.thermal.Ro,
	}).Info("设置材料")
	return nil
}

// 从当前配置生成一个新的网格和计算参数，并清空上一次运行的结果
func (s *Simulation) prepare() (*fem.Grid, fem.Parameters, Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	s.history = deque.NewArrDeque(cfg.History)
	opts := []fem.Option{fem.WithIterations(cfg.Iterations)}
	if s.observer != nil {
		opts = append(opts, fem.WithObserver(s.observer))
	}
	grid, err := fem.NewUniformGrid(cfg.Elements, cfg.InitialTemperature, opts...)
	if err != nil {
		return nil, fem.Parameters{}, Config{}, err
	}
	p := fem.Parameters{
		RadiusStart:    cfg.RadiusStart,
		DeltaRadius:    cfg.DeltaRadius(),
		RadiusMax:      cfg.RadiusMax,
		DeltaTime:      cfg.TimeStep,
		Thermal:        s.thermal,
		Alpha:          cfg.Alpha,
		TemperatureAir: cfg.TemperatureAir,
	}
	return grid, p, cfg, nil
}

// Run 每个时间步都以上一步的节点温度作为初始温度
func (s *Simulation) Run(ctx context.Context, onStep func(result model.StepResult)) error {
	grid, p, cfg, err := s.prepare()
	if err != nil {
		return err
	}
	steps := cfg.Steps()
	stop := s.calcHub.Stop()
	start := time.Now()
	log.WithFields(log.Fields{
		"Steps":       steps,
		"DeltaRadius": p.DeltaRadius,
		"DeltaTime":   p.DeltaTime,
	}).Info("开始计算")

	var elapsed float32
	for step := 1; step <= steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			log.WithField("Step", step).Info("计算已停止")
			return ErrStopped
		default:
		}
		p.DeltaTime = cfg.StepDuration(step)
		elapsed += p.DeltaTime
		temperatures, err := grid.Solve(ctx, p)
		if err != nil {
			return fmt.Errorf("time step %d: %w", step, err)
		}
		result := model.StepResult{
			Step:         step,
			Time:         elapsed,
			Temperatures: temperatures,
		}
		s.mu.Lock()
		s.history.AddLast(result)
		s.mu.Unlock()
		log.WithFields(log.Fields{
			"Step":         step,
			"Time":         result.Time,
			"Temperatures": temperatures,
		}).Debug("时间步计算完成")
		if onStep != nil {
			onStep(result)
		}
	}
	log.Info("计算完成，消耗时间: ", time.Since(start))
	return nil
}

func (s *Simulation) History() []model.StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]model.StepResult, 0, s.history.Size())
	s.history.Traverse(func(_ int, item *model.StepResult) {
		r := *item
		r.Temperatures = append([]float32(nil), item.Temperatures...)
		results = append(results, r)
	})
	return results
}
