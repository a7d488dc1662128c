package calculator

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"heatfem/fem"
	"heatfem/model"
)

func f32(v float32) *float32 { return &v }

func str(v string) *string { return &v }

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Elements = 3
	cfg.RadiusMax = 0.03
	cfg.TimeStep = 1
	cfg.TotalTime = 5
	cfg.Iterations = 2000
	cfg.History = 3
	cfg.InitialTemperature = 100
	cfg.TemperatureAir = 200
	return cfg
}

func TestSimulation_RunHeating(t *testing.T) {
	s, err := NewSimulation(smallConfig(), nil)
	require.NoError(t, err)

	var results []model.StepResult
	require.NoError(t, s.Run(context.Background(), func(result model.StepResult) {
		results = append(results, result)
	}))
	require.Len(t, results, 5)

	previous := []float32{100, 100, 100, 100}
	for i, r := range results {
		assert.Equal(t, i+1, r.Step)
		assert.Equal(t, float32(i+1), r.Time)
		require.Len(t, r.Temperatures, 4)
		for j, temperature := range r.Temperatures {
			assert.GreaterOrEqual(t, temperature, previous[j]-1e-3, "step %d node %d", r.Step, j)
			assert.LessOrEqual(t, temperature, float32(200))
		}
		previous = r.Temperatures
	}
	// 外表面升温最快
	last := results[len(results)-1].Temperatures
	assert.Greater(t, last[3], last[0])

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, 3, history[0].Step)
	assert.Equal(t, results[4], history[2])
}

func TestSimulation_Stop(t *testing.T) {
	s, err := NewSimulation(smallConfig(), nil)
	require.NoError(t, err)

	s.GetCalcHub().StopSignal()
	err = s.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrStopped)
	assert.Empty(t, s.History())

	s.GetCalcHub().StartSignal()
	steps := 0
	err = s.Run(context.Background(), func(model.StepResult) {
		steps++
		if steps == 2 {
			s.GetCalcHub().StopSignal()
		}
	})
	assert.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, 2, steps)
	assert.Len(t, s.History(), 2)
}

func TestSimulation_Canceled(t *testing.T) {
	s, err := NewSimulation(smallConfig(), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx, nil), context.Canceled)
}

func TestSimulation_SetEnv(t *testing.T) {
	s, err := NewSimulation(smallConfig(), nil)
	require.NoError(t, err)

	elements := 4
	require.NoError(t, s.SetEnv(model.Env{
		Elements:       &elements,
		RadiusMax:      f32(0.04),
		Material:       str("copper"),
		TemperatureAir: f32(20),
	}))
	assert.Equal(t, 4, s.cfg.Elements)
	assert.Equal(t, fem.Thermal{K: 401, C: 385, Ro: 8960}, s.thermal)

	err = s.SetEnv(model.Env{Material: str("wood")})
	assert.ErrorIs(t, err, fem.ErrConfiguration)
	assert.Equal(t, "copper", s.cfg.Material)

	err = s.SetEnv(model.Env{TimeStep: f32(100)})
	assert.ErrorIs(t, err, fem.ErrConfiguration)
	assert.Equal(t, float32(1), s.cfg.TimeStep)

	var results []model.StepResult
	require.NoError(t, s.Run(context.Background(), func(r model.StepResult) {
		results = append(results, r)
	}))
	require.Len(t, results, 5)
	assert.Len(t, results[0].Temperatures, 5)
}

func TestSimulation_SetEnvZeroValues(t *testing.T) {
	cfg := smallConfig()
	cfg.RadiusStart = 0.01
	cfg.RadiusMax = 0.04
	s, err := NewSimulation(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, s.SetEnv(model.Env{
		RadiusStart:        f32(0),
		InitialTemperature: f32(0),
		TemperatureAir:     f32(0),
	}))
	assert.Equal(t, float32(0), s.cfg.RadiusStart)
	assert.Equal(t, float32(0), s.cfg.InitialTemperature)
	assert.Equal(t, float32(0), s.cfg.TemperatureAir)
	// 未给出的字段保持不变
	assert.Equal(t, float32(0.04), s.cfg.RadiusMax)
	assert.Equal(t, float32(1), s.cfg.TimeStep)
	assert.Equal(t, "steel", s.cfg.Material)

	// 初始温度与环境温度都为 0，温度场保持 0
	var results []model.StepResult
	require.NoError(t, s.Run(context.Background(), func(r model.StepResult) {
		results = append(results, r)
	}))
	require.Len(t, results, 5)
	for _, temperature := range results[4].Temperatures {
		assert.InDelta(t, 0, temperature, 1e-4)
	}

	err = s.SetEnv(model.Env{TimeStep: f32(float32(math.NaN()))})
	assert.ErrorIs(t, err, fem.ErrConfiguration)
	assert.Equal(t, float32(1), s.cfg.TimeStep)
}

func TestSimulation_PartialLastStep(t *testing.T) {
	cfg := smallConfig()
	cfg.TotalTime = 2.5
	s, err := NewSimulation(cfg, nil)
	require.NoError(t, err)

	var results []model.StepResult
	require.NoError(t, s.Run(context.Background(), func(r model.StepResult) {
		results = append(results, r)
	}))
	require.Len(t, results, 3)
	assert.Equal(t, float32(1), results[0].Time)
	assert.Equal(t, float32(2), results[1].Time)
	assert.InDelta(t, 2.5, results[2].Time, 1e-6)

	// 半个时间步的升温小于一个完整时间步
	full, half := results[1].Temperatures, results[2].Temperatures
	for j := range half {
		assert.GreaterOrEqual(t, half[j], full[j]-1e-3)
		assert.LessOrEqual(t, half[j], float32(200))
	}
	gainFirst := results[1].Temperatures[3] - results[0].Temperatures[3]
	gainLast := half[3] - full[3]
	assert.Less(t, gainLast, gainFirst)
}

func TestSimulation_Setters(t *testing.T) {
	cfg := smallConfig()
	cfg.K = 30
	s, err := NewSimulation(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, float32(30), s.thermal.K)

	assert.ErrorIs(t, s.SetAlpha(-1), fem.ErrConfiguration)
	assert.ErrorIs(t, s.SetAlpha(float32(math.NaN())), fem.ErrConfiguration)
	require.NoError(t, s.SetAlpha(50))
	assert.Equal(t, float32(50), s.cfg.Alpha)

	assert.ErrorIs(t, s.SetTimeStep(0), fem.ErrConfiguration)
	require.NoError(t, s.SetTimeStep(0.5))
	assert.Equal(t, 10, s.cfg.Steps())

	s.SetTemperatureAir(-10)
	assert.Equal(t, float32(-10), s.cfg.TemperatureAir)

	require.NoError(t, s.SetMaterial("aluminium"))
	assert.Equal(t, float32(30), s.thermal.K)
	assert.Equal(t, float32(2700), s.thermal.Ro)
	assert.Error(t, s.SetMaterial("wood"))
	assert.Equal(t, "aluminium", s.cfg.Material)
}

func TestNewSimulation_Invalid(t *testing.T) {
	cfg := smallConfig()
	cfg.Material = "wood"
	_, err := NewSimulation(cfg, nil)
	assert.ErrorIs(t, err, fem.ErrConfiguration)

	cfg = smallConfig()
	cfg.Elements = 0
	_, err = NewSimulation(cfg, nil)
	assert.ErrorIs(t, err, fem.ErrConfiguration)
}
