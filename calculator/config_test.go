package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"heatfem/fem"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8, cfg.Elements)
	assert.Equal(t, fem.DefaultIterations, cfg.Iterations)
	assert.Equal(t, "steel", cfg.Material)
	assert.InDelta(t, 0.01, cfg.DeltaRadius(), 1e-7)
	assert.Equal(t, 20, cfg.Steps())
}

func TestLoadConfig(t *testing.T) {
	data := []byte(`
[calculator]
Elements = 3
RadiusMax = 0.03
TimeStep = 1
TotalTime = 2.5
InitialTemperature = 20
Iterations = 5000

[material]
Name = copper
K = 400

[boundary]
Alpha = 150
TemperatureAir = 5
`)
	cfg, err := LoadConfig(data)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Elements)
	assert.Equal(t, 5000, cfg.Iterations)
	assert.Equal(t, "copper", cfg.Material)
	assert.Equal(t, float32(400), cfg.K)
	assert.Equal(t, float32(150), cfg.Alpha)
	assert.Equal(t, float32(5), cfg.TemperatureAir)
	assert.Equal(t, 3, cfg.Steps())
}

func TestConfig_NonFiniteValues(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	cases := map[string]func(c *Config){
		"nan time step":           func(c *Config) { c.TimeStep = nan },
		"inf time step":           func(c *Config) { c.TimeStep = inf },
		"nan total time":          func(c *Config) { c.TotalTime = nan },
		"nan radius start":        func(c *Config) { c.RadiusStart = nan },
		"nan radius max":          func(c *Config) { c.RadiusMax = nan },
		"inf radius max":          func(c *Config) { c.RadiusMax = inf },
		"nan alpha":               func(c *Config) { c.Alpha = nan },
		"nan initial temperature": func(c *Config) { c.InitialTemperature = nan },
		"inf temperature air":     func(c *Config) { c.TemperatureAir = inf },
		"nan k":                   func(c *Config) { c.K = nan },
		"negative c":              func(c *Config) { c.C = -1 },
		"nan ro":                  func(c *Config) { c.Ro = nan },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), fem.ErrConfiguration)
		})
	}
}

func TestConfig_StepDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeStep = 1
	cfg.TotalTime = 2.5
	assert.Equal(t, 3, cfg.Steps())
	assert.Equal(t, float32(1), cfg.StepDuration(1))
	assert.Equal(t, float32(1), cfg.StepDuration(2))
	assert.InDelta(t, 0.5, cfg.StepDuration(3), 1e-6)

	// 浮点误差产生的余量不单独算一步
	cfg.TimeStep = 0.1
	cfg.TotalTime = 0.3
	assert.Equal(t, 3, cfg.Steps())
	assert.InDelta(t, 0.1, cfg.StepDuration(3), 1e-6)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig([]byte("[calculator]\nElements = 0\n"))
	assert.ErrorIs(t, err, fem.ErrConfiguration)

	_, err = LoadConfig([]byte("[calculator]\nIterations = 0\n"))
	assert.ErrorIs(t, err, fem.ErrConfiguration)

	_, err = LoadConfig([]byte("[calculator]\nTimeStep = 10\nTotalTime = 5\n"))
	assert.ErrorIs(t, err, fem.ErrConfiguration)

	_, err = LoadConfig("does/not/exist.ini")
	assert.Error(t, err)
}
