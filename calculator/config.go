package calculator

import (
	"fmt"
	"math"

	"gopkg.in/ini.v1"
	"heatfem/fem"
)

// Config 计算参数，来自 ini 配置文件
type Config struct {
	// [calculator]
	Elements           int
	RadiusStart        float32
	RadiusMax          float32
	TimeStep           float32
	TotalTime          float32
	InitialTemperature float32
	Iterations         int
	History            int

	// [material]，K、C、Ro 大于零时覆盖材料表中的值
	Material     string
	MaterialFile string
	K            float32
	C            float32
	Ro           float32

	// [boundary]
	Alpha          float32
	TemperatureAir float32
}

func DefaultConfig() Config {
	return loadCfg(ini.Empty())
}

// LoadConfig source 可以是文件路径或 []byte，与 ini.Load 一致
func LoadConfig(source interface{}) (Config, error) {
	file, err := ini.Load(source)
	if err != nil {
		return Config{}, fmt.Errorf("配置文件读取错误，请检查文件路径: %w", err)
	}
	cfg := loadCfg(file)
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadCfg(file *ini.File) Config {
	calculator := file.Section("calculator")
	material := file.Section("material")
	boundary := file.Section("boundary")
	return Config{
		Elements:           calculator.Key("Elements").MustInt(8),
		RadiusStart:        float32(calculator.Key("RadiusStart").MustFloat64(0)),
		RadiusMax:          float32(calculator.Key("RadiusMax").MustFloat64(0.08)),
		TimeStep:           float32(calculator.Key("TimeStep").MustFloat64(50)),
		TotalTime:          float32(calculator.Key("TotalTime").MustFloat64(1000)),
		InitialTemperature: float32(calculator.Key("InitialTemperature").MustFloat64(100)),
		Iterations:         calculator.Key("Iterations").MustInt(fem.DefaultIterations),
		History:            calculator.Key("History").MustInt(100),

		Material:     material.Key("Name").MustString("steel"),
		MaterialFile: material.Key("File").String(),
		K:            float32(material.Key("K").MustFloat64(0)),
		C:            float32(material.Key("C").MustFloat64(0)),
		Ro:           float32(material.Key("Ro").MustFloat64(0)),

		Alpha:          float32(boundary.Key("Alpha").MustFloat64(300)),
		TemperatureAir: float32(boundary.Key("TemperatureAir").MustFloat64(200)),
	}
}

// Validate 比较都写成取反形式，NaN 无法通过检查
func (c Config) Validate() error {
	switch {
	case c.Elements < 1:
		return fmt.Errorf("%w: elements %d < 1", fem.ErrConfiguration, c.Elements)
	case !(c.RadiusStart >= 0) || !(c.RadiusMax > c.RadiusStart) || !finite(c.RadiusMax):
		return fmt.Errorf("%w: radius range [%v, %v]", fem.ErrConfiguration, c.RadiusStart, c.RadiusMax)
	case !(c.TimeStep > 0) || !finite(c.TimeStep):
		return fmt.Errorf("%w: time step %v", fem.ErrConfiguration, c.TimeStep)
	case !(c.TotalTime >= c.TimeStep) || !finite(c.TotalTime):
		return fmt.Errorf("%w: total time %v, time step %v", fem.ErrConfiguration, c.TotalTime, c.TimeStep)
	case c.Iterations < 1:
		return fmt.Errorf("%w: iterations %d < 1", fem.ErrConfiguration, c.Iterations)
	case c.History < 1:
		return fmt.Errorf("%w: history %d < 1", fem.ErrConfiguration, c.History)
	case !(c.Alpha >= 0) || !finite(c.Alpha):
		return fmt.Errorf("%w: alpha %v", fem.ErrConfiguration, c.Alpha)
	case !finite(c.InitialTemperature) || !finite(c.TemperatureAir):
		return fmt.Errorf("%w: initial temperature %v, temperature air %v",
			fem.ErrConfiguration, c.InitialTemperature, c.TemperatureAir)
	case !(c.K >= 0) || !(c.C >= 0) || !(c.Ro >= 0) || !finite(c.K) || !finite(c.C) || !finite(c.Ro):
		return fmt.Errorf("%w: thermal overrides k=%v c=%v ro=%v", fem.ErrConfiguration, c.K, c.C, c.Ro)
	}
	return nil
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// DeltaRadius 均匀网格的单元长度
func (c Config) DeltaRadius() float32 {
	return (c.RadiusMax - c.RadiusStart) / float32(c.Elements)
}

// 剩余时间小于该比例的 TimeStep 时不再单独计算一步
const stepTolerance = 1e-4

// Steps 时间步数，TotalTime 不是 TimeStep 的整数倍时最后一步缩短
func (c Config) Steps() int {
	steps := int(c.TotalTime / c.TimeStep)
	if c.TotalTime-float32(steps)*c.TimeStep > stepTolerance*c.TimeStep {
		steps++
	}
	if steps < 1 {
		steps = 1
	}
	return steps
}

// StepDuration 第 step 步（从 1 开始）的时间步长，最后一步截止到 TotalTime
func (c Config) StepDuration(step int) float32 {
	if step < c.Steps() {
		return c.TimeStep
	}
	remaining := c.TotalTime - float32(step-1)*c.TimeStep
	if remaining <= 0 || remaining > c.TimeStep {
		return c.TimeStep
	}
	return remaining
}
