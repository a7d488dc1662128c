package fem

import (
	"fmt"
	"math"
)

// Thermal 材料热物性参数
type Thermal struct {
	K  float32 // 导热系数
	C  float32 // 比热容
	Ro float32 // 密度
}

// Parameters 一次时间步计算所需的全部参数
type Parameters struct {
	RadiusStart float32 // 内半径
	DeltaRadius float32 // 单元长度
	RadiusMax   float32 // 外半径，对流边界所在位置
	DeltaTime   float32 // 时间步长

	Thermal Thermal

	Alpha          float32 // 对流换热系数
	TemperatureAir float32 // 环境温度
}

// Validate 比较都写成取反形式，NaN 无法通过任何一项检查
func (p Parameters) Validate() error {
	if !(p.RadiusStart >= 0) || isInf(p.RadiusStart) {
		return fmt.Errorf("%w: radius start %v", ErrConfiguration, p.RadiusStart)
	}
	if !(p.DeltaRadius > 0) || isInf(p.DeltaRadius) {
		return fmt.Errorf("%w: delta radius %v", ErrConfiguration, p.DeltaRadius)
	}
	if !(p.RadiusMax > p.RadiusStart) || isInf(p.RadiusMax) {
		return fmt.Errorf("%w: radius max %v, radius start %v", ErrConfiguration, p.RadiusMax, p.RadiusStart)
	}
	if !(p.DeltaTime > 0) || isInf(p.DeltaTime) {
		return fmt.Errorf("%w: delta time %v", ErrConfiguration, p.DeltaTime)
	}
	if !(p.Thermal.K > 0) || !(p.Thermal.C > 0) || !(p.Thermal.Ro > 0) ||
		isInf(p.Thermal.K) || isInf(p.Thermal.C) || isInf(p.Thermal.Ro) {
		return fmt.Errorf("%w: thermal parameters must be positive and finite (k=%v c=%v ro=%v)",
			ErrConfiguration, p.Thermal.K, p.Thermal.C, p.Thermal.Ro)
	}
	if !(p.Alpha >= 0) || isInf(p.Alpha) {
		return fmt.Errorf("%w: alpha %v", ErrConfiguration, p.Alpha)
	}
	if !isFinite(p.TemperatureAir) {
		return fmt.Errorf("%w: temperature air %v", ErrConfiguration, p.TemperatureAir)
	}
	return nil
}

func isInf(v float32) bool {
	return math.IsInf(float64(v), 0)
}

func isFinite(v float32) bool {
	return !math.IsNaN(float64(v)) && !isInf(v)
}
