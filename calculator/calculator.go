package calculator

import (
	"context"

	"heatfem/model"
)

// calculator 的接口定义

type Calculator interface {
	// 获取CalcHub
	GetCalcHub() *CalcHub

	// 设置计算参数
	SetEnv(env model.Env) error
	SetTemperatureAir(temperatureAir float32)
	SetAlpha(alpha float32) error
	SetTimeStep(timeStep float32) error
	SetMaterial(name string) error

	// 运行，每完成一个时间步调用一次 onStep
	Run(ctx context.Context, onStep func(result model.StepResult)) error

	// 最近的计算结果，按时间顺序
	History() []model.StepResult
}
