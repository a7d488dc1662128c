package model

// Env 前端下发的计算参数，未给出（nil）的字段使用当前配置中的值
type Env struct {
	Elements           *int     `json:"elements,omitempty"`
	RadiusStart        *float32 `json:"radius_start,omitempty"`
	RadiusMax          *float32 `json:"radius_max,omitempty"`
	TimeStep           *float32 `json:"time_step,omitempty"`
	TotalTime          *float32 `json:"total_time,omitempty"`
	InitialTemperature *float32 `json:"initial_temperature,omitempty"`
	Material           *string  `json:"material,omitempty"`
	Alpha              *float32 `json:"alpha,omitempty"`
	TemperatureAir     *float32 `json:"temperature_air,omitempty"`
}

// 物性参数
type PhysicalParameter struct {
	Name                string  `json:"name"`
	ThermalConductivity float32 `json:"thermal_conductivity"`
	SpecficHeat         float32 `json:"specfic_heat"`
	Density             float32 `json:"density"`
}

// StepResult 一个时间步的计算结果
type StepResult struct {
	Step         int       `json:"step"`
	Time         float32   `json:"time"`
	Temperatures []float32 `json:"temperatures"`
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// 消息类型
const (
	MsgEnv      = "env"
	MsgEnvSet   = "envSet"
	MsgStart    = "start"
	MsgStep     = "step"
	MsgFinished = "finished"
	MsgStop     = "stop"
	MsgStopped  = "stopped"
	MsgHistory  = "history"
	MsgError    = "error"
)
