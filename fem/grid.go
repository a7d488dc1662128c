package fem

import (
	"context"
	"fmt"
	"math"
)

const DefaultIterations = 100000

// 外半径与最后一个节点位置允许的相对误差
const radiusTolerance = 1e-4

// Grid 有限元网格：按半径递增顺序排列的单元和节点，节点数 = 单元数 + 1
type Grid struct {
	elements []*FiniteElement
	nodes    []*Node

	// 每次组装前重新分配并清零
	kGlobalMatrix [][]float32
	fGlobalVector []float32
	temperatures  []float32

	matricesReady bool
	vectorsReady  bool

	iterations int
	observer   Observer
}

type Option func(g *Grid)

// WithIterations 设置高斯-赛德尔迭代次数，默认 DefaultIterations
func WithIterations(iterations int) Option {
	return func(g *Grid) {
		g.iterations = iterations
	}
}

func WithObserver(observer Observer) Option {
	return func(g *Grid) {
		g.observer = observer
	}
}

func NewGrid(elements []*FiniteElement, nodes []*Node, opts ...Option) (*Grid, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: grid without elements", ErrConfiguration)
	}
	if len(nodes) != len(elements)+1 {
		return nil, fmt.Errorf("%w: %d nodes for %d elements, want %d",
			ErrConfiguration, len(nodes), len(elements), len(elements)+1)
	}
	for i, e := range elements {
		if e == nil {
			return nil, fmt.Errorf("%w: element %d is nil", ErrConfiguration, i)
		}
	}
	for i, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("%w: node %d is nil", ErrConfiguration, i)
		}
	}
	g := &Grid{
		elements:   elements,
		nodes:      nodes,
		iterations: DefaultIterations,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.iterations <= 0 {
		return nil, fmt.Errorf("%w: iteration count %d <= 0", ErrConfiguration, g.iterations)
	}
	return g, nil
}

// NewUniformGrid 创建 count 个单元，所有节点温度为 initialTemperature
func NewUniformGrid(count int, initialTemperature float32, opts ...Option) (*Grid, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: element count %d <= 0", ErrConfiguration, count)
	}
	elements := make([]*FiniteElement, count)
	nodes := make([]*Node, count+1)
	for i := range elements {
		elements[i] = NewFiniteElement()
	}
	for i := range nodes {
		nodes[i] = NewNode(initialTemperature)
	}
	return NewGrid(elements, nodes, opts...)
}

// CalculateLocalMatrixes 依次计算每个单元的局部矩阵，最后一个单元加上对流边界项
func (g *Grid) CalculateLocalMatrixes(p Parameters) error {
	if err := g.validate(p); err != nil {
		return err
	}
	localRadiusStart := p.RadiusStart
	last := len(g.elements) - 1
	for i, element := range g.elements {
		element.CalculateLocalMatrix(localRadiusStart, p.DeltaRadius, p.DeltaTime, p.Thermal)
		if i == last {
			element.addBoundaryConditionsMatrix(p.Alpha, p.RadiusMax)
		}
		localRadiusStart += p.DeltaRadius
	}
	g.matricesReady = true
	g.kGlobalMatrix = nil
	g.notify(PhaseLocalMatrixes)
	return nil
}

// CalculateLocalVectors 以节点当前温度作为时间步初始温度计算局部向量
func (g *Grid) CalculateLocalVectors(p Parameters) error {
	if err := g.validate(p); err != nil {
		return err
	}
	localRadiusStart := p.RadiusStart
	last := len(g.elements) - 1
	for i, element := range g.elements {
		temperatureStart := [2]float32{g.nodes[i].Temperature(), g.nodes[i+1].Temperature()}
		element.CalculateLocalVector(localRadiusStart, p.DeltaRadius, p.DeltaTime, p.Thermal, temperatureStart)
		if i == last {
			element.addBoundaryConditionsVector(p.Alpha, p.RadiusMax, p.TemperatureAir)
		}
		localRadiusStart += p.DeltaRadius
	}
	g.vectorsReady = true
	g.fGlobalVector = nil
	g.notify(PhaseLocalVectors)
	return nil
}

func (g *Grid) GenerateGlobalMatrix() error {
	if !g.matricesReady {
		return fmt.Errorf("%w: local matrixes not calculated", ErrNotAssembled)
	}
	g.instantiateGlobalMatrix()
	for e, element := range g.elements {
		local := element.LocalMatrix()
		g.kGlobalMatrix[e][e] += local[0][0]
		g.kGlobalMatrix[e][e+1] += local[0][1]
		g.kGlobalMatrix[e+1][e] += local[1][0]
		g.kGlobalMatrix[e+1][e+1] += local[1][1]
	}
	g.notify(PhaseGlobalMatrix)
	return nil
}

func (g *Grid) GenerateGlobalVector() error {
	if !g.vectorsReady {
		return fmt.Errorf("%w: local vectors not calculated", ErrNotAssembled)
	}
	g.instantiateGlobalVector()
	for e, element := range g.elements {
		local := element.LocalVector()
		g.fGlobalVector[e] += local[0][0]
		g.fGlobalVector[e+1] += local[1][0]
	}
	g.notify(PhaseGlobalVector)
	return nil
}

// CalculateTemperatures 求解总体方程组并把结果写回节点。
// 失败或被取消时节点温度保持不变。
func (g *Grid) CalculateTemperatures(ctx context.Context) ([]float32, error) {
	if g.kGlobalMatrix == nil || g.fGlobalVector == nil {
		return nil, fmt.Errorf("%w: global matrix or vector not generated", ErrNotAssembled)
	}
	temperatures, err := gaussSeidel(ctx, g.kGlobalMatrix, g.fGlobalVector, g.iterations)
	if err != nil {
		return nil, err
	}
	for i, node := range g.nodes {
		node.setTemperature(temperatures[i])
	}
	g.temperatures = temperatures
	g.notify(PhaseTemperatures)
	return g.Temperatures(), nil
}

// Solve 完成一个时间步：局部计算、组装、求解
func (g *Grid) Solve(ctx context.Context, p Parameters) ([]float32, error) {
	if err := g.CalculateLocalMatrixes(p); err != nil {
		return nil, err
	}
	if err := g.CalculateLocalVectors(p); err != nil {
		return nil, err
	}
	if err := g.GenerateGlobalMatrix(); err != nil {
		return nil, err
	}
	if err := g.GenerateGlobalVector(); err != nil {
		return nil, err
	}
	return g.CalculateTemperatures(ctx)
}

// 对流边界项必须作用在最后一个节点所在的半径上
func (g *Grid) validate(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	end := p.RadiusStart + float32(len(g.elements))*p.DeltaRadius
	if math.Abs(float64(end-p.RadiusMax)) > radiusTolerance*float64(p.RadiusMax) {
		return fmt.Errorf("%w: radius max %v does not match outer node radius %v",
			ErrConfiguration, p.RadiusMax, end)
	}
	return nil
}

func (g *Grid) instantiateGlobalMatrix() {
	size := len(g.elements) + 1
	g.kGlobalMatrix = make([][]float32, size)
	for i := range g.kGlobalMatrix {
		g.kGlobalMatrix[i] = make([]float32, size)
		for j := range g.kGlobalMatrix[i] {
			g.kGlobalMatrix[i][j] = 0
		}
	}
}

func (g *Grid) instantiateGlobalVector() {
	g.fGlobalVector = make([]float32, len(g.elements)+1)
	for i := range g.fGlobalVector {
		g.fGlobalVector[i] = 0
	}
}

func (g *Grid) notify(phase Phase) {
	if g.observer != nil {
		g.observer.Observe(phase, g)
	}
}

// accessors

func (g *Grid) Elements() []*FiniteElement {
	return append([]*FiniteElement(nil), g.elements...)
}

func (g *Grid) Nodes() []*Node {
	return append([]*Node(nil), g.nodes...)
}

func (g *Grid) Iterations() int {
	return g.iterations
}

// GlobalMatrix 返回总体矩阵的副本，未组装时为 nil
func (g *Grid) GlobalMatrix() [][]float32 {
	if g.kGlobalMatrix == nil {
		return nil
	}
	m := make([][]float32, len(g.kGlobalMatrix))
	for i, row := range g.kGlobalMatrix {
		m[i] = append([]float32(nil), row...)
	}
	return m
}

func (g *Grid) GlobalVector() []float32 {
	if g.fGlobalVector == nil {
		return nil
	}
	return append([]float32(nil), g.fGlobalVector...)
}

// Temperatures 当前节点温度，按节点顺序
func (g *Grid) Temperatures() []float32 {
	t := make([]float32, len(g.nodes))
	for i, node := range g.nodes {
		t[i] = node.Temperature()
	}
	return t
}
