package fem

// 轴对称一维线性单元，两点高斯积分
// 所有项都约去了公共因子 π，因此对流边界项为 2·alpha·radiusMax

const (
	integrationPoint  = float32(0.5773502692)
	integrationWeight = float32(1.0)
)

// 两个积分点上的形函数值
var (
	shapeN1 = [2]float32{0.5 * (1 + integrationPoint), 0.5 * (1 - integrationPoint)}
	shapeN2 = [2]float32{0.5 * (1 - integrationPoint), 0.5 * (1 + integrationPoint)}
)

// FiniteElement 两个相邻节点之间的单元
type FiniteElement struct {
	kLocalMatrix [2][2]float32
	fLocalVector [2][1]float32
}

func NewFiniteElement() *FiniteElement {
	return &FiniteElement{}
}

func (e *FiniteElement) instantiateMatrix() {
	for i := range e.kLocalMatrix {
		for j := range e.kLocalMatrix[i] {
			e.kLocalMatrix[i][j] = 0
		}
	}
}

func (e *FiniteElement) instantiateVector() {
	for i := range e.fLocalVector {
		e.fLocalVector[i][0] = 0
	}
}

// CalculateLocalMatrix 计算单元刚度矩阵：导热项 + 集中热容项
func (e *FiniteElement) CalculateLocalMatrix(radiusStart, deltaRadius, deltaTime float32, thermal Thermal) {
	e.instantiateMatrix()
	for p := 0; p < 2; p++ {
		rp := integrationRadius(p, radiusStart, deltaRadius)
		kc := thermal.K * rp * integrationWeight / deltaRadius
		e.kLocalMatrix[0][0] += kc
		e.kLocalMatrix[0][1] -= kc
		e.kLocalMatrix[1][0] -= kc
		e.kLocalMatrix[1][1] += kc
	}
	m := lumpedCapacity(radiusStart, deltaRadius, deltaTime, thermal)
	e.kLocalMatrix[0][0] += m[0]
	e.kLocalMatrix[1][1] += m[1]
}

// CalculateLocalVector 计算单元载荷向量，temperatureStart 为上一时间步两个节点的温度
func (e *FiniteElement) CalculateLocalVector(radiusStart, deltaRadius, deltaTime float32, thermal Thermal, temperatureStart [2]float32) {
	e.instantiateVector()
	m := lumpedCapacity(radiusStart, deltaRadius, deltaTime, thermal)
	e.fLocalVector[0][0] += m[0] * temperatureStart[0]
	e.fLocalVector[1][0] += m[1] * temperatureStart[1]
}

// 对流边界只作用于外侧节点，由网格在最后一个单元上调用
func (e *FiniteElement) addBoundaryConditionsMatrix(alpha, radiusMax float32) {
	e.kLocalMatrix[1][1] += 2 * alpha * radiusMax
}

func (e *FiniteElement) addBoundaryConditionsVector(alpha, radiusMax, temperatureAir float32) {
	e.fLocalVector[1][0] += 2 * alpha * radiusMax * temperatureAir
}

func (e *FiniteElement) LocalMatrix() [2][2]float32 {
	return e.kLocalMatrix
}

func (e *FiniteElement) LocalVector() [2][1]float32 {
	return e.fLocalVector
}

func integrationRadius(p int, radiusStart, deltaRadius float32) float32 {
	return shapeN1[p]*radiusStart + shapeN2[p]*(radiusStart+deltaRadius)
}

// 行和集中的热容，保证总体矩阵非对角元素非正
func lumpedCapacity(radiusStart, deltaRadius, deltaTime float32, thermal Thermal) [2]float32 {
	var m [2]float32
	for p := 0; p < 2; p++ {
		rp := integrationRadius(p, radiusStart, deltaRadius)
		w := thermal.C * thermal.Ro * deltaRadius * rp * integrationWeight / deltaTime
		m[0] += w * shapeN1[p]
		m[1] += w * shapeN2[p]
	}
	return m
}
