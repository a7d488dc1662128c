package fem

import (
	"context"
	"fmt"
	"math"
)

const (
	SingularTolerance = 1e-12

	// 每隔多少次迭代检查一次 ctx
	cancelCheckInterval = 1024
)

// gaussSeidel 固定迭代次数的高斯-赛德尔迭代，没有收敛判断。
// 每一行的新值立即覆盖 temperatures[i]，后续行使用最新值。
func gaussSeidel(ctx context.Context, k [][]float32, f []float32, iterations int) ([]float32, error) {
	size := len(f)
	if len(k) != size {
		return nil, fmt.Errorf("%w: matrix has %d rows, vector has %d", ErrConfiguration, len(k), size)
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iteration count %d <= 0", ErrConfiguration, iterations)
	}
	for i := 0; i < size; i++ {
		if len(k[i]) != size {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrConfiguration, i, len(k[i]), size)
		}
		if math.Abs(float64(k[i][i])) <= SingularTolerance {
			return nil, fmt.Errorf("%w: diagonal entry [%d][%d] = %v", ErrSingular, i, i, k[i][i])
		}
	}

	temperatures := make([]float32, size)
	for iteration := 0; iteration < iterations; iteration++ {
		if iteration%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for i := 0; i < size; i++ {
			value := f[i] / k[i][i]
			for j := 0; j < size; j++ {
				if i == j {
					continue
				}
				value -= (k[i][j] / k[i][i]) * temperatures[j]
			}
			temperatures[i] = value
		}
	}

	for i, t := range temperatures {
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return nil, fmt.Errorf("%w: temperature %d is %v", ErrSingular, i, t)
		}
	}
	return temperatures, nil
}
