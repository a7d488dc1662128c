package fem

import "errors"

var (
	// 网格或计算参数不合法
	ErrConfiguration = errors.New("fem: invalid configuration")
	// 总体刚度矩阵对角元素为零或接近零，方程组无法求解
	ErrSingular = errors.New("fem: singular system")
	// 在局部矩阵、向量计算完成之前调用了组装或求解
	ErrNotAssembled = errors.New("fem: system not assembled")
)
