/**
 *
 * 双端队列，保存最近若干个时间步的温度分布
 * 容量固定，队列满时 AddLast 会淘汰最早的元素
 *
 */

package deque

import "heatfem/model"

type Deque interface {
	// 队列的长度
	Size() int

	// 获取队列中对应下标的元素，0 为最早的元素
	Get(i int) model.StepResult

	// 正向遍历
	Traverse(f func(i int, item *model.StepResult))

	// 在队列结尾增加一个元素
	AddLast(item model.StepResult)

	// 在队列头部删除一个元素
	RemoveFirst()

	IsFull() bool

	IsEmpty() bool
}
