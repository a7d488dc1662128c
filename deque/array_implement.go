package deque

import (
	"fmt"

	"heatfem/model"
)

var _ Deque = (*ArrDeque)(nil)

// ArrDeque 基于环形数组实现
type ArrDeque struct {
	arr []model.StepResult

	// 队首下标
	start int
	// 元素个数
	size int
}

// 工厂方法
func NewArrDeque(capacity int) *ArrDeque {
	if capacity < 1 {
		capacity = 1
	}
	return &ArrDeque{
		arr: make([]model.StepResult, capacity),
	}
}

func (ad *ArrDeque) Size() int {
	return ad.size
}

func (ad *ArrDeque) Capacity() int {
	return len(ad.arr)
}

func (ad *ArrDeque) Get(i int) model.StepResult {
	if i < 0 || i >= ad.size {
		panic(fmt.Sprintf("index %d out of length %d", i, ad.size))
	}
	return ad.arr[ad.index(i)]
}

func (ad *ArrDeque) Traverse(f func(i int, item *model.StepResult)) {
	for i := 0; i < ad.size; i++ {
		f(i, &ad.arr[ad.index(i)])
	}
}

func (ad *ArrDeque) AddLast(item model.StepResult) {
	// 温度数组复制一份，避免调用方后续修改
	item.Temperatures = append([]float32(nil), item.Temperatures...)
	if ad.IsFull() {
		ad.RemoveFirst()
	}
	ad.arr[ad.index(ad.size)] = item
	ad.size++
}

func (ad *ArrDeque) RemoveFirst() {
	if ad.IsEmpty() {
		return
	}
	ad.arr[ad.start] = model.StepResult{}
	ad.start = (ad.start + 1) % len(ad.arr)
	ad.size--
}

func (ad *ArrDeque) IsFull() bool {
	return ad.size == len(ad.arr)
}

func (ad *ArrDeque) IsEmpty() bool {
	return ad.size == 0
}

func (ad *ArrDeque) index(i int) int {
	return (ad.start + i) % len(ad.arr)
}
