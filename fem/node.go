package fem

// Node 网格节点，保存一个温度值
type Node struct {
	temperature float32
}

func NewNode(temperature float32) *Node {
	return &Node{temperature: temperature}
}

func (n *Node) Temperature() float32 {
	return n.temperature
}

// 仅由网格在求解结束时写入
func (n *Node) setTemperature(temperature float32) {
	n.temperature = temperature
}
