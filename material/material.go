package material

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"heatfem/fem"
	"heatfem/model"
)

const DefaultName = "steel"

// Material 材料热物性参数
type Material struct {
	Name    string
	Thermal fem.Thermal
}

// Table 按名称排序的材料表
type Table struct {
	materials []Material
}

// 内置材料表，k: W/(m·K)，c: J/(kg·K)，ro: kg/m³
func Default() *Table {
	return newTable([]model.PhysicalParameter{
		{Name: "steel", ThermalConductivity: 25, SpecficHeat: 700, Density: 7800},
		{Name: "aluminium", ThermalConductivity: 237, SpecficHeat: 897, Density: 2700},
		{Name: "copper", ThermalConductivity: 401, SpecficHeat: 385, Density: 8960},
	})
}

// Load 从 json 文件读取物性参数，文件内容为 []model.PhysicalParameter
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read material file: %w", err)
	}
	var parameters []model.PhysicalParameter
	if err = json.Unmarshal(data, &parameters); err != nil {
		return nil, fmt.Errorf("parse material file %s: %w", path, err)
	}
	for _, p := range parameters {
		if p.Name == "" {
			return nil, fmt.Errorf("material file %s: entry without name", path)
		}
		if p.ThermalConductivity <= 0 || p.SpecficHeat <= 0 || p.Density <= 0 {
			return nil, fmt.Errorf("material file %s: %s has non-positive parameters", path, p.Name)
		}
	}
	t := newTable(parameters)
	log.WithFields(log.Fields{
		"path":      path,
		"materials": t.Names(),
	}).Info("读取材料物性参数")
	return t, nil
}

func newTable(parameters []model.PhysicalParameter) *Table {
	materials := make([]Material, 0, len(parameters))
	for _, p := range parameters {
		materials = append(materials, Material{
			Name: strings.ToLower(p.Name),
			Thermal: fem.Thermal{
				K:  p.ThermalConductivity,
				C:  p.SpecficHeat,
				Ro: p.Density,
			},
		})
	}
	sort.Slice(materials, func(i, j int) bool {
		return materials[i].Name < materials[j].Name
	})
	return &Table{materials: materials}
}

// Get 按名称查找，名称不区分大小写
func (t *Table) Get(name string) (Material, error) {
	name = strings.ToLower(name)
	i := sort.Search(len(t.materials), func(i int) bool {
		return t.materials[i].Name >= name
	})
	if i < len(t.materials) && t.materials[i].Name == name {
		return t.materials[i], nil
	}
	return Material{}, fmt.Errorf("%w: unknown material %q", fem.ErrConfiguration, name)
}

func (t *Table) Names() []string {
	names := make([]string, len(t.materials))
	for i, m := range t.materials {
		names[i] = m.Name
	}
	return names
}
