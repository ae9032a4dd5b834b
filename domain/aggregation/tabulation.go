package aggregation

import (
	"strings"

	"mrportal/domain/tabular"
)

// UnspecifiedChild names the child group of rows whose child cell is blank.
const UnspecifiedChild = "Não informado"

// ProcessCount is a named count.
type ProcessCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProcessGroup is a parent value with the counts of its children.
type ProcessGroup struct {
	ProcessCount
	Children []ProcessCount `json:"children"`
}

// TabulateHierarchy counts rows by parent column and, inside each parent, by
// child column. Groups keep first-occurrence order. Rows with a blank parent
// are skipped.
func TabulateHierarchy(ds *tabular.Dataset, parentColumn, childColumn string) ([]ProcessGroup, error) {
	parentIdx, err := ds.ResolveColumn(parentColumn)
	if err != nil {
		return nil, err
	}
	childIdx, err := ds.ResolveColumn(childColumn)
	if err != nil {
		return nil, err
	}

	groups := []ProcessGroup{}
	groupIndex := make(map[string]int)
	childIndex := make(map[string]map[string]int)

	for _, row := range ds.Rows {
		parent := strings.TrimSpace(tabular.Cell(row, parentIdx))
		if parent == "" {
			continue
		}
		child := strings.TrimSpace(tabular.Cell(row, childIdx))
		if child == "" {
			child = UnspecifiedChild
		}

		parentKey := tabular.NormalizeKey(parent)
		gi, ok := groupIndex[parentKey]
		if !ok {
			gi = len(groups)
			groupIndex[parentKey] = gi
			childIndex[parentKey] = make(map[string]int)
			groups = append(groups, ProcessGroup{
				ProcessCount: ProcessCount{Name: parent},
				Children:     []ProcessCount{},
			})
		}
		group := &groups[gi]
		group.Count++

		childKey := tabular.NormalizeKey(child)
		ci, ok := childIndex[parentKey][childKey]
		if !ok {
			ci = len(group.Children)
			childIndex[parentKey][childKey] = ci
			group.Children = append(group.Children, ProcessCount{Name: child})
		}
		group.Children[ci].Count++
	}

	return groups, nil
}
