package models

import (
    "fmt"

    "randforest/internal/data"
)

// Node is either a leaf carrying a class code or a decision node testing
// row[Feature] < Threshold. A leaf has no children; a decision node always
// has both.
type Node struct {
    Feature   int
    Threshold float64
    Class     int
    Left      *Node
    Right     *Node
}

func (n *Node) IsLeaf() bool { return n.Left == nil }

func leaf(class int) *Node { return &Node{Class: class} }

type DecisionTree struct {
    MaxDepth  int
    MinSize   int
    NFeatures int
    // Classes maps the leaf class codes to labels.
    Classes []int
    Root    *Node
}

func NewDecisionTree(maxDepth, minSize int) (*DecisionTree, error) {
    if maxDepth < 0 {
        return nil, fmt.Errorf("%w: max depth %d < 0", ErrInvalidConfig, maxDepth)
    }
    if minSize < 1 {
        return nil, fmt.Errorf("%w: min size %d < 1", ErrInvalidConfig, minSize)
    }
    return &DecisionTree{MaxDepth: maxDepth, MinSize: minSize}, nil
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Fit(ds *data.Dataset) error {
    idx := make([]int, ds.Rows())
    for i := range idx {
        idx[i] = i
    }
    return dt.FitIndices(ds, idx)
}

// FitIndices grows the tree from the rows of ds listed in idx.
func (dt *DecisionTree) FitIndices(ds *data.Dataset, idx []int) error {
    if dt.Root != nil {
        return ErrAlreadyFitted
    }
    if len(idx) == 0 {
        return ErrEmptyDataset
    }
    dt.NFeatures = ds.Cols()
    dt.Classes = ds.Classes()
    dt.Root = dt.build(ds, idx, 0)
    return nil
}

func (dt *DecisionTree) build(ds *data.Dataset, idx []int, depth int) *Node {
    if len(idx) == 0 {
        panic("models: build called with an empty subset")
    }
    if depth >= dt.MaxDepth || len(idx) <= dt.MinSize || pure(ds, idx) {
        return leaf(Majority(labelCounts(ds, idx)))
    }
    s, ok := bestSplit(ds, idx)
    if !ok || len(s.left) == 0 || len(s.right) == 0 {
        return leaf(Majority(labelCounts(ds, idx)))
    }
    return &Node{
        Feature:   s.feature,
        Threshold: s.threshold,
        Left:      dt.build(ds, s.left, depth+1),
        Right:     dt.build(ds, s.right, depth+1),
    }
}

func pure(ds *data.Dataset, idx []int) bool {
    first := ds.Code(idx[0])
    for _, i := range idx[1:] {
        if ds.Code(i) != first {
            return false
        }
    }
    return true
}

func (dt *DecisionTree) Predict(row []float64) (int, error) {
    if dt.Root == nil {
        return 0, ErrNotFitted
    }
    if len(row) < dt.NFeatures {
        return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureOutOfRange, len(row), dt.NFeatures)
    }
    return dt.Classes[dt.classOf(row)], nil
}

// classOf returns the leaf class code for row. It assumes a fitted tree and
// a long enough row.
func (dt *DecisionTree) classOf(row []float64) int {
    n := dt.Root
    for !n.IsLeaf() {
        if row[n.Feature] < n.Threshold {
            n = n.Left
        } else {
            n = n.Right
        }
    }
    return n.Class
}

// Depth is the number of edges on the longest root-to-leaf path.
func (dt *DecisionTree) Depth() int { return depth(dt.Root) }

func (dt *DecisionTree) Leaves() int { return leaves(dt.Root) }

func depth(n *Node) int {
    if n == nil || n.IsLeaf() {
        return 0
    }
    return 1 + max(depth(n.Left), depth(n.Right))
}

func leaves(n *Node) int {
    if n == nil {
        return 0
    }
    if n.IsLeaf() {
        return 1
    }
    return leaves(n.Left) + leaves(n.Right)
}
