package inference

import (
	"fmt"

	"churn-predictor/internal/artifact"
	svcerrors "churn-predictor/internal/common/errors"
)

// maxTreeDepth caps traversal as a cycle guard; real trees are far
// shallower.
const maxTreeDepth = 1024

// predictForest averages the normalized leaf class distributions across
// all trees. Leaves store the raw class counts observed at training time.
func predictForest(m *artifact.Model, vec []float64) (Probabilities, error) {
	var sum [2]float64

	for ti := range m.Trees {
		leaf, err := traverse(&m.Trees[ti], vec, ti)
		if err != nil {
			return Probabilities{}, err
		}

		total := leaf.Value[0] + leaf.Value[1]
		if total <= 0 {
			return Probabilities{}, svcerrors.NewInferenceFailedError(fmt.Sprintf(
				"tree %d reached a leaf with empty class counts", ti))
		}
		sum[0] += leaf.Value[0] / total
		sum[1] += leaf.Value[1] / total
	}

	n := float64(len(m.Trees))
	return Probabilities{sum[0] / n, sum[1] / n}, nil
}

func traverse(tree *artifact.Tree, vec []float64, ti int) (*artifact.TreeNode, error) {
	idx := 0
	for depth := 0; depth < maxTreeDepth; depth++ {
		node := &tree.Nodes[idx]
		if node.Leaf {
			return node, nil
		}
		if vec[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return nil, svcerrors.NewInferenceFailedError(fmt.Sprintf(
		"tree %d exceeded max depth, likely cyclic", ti))
}
