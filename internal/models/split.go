package models

import (
    "sort"

    "randforest/internal/data"
)

type split struct {
    feature   int
    threshold float64
    gini      float64
    left      []int
    right     []int
}

// gini is 1 - sum((count_k/n)^2) for a group of n rows.
func gini(counts []int, n int) float64 {
    if n == 0 {
        return 0
    }
    var sumSq float64
    for _, c := range counts {
        sumSq += float64(c) * float64(c)
    }
    return 1 - sumSq/(float64(n)*float64(n))
}

// bestSplit finds the feature and threshold minimising the weighted Gini
// impurity of idx. For each feature the rows are sorted by value and moved
// one at a time from the right group to the left, keeping per-class counts
// and sums of squared counts so every candidate costs O(1). Candidates are
// midpoints between consecutive distinct values; only a strictly lower
// impurity replaces the current best. ok is false when no candidate exists.
func bestSplit(ds *data.Dataset, idx []int) (best split, ok bool) {
    n := len(idx)
    if n < 2 {
        return best, false
    }
    total := labelCounts(ds, idx)
    var totalSq float64
    for _, c := range total {
        totalSq += float64(c) * float64(c)
    }

    left := make([]int, len(total))
    right := make([]int, len(total))
    sorted := make([]int, n)
    copy(sorted, idx)
    fn := float64(n)

    for f := 0; f < ds.Cols(); f++ {
        col := ds.Column(f)
        sort.Slice(sorted, func(a, b int) bool { return col[sorted[a]] < col[sorted[b]] })

        for k := range left {
            left[k] = 0
        }
        copy(right, total)
        sumSqLeft, sumSqRight := 0.0, totalSq
        nLeft, nRight := 0, n

        for i := 0; i < n-1; i++ {
            label := ds.Code(sorted[i])

            cr := float64(right[label])
            sumSqRight += (cr-1)*(cr-1) - cr*cr
            right[label]--
            nRight--

            cl := float64(left[label])
            sumSqLeft += (cl+1)*(cl+1) - cl*cl
            left[label]++
            nLeft++

            v, next := col[sorted[i]], col[sorted[i+1]]
            if v == next {
                continue
            }
            fl, fr := float64(nLeft), float64(nRight)
            g := fl/fn*(1-sumSqLeft/(fl*fl)) + fr/fn*(1-sumSqRight/(fr*fr))
            if !ok || g < best.gini {
                best = split{feature: f, threshold: (v + next) / 2, gini: g}
                ok = true
            }
        }
    }
    if !ok {
        return best, false
    }

    col := ds.Column(best.feature)
    best.left = make([]int, 0, n)
    best.right = make([]int, 0, n)
    for _, i := range idx {
        if col[i] < best.threshold {
            best.left = append(best.left, i)
        } else {
            best.right = append(best.right, i)
        }
    }
    return best, true
}
