/*
 * Copyright 2024 Reflow Project Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/** This is an implementation of the Lengauer-Tarjan algorithm described in
 *  https://doi.org/10.1145%2F357062.357071
 *  with dominance frontiers per Cytron et al.
 */

package ssa

import (
    `github.com/oleiade/lane`
    `golang.org/x/tools/container/intsets`
    `k8s.io/klog/v2`

    `github.com/reflowproject/reflow/internal/cfg`
)

/* Dominators numbers the blocks, runs Lengauer-Tarjan to build the
 * immediate-dominator vector, and computes every block's dominance frontier.
 * The entry block gets index 0; the remaining blocks keep their graph
 * iteration order. Unreachable blocks stay indexed but keep dfnum 0, so
 * later passes skip them naturally. */
func (self *DataFlow) Dominators(g *cfg.Cfg) {
    r := g.EntryBB()
    nb := g.NumBBs()

    /* restart support: decompilation may rebuild the graph */
    self.graph = g
    self.bbs = make([]*cfg.BasicBlock, nb)
    self.indices = make(map[*cfg.BasicBlock]int, nb)
    self.bbs[0] = r
    self.indices[r] = 0

    /* allocate the working vectors */
    self.count = 0
    self.dfnum = make([]int, nb)
    self.semi = fillInt(nb, -1)
    self.ancestor = fillInt(nb, -1)
    self.idom = fillInt(nb, -1)
    self.samedom = fillInt(nb, -1)
    self.vertex = fillInt(nb, -1)
    self.parent = fillInt(nb, -1)
    self.best = fillInt(nb, -1)
    self.visited = make([]bool, nb)
    self.bucket = make([]intsets.Sparse, nb)
    self.df = make([]intsets.Sparse, nb)

    /* index the remaining blocks here, not from in-edges: a block can be
     * unreachable yet still need a valid index */
    idx := 1
    for _, bb := range g.Blocks() {
        if bb != r {
            self.indices[bb] = idx
            self.bbs[idx] = bb
            idx++
        }
    }

    /* Step 1: depth-first numbering from the entry */
    self.dfs(-1, 0)

    /* Steps 2 and 3, in decreasing dfnum order: semidominators by the
     * Semidominator Theorem, then the deferred dominator calculations for
     * everything parked in parent's bucket */
    for i := self.count - 1; i >= 1; i-- {
        n := self.vertex[i]
        p := self.parent[n]
        s := p

        for _, pred := range self.bbs[n].In {
            v, ok := self.indices[pred]
            if !ok {
                klog.Fatalf("ssa: predecessor %v of %v has no block index", pred, self.bbs[n])
            }
            if !self.visited[v] {
                continue // unreachable predecessor, no semidominator contribution
            }
            sdash := v
            if self.dfnum[v] > self.dfnum[n] {
                sdash = self.semi[self.ancestorWithLowestSemi(v)]
            }
            if self.dfnum[sdash] < self.dfnum[s] {
                s = sdash
            }
        }
        self.semi[n] = s

        /* defer n's dominator until the path from s to n is linked */
        self.bucket[s].Insert(n)
        self.link(p, n)

        for _, v := range self.bucket[p].AppendTo(nil) {
            if y := self.ancestorWithLowestSemi(v); self.semi[y] == self.semi[v] {
                self.idom[v] = p
            } else {
                self.samedom[v] = y
            }
        }
        self.bucket[p].Clear()
    }

    /* Step 4: resolve the deferred dominators, increasing dfnum order.
     * The full range is processed; skipping the last vertex loses the
     * deepest deferred link. */
    for i := 1; i < self.count; i++ {
        if n := self.vertex[i]; self.samedom[n] != -1 {
            self.idom[n] = self.idom[self.samedom[n]]
        }
    }

    /* finally, the dominance frontiers */
    self.computeDF(0)
}

func fillInt(n int, v int) []int {
    s := make([]int, n)
    for i := range s {
        s[i] = v
    }
    return s
}

func (self *DataFlow) dfs(p int, n int) {
    if self.visited[n] {
        return
    }
    self.visited[n] = true
    self.dfnum[n] = self.count
    self.vertex[self.count] = n
    self.parent[n] = p
    self.count++
    for _, w := range self.bbs[n].Out {
        i, ok := self.indices[w]
        if !ok {
            klog.Fatalf("ssa: successor %v of %v has no block index", w, self.bbs[n])
        }
        self.dfs(n, i)
    }
}

/* ancestorWithLowestSemi finds, on the forest path above v, the node whose
 * semidominator has the lowest dfnum, compressing the path as it goes. The
 * walk is iterative with an explicit stack so very deep spanning trees do
 * not exhaust the call stack. Amortised O(log B) per call. */
func (self *DataFlow) ancestorWithLowestSemi(v int) int {
    if self.ancestor[v] == -1 {
        klog.Fatalf("ssa: ancestorWithLowestSemi(%d) on an unlinked node", v)
    }

    /* walk up while grandparents remain; the stack replays the path */
    r := v
    st := lane.NewStack()
    for self.ancestor[self.ancestor[v]] != -1 {
        st.Push(v)
        v = self.ancestor[v]
    }

    /* unwind: compress each node onto its grandparent, keeping the best
     * candidate seen on the skipped segment */
    for !st.Empty() {
        u := st.Pop().(int)
        a := self.ancestor[u]
        if b := self.best[a]; self.dfnum[self.semi[b]] < self.dfnum[self.semi[self.best[u]]] {
            self.best[u] = b
        }
        self.ancestor[u] = self.ancestor[a]
    }
    return self.best[r]
}

func (self *DataFlow) link(p int, n int) {
    self.ancestor[n] = p
    self.best[n] = n
}

/* Dominates reports whether n dominates w (strictly, by idom walking). */
func (self *DataFlow) Dominates(n int, w int) bool {
    for self.idom[w] != -1 {
        if self.idom[w] == n {
            return true
        }
        w = self.idom[w]
    }
    return false
}

/* computeDF computes the dominance frontier of n from the local part (CFG
 * successors not immediately dominated by n) and the up part (frontier
 * members of dominator-tree children that n does not strictly dominate). */
func (self *DataFlow) computeDF(n int) {
    var s intsets.Sparse

    /* DF_local */
    for _, b := range self.bbs[n].Out {
        if y := self.indices[b]; self.idom[y] != n {
            s.Insert(y)
        }
    }

    /* DF_up of each dominator-tree child; linear scan of idom */
    for c := 0; c < len(self.idom); c++ {
        if self.idom[c] != n {
            continue
        }
        self.computeDF(c)
        for _, w := range self.df[c].AppendTo(nil) {
            if w == n || !self.Dominates(n, w) {
                s.Insert(w)
            }
        }
    }

    /* Sparse sets must not be copied by assignment */
    self.df[n].Copy(&s)
}
