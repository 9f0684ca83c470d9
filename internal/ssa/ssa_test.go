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

package ssa

import (
    `testing`

    `github.com/oleiade/lane`
    `github.com/stretchr/testify/require`

    `github.com/reflowproject/reflow/internal/cfg`
    `github.com/reflowproject/reflow/internal/ir`
    `github.com/reflowproject/reflow/internal/proc`
)

/* shared helpers for the package tests */

func buildGraph(t *testing.T, nblocks int, edges [][2]int) (*cfg.Cfg, []*cfg.BasicBlock) {
    g := cfg.NewCfg()
    bbs := make([]*cfg.BasicBlock, nblocks)
    for i := range bbs {
        bbs[i] = g.NewBlock()
    }
    for _, e := range edges {
        require.NoError(t, g.AddEdge(bbs[e[0]], bbs[e[1]]))
    }
    return g, bbs
}

func newTestProc(t *testing.T, g *cfg.Cfg) *proc.Proc {
    return proc.NewProc("test", g, 28)
}

func reg(n int) *ir.Register {
    return &ir.Register{Index: n}
}

/* appends r<n> := 0 and returns the statement */
func defReg(g *cfg.Cfg, bb *cfg.BasicBlock, n int) *ir.Assign {
    as := ir.NewAssign(reg(n), &ir.Const{Value: 0})
    g.AppendStmt(bb, as)
    return as
}

/* appends tmp := r<n> and returns the statement */
func useReg(g *cfg.Cfg, bb *cfg.BasicBlock, name string, n int) *ir.Assign {
    as := ir.NewAssign(&ir.Temp{Name: name}, reg(n))
    g.AppendStmt(bb, as)
    return as
}

func runSSA(t *testing.T, df *DataFlow, p *proc.Proc) {
    df.Dominators(p.GetCFG())
    df.PlacePhiFunctions(p)
    df.RenameBlockVars(p, 0, true)
}

/* phis returns the φ assignments for loc, keyed by block index */
func phis(df *DataFlow, loc ir.Exp) map[int]*ir.PhiAssign {
    out := make(map[int]*ir.PhiAssign)
    for i := 0; i < df.NumIndexed(); i++ {
        for _, s := range df.BlockAt(i).Stmts {
            if pa, ok := s.(*ir.PhiAssign); ok && ir.Equal(pa.GetLeft(), loc) {
                out[i] = pa
            }
        }
    }
    return out
}

/* reachableAvoiding reports whether block to is reachable from block from
 * without passing through block avoid. */
func reachableAvoiding(df *DataFlow, from int, to int, avoid int) bool {
    if from == avoid || to == avoid {
        return false
    }
    seen := map[int]bool{from: true}
    q := lane.NewQueue()
    for q.Enqueue(from); !q.Empty(); {
        n := q.Dequeue().(int)
        if n == to {
            return true
        }
        for _, w := range df.BlockAt(n).Out {
            if i, _ := df.IndexOf(w); i != avoid && !seen[i] {
                seen[i] = true
                q.Enqueue(i)
            }
        }
    }
    return false
}

/* domOrEq is dominance including the block itself. */
func domOrEq(df *DataFlow, a int, b int) bool {
    return a == b || df.Dominates(a, b)
}

func reachable(df *DataFlow, n int) bool {
    return df.visited[n]
}

/* iteratedDF computes the iterated dominance frontier of a block set with a
 * plain fixed point, independently of the φ placer's worklist. */
func iteratedDF(df *DataFlow, sites []int) map[int]bool {
    out := make(map[int]bool)
    work := append([]int(nil), sites...)
    for len(work) != 0 {
        n := work[len(work)-1]
        work = work[:len(work)-1]
        for _, y := range df.DF(n) {
            if !out[y] {
                out[y] = true
                work = append(work, y)
            }
        }
    }
    return out
}
