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

    `github.com/stretchr/testify/require`

    `github.com/reflowproject/reflow/internal/ir`
)

/* dominance numbers increase in dominator-tree pre-order and cover every
 * statement exactly once */
func TestSetDominanceNums(t *testing.T) {
    g, bbs := buildGraph(t, 4, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}})
    total := 0
    for _, bb := range bbs {
        defReg(g, bb, 1)
        total++
    }

    p := newTestProc(t, g)
    df := NewDataFlow()
    df.Dominators(p.GetCFG())

    n := 0
    df.SetDominanceNums(0, &n)
    require.Equal(t, total, n)

    /* within a block, numbers ascend; a child's numbers exceed its
     * dominator's */
    seen := make(map[int]bool)
    for i := 0; i < df.NumIndexed(); i++ {
        prev := -1
        for _, s := range df.BlockAt(i).Stmts {
            require.Greater(t, s.DomNumber(), prev)
            require.False(t, seen[s.DomNumber()], "dominance number assigned twice")
            seen[s.DomNumber()] = true
            prev = s.DomNumber()
        }
        if d := df.Idom(i); d != -1 {
            require.Greater(t, df.BlockAt(i).FirstStmt().DomNumber(),
                df.BlockAt(d).FirstStmt().DomNumber())
        }
    }
}

/* a φ operand defined after (and dominated by) the φ that uses it shows up
 * in usedByDomPhi; dead φs stay behind in defdByPhi */
func TestFindLiveAtDomPhi(t *testing.T) {
    g, bbs := buildGraph(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 1}})
    inc := ir.NewAssign(reg(1), &ir.Binary{Oper: ir.OpPlus, L: reg(1), R: &ir.Const{Value: 1}})
    g.AppendStmt(bbs[1], inc)

    p := newTestProc(t, g)
    df := NewDataFlow()
    runSSA(t, df, p)

    pa := phis(df, reg(1))[1]
    require.NotNil(t, pa)

    used := ir.NewLocationSet()
    used0 := ir.NewLocationSet()
    defd := NewPhiDefMap()
    df.FindLiveAtDomPhi(0, used, used0, defd)

    /* the back-edge operand r1{inc} is used by the dominating φ */
    require.True(t, used.Contains(&ir.RefExp{Base: reg(1), Def: inc}))

    /* the φ itself is used (by the increment), so it is not left as dead */
    require.Equal(t, 0, defd.Len())
}

func TestFindLiveAtDomPhi_DeadPhi(t *testing.T) {
    g, bbs := buildGraph(t, 4, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}})
    defReg(g, bbs[1], 1)
    defReg(g, bbs[2], 1)
    /* nothing ever reads r1 after the join: the φ is dead */

    p := newTestProc(t, g)
    df := NewDataFlow()
    runSSA(t, df, p)

    pa := phis(df, reg(1))[3]
    require.NotNil(t, pa)

    used := ir.NewLocationSet()
    used0 := ir.NewLocationSet()
    defd := NewPhiDefMap()
    df.FindLiveAtDomPhi(0, used, used0, defd)

    require.Equal(t, 1, defd.Len())
    require.Same(t, pa, defd.Get(&ir.RefExp{Base: reg(1), Def: pa}))
    require.Equal(t, 0, used.Len())
}

/* re-keying after implicit conversion: m[sp{-}+k] keys become m[sp{0}+k] */
func TestConvertImplicits(t *testing.T) {
    g, bbs := buildGraph(t, 4, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}})
    sp := reg(28)
    loc := &ir.MemOf{Addr: &ir.Binary{Oper: ir.OpMinus, L: sp.Clone(), R: &ir.Const{Value: 4}}}
    for _, n := range []int{1, 2} {
        g.AppendStmt(bbs[n], ir.NewAssign(loc.Clone(), &ir.Const{Value: 1}))
    }

    p := newTestProc(t, g)
    df := NewDataFlow()
    df.RenameLocalsAndParams = true
    runSSA(t, df, p)

    /* after one round the keyed collections hold the bare keys */
    require.NotNil(t, df.Defsites(loc))

    /* renaming rewrote the defining statements to use sp{-}; the next
     * placement round keys everything by the rewritten expressions */
    subbed := &ir.MemOf{Addr: &ir.Binary{
        Oper : ir.OpMinus,
        L    : &ir.RefExp{Base: sp.Clone(), Def: nil},
        R    : &ir.Const{Value: 4},
    }}
    df.PlacePhiFunctions(p)
    require.NotNil(t, df.Defsites(subbed))
    require.Nil(t, df.Defsites(loc))

    /* the conversion pass resolves sp{-} to the entry placeholder */
    df.ConvertImplicits(g)
    converted := &ir.MemOf{Addr: &ir.Binary{
        Oper : ir.OpMinus,
        L    : &ir.RefExp{Base: sp.Clone(), Def: g.FindImplicitAssign(sp)},
        R    : &ir.Const{Value: 4},
    }}
    require.NotNil(t, df.Defsites(converted))
    require.Nil(t, df.Defsites(subbed))
    require.ElementsMatch(t, df.APhi(converted), []int{3})
}

/* the dominator-order iterator yields children before their dominators and
 * every reachable block exactly once */
func TestDomTreeIter(t *testing.T) {
    g, _ := buildGraph(t, 5, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {3, 4}})
    df := NewDataFlow()
    df.Dominators(g)

    var order []int
    NewDomTreeIter(df).ForEach(func(n int) { order = append(order, n) })
    require.Len(t, order, 5)

    pos := make(map[int]int)
    for i, n := range order {
        pos[n] = i
    }
    for c := 0; c < df.NumIndexed(); c++ {
        if d := df.Idom(c); d != -1 {
            require.Less(t, pos[c], pos[d], "block %d must come before its dominator %d", c, d)
        }
    }
}
