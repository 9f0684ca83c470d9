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
    `github.com/google/btree`
    `golang.org/x/tools/container/intsets`

    `github.com/reflowproject/reflow/internal/cfg`
    `github.com/reflowproject/reflow/internal/ir`
)

type phiDefEntry struct {
    key ir.Exp
    phi *ir.PhiAssign
}

func lessPhiDef(a *phiDefEntry, b *phiDefEntry) bool {
    return ir.Compare(a.key, b.key) < 0
}

/* PhiDefMap maps subscripted φ left sides lhs{phi} to their φ statements. */
type PhiDefMap struct {
    t *btree.BTreeG[*phiDefEntry]
}

func NewPhiDefMap() *PhiDefMap {
    return &PhiDefMap{t: btree.NewG[*phiDefEntry](_BTreeDegree, lessPhiDef)}
}

func (self *PhiDefMap) Len() int { return self.t.Len() }

func (self *PhiDefMap) Put(e ir.Exp, phi *ir.PhiAssign) {
    self.t.ReplaceOrInsert(&phiDefEntry{key: e, phi: phi})
}

func (self *PhiDefMap) Remove(e ir.Exp) bool {
    _, ok := self.t.Delete(&phiDefEntry{key: e})
    return ok
}

func (self *PhiDefMap) Get(e ir.Exp) *ir.PhiAssign {
    if ent, ok := self.t.Get(&phiDefEntry{key: e}); ok {
        return ent.phi
    } else {
        return nil
    }
}

func (self *PhiDefMap) ForEach(fn func(e ir.Exp, phi *ir.PhiAssign) bool) {
    self.t.Ascend(func(ent *phiDefEntry) bool { return fn(ent.key, ent.phi) })
}

/* FindLiveAtDomPhi walks the dominator tree from block n collecting, into
 * usedByDomPhi, each location that is used by a φ dominating its own
 * assignment. usedByDomPhi0 stages φ operand references until their
 * definition is seen; defdByPhi tracks φ definitions that are never used,
 * so the caller can drop dead φs afterwards. */
func (self *DataFlow) FindLiveAtDomPhi(n int, usedByDomPhi *ir.LocationSet, usedByDomPhi0 *ir.LocationSet, defdByPhi *PhiDefMap) {
    bb := self.bbs[n]
    for _, s := range bb.Stmts {
        if pa, ok := s.(*ir.PhiAssign); ok {
            /* stage every operand reference, and log the φ as unused for now */
            pa.ForEachArg(func(pred int, arg *ir.PhiArg) {
                if arg.E != nil {
                    usedByDomPhi0.Insert(&ir.RefExp{Base: arg.E, Def: arg.Def})
                }
            })
            defdByPhi.Put(&ir.RefExp{Base: pa.GetLeft(), Def: pa}, pa)
            /* fall through: φ uses are legitimate uses */
        }

        used := ir.NewLocationSet()
        s.AddUsedLocs(used)
        used.ForEach(func(u ir.Exp) bool {
            defdByPhi.Remove(u) // it is not unused after all
            return true
        })

        if s.IsPhi() {
            continue
        }
        defs := ir.NewLocationSet()
        s.GetDefinitions(defs)
        stmt := s
        defs.ForEach(func(d ir.Exp) bool {
            wrapped := &ir.RefExp{Base: d, Def: stmt}
            if usedByDomPhi0.Contains(wrapped) {
                usedByDomPhi0.Remove(wrapped)
                usedByDomPhi.Insert(&ir.RefExp{Base: d.Clone(), Def: stmt})
            }
            return true
        })
    }

    /* children in the dominator tree; linear scan */
    for c := 0; c < len(self.idom); c++ {
        if self.idom[c] == n {
            self.FindLiveAtDomPhi(c, usedByDomPhi, usedByDomPhi0, defdByPhi)
        }
    }
}

/* SetDominanceNums assigns each statement a dominance number, increasing in
 * dominator-tree pre-order. Call with n = 0 and *currNum = 0. */
func (self *DataFlow) SetDominanceNums(n int, currNum *int) {
    for _, s := range self.bbs[n].Stmts {
        s.SetDomNumber(*currNum)
        *currNum++
    }
    for c := 0; c < len(self.idom); c++ {
        if self.idom[c] == n {
            self.SetDominanceNums(c, currNum)
        }
    }
}

/* ConvertImplicits re-keys A_phi, defsites and A_orig after the pass that
 * turns implicit references x{-} into references to entry placeholders
 * x{0}: without this the keyed collections would no longer match the
 * rewritten IR. */
func (self *DataFlow) ConvertImplicits(g *cfg.Cfg) {
    ic := &ir.ImplicitConverter{Table: g}

    rekey := func(m *locIntSetMap) {
        type kv struct {
            key ir.Exp
            set *intsets.Sparse
        }
        var all []kv
        m.forEach(func(e ir.Exp, set *intsets.Sparse) bool {
            all = append(all, kv{key: ir.Rewrite(e.Clone(), ic), set: set})
            return true
        })
        m.clear()
        for _, ent := range all {
            m.put(ent.key, ent.set)
        }
    }
    rekey(self.aPhi)
    rekey(self.defsites)

    for i, se := range self.aOrig {
        if se == nil {
            continue
        }
        seNew := ir.NewLocationSet()
        se.ForEach(func(e ir.Exp) bool {
            seNew.Insert(ir.Rewrite(e.Clone(), ic))
            return true
        })
        self.aOrig[i] = seNew
    }
}
