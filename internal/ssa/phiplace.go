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
    `github.com/oleiade/lane`
    `golang.org/x/tools/container/intsets`
    `k8s.io/klog/v2`

    `github.com/reflowproject/reflow/internal/ir`
)

/* PlacePhiFunctions inserts a trivial φ assignment a := φ() at every block
 * in the iterated dominance frontier of a's definition sites, for every
 * renameable location a defined in the procedure. A block holding a
 * childless call counts as a definition site of every location. Returns
 * whether any φ was inserted; re-runnable after the IR mutates the graph. */
func (self *DataFlow) PlacePhiFunctions(proc UserProc) bool {
    change := false

    /* free the dominator working vectors, no longer needed */
    self.dfnum = nil
    self.semi = nil
    self.ancestor = nil
    self.samedom = nil
    self.vertex = nil
    self.parent = nil
    self.best = nil
    self.bucket = nil

    /* rebuild the φ state from scratch: propagation and other passes make
     * the previous round's data invalid */
    self.defsites.clear()
    self.defallsites.Clear()
    self.defStmts.clear()

    nb := len(self.bbs)
    if nb != proc.GetCFG().NumBBs() {
        klog.Fatalf("ssa: %d indexed blocks but the graph has %d; rerun Dominators", nb, proc.GetCFG().NumBBs())
    }
    self.aOrig = make([]*ir.LocationSet, nb)
    for n := range self.aOrig {
        self.aOrig[n] = ir.NewLocationSet()
    }

    /* collect per-block definition sets */
    for n := 0; n < nb; n++ {
        bb := self.bbs[n]
        for _, s := range bb.Stmts {
            defs := ir.NewLocationSet()
            s.GetDefinitions(defs)
            if call, ok := s.(*ir.CallStatement); ok && call.IsChildless() {
                self.defallsites.Insert(n) // this block defines every location
            }
            stmt := s
            defs.ForEach(func(d ir.Exp) bool {
                if self.CanRename(d, proc) {
                    self.aOrig[n].Insert(d.Clone())
                    self.defStmts.put(d, stmt)
                }
                return true
            })
        }
    }

    /* invert into defsites */
    for n := 0; n < nb; n++ {
        idx := n
        self.aOrig[n].ForEach(func(a ir.Exp) bool {
            self.defsites.getOrInsert(a).Insert(idx)
            return true
        })
    }

    /* worklist per location over its (define-all augmented) defsites */
    self.defsites.forEach(func(a ir.Exp, sites *intsets.Sparse) bool {
        sites.UnionWith(&self.defallsites)

        w := lane.NewQueue()
        for _, n := range sites.AppendTo(nil) {
            w.Enqueue(n)
        }
        for !w.Empty() {
            n := w.Dequeue().(int)
            for _, y := range self.df[n].AppendTo(nil) {
                ap := self.aPhi.getOrInsert(a)
                if ap.Has(y) {
                    continue
                }

                /* insert a trivial φ for a at the top of block y */
                change = true
                self.graph.PrependStmt(self.bbs[y], ir.NewPhiAssign(a.Clone()))
                ap.Insert(y)
                if !self.aOrig[y].Contains(a) {
                    w.Enqueue(y)
                }
            }
        }
        return true
    })
    return change
}
