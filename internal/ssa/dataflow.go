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
    `golang.org/x/tools/container/intsets`

    `github.com/reflowproject/reflow/internal/cfg`
    `github.com/reflowproject/reflow/internal/ir`
)

/* UserProc is what the analysis needs from the procedure under decompilation. */
type UserProc interface {
    GetCFG() *cfg.Cfg
    IsLocalOrParamPattern(e ir.Exp) bool
    IsAddressEscapedVar(e ir.Exp) bool
    ExpFromSymbol(name string) ir.Exp
    UseBeforeDefine(e ir.Exp)
}

/* DataFlow owns all per-procedure SSA state: the block numbering, the
 * dominator vectors, the φ placement maps and the rename stacks. One
 * instance per procedure; never shared across goroutines. */
type DataFlow struct {
    /* RenameLocalsAndParams widens the rename policy to stack locals and
     * parameters once escape analysis has run. Monotonic: the driver only
     * ever switches it on. */
    RenameLocalsAndParams bool

    graph   *cfg.Cfg
    bbs     []*cfg.BasicBlock
    indices map[*cfg.BasicBlock]int

    /* Lengauer-Tarjan state, all indexed by block index */
    count    int
    dfnum    []int
    semi     []int
    ancestor []int
    idom     []int
    samedom  []int
    vertex   []int
    parent   []int
    best     []int
    visited  []bool
    bucket   []intsets.Sparse
    df       []intsets.Sparse

    /* φ placement state */
    defsites    *locIntSetMap
    defallsites intsets.Sparse
    aOrig       []*ir.LocationSet
    aPhi        *locIntSetMap
    defStmts    *locStmtMap

    /* rename state */
    stacks *Stacks
}

func NewDataFlow() *DataFlow {
    return &DataFlow{
        defsites : newLocIntSetMap(),
        aPhi     : newLocIntSetMap(),
        defStmts : newLocStmtMap(),
        stacks   : newStacks(),
    }
}

/* CanRename decides whether the current phase may subscript e. Registers,
 * temps, flags and named locals always rename; memory locations only when
 * they match the procedure's local-or-parameter pattern, escape analysis has
 * run, and the address never escapes. Anything else (the program counter and
 * other junk) never renames. */
func (self *DataFlow) CanRename(e ir.Exp, proc UserProc) bool {
    if r, ok := e.(*ir.RefExp); ok {
        e = r.Base // look inside refs
    }
    switch e.Op() {
        case ir.OpRegister : return true
        case ir.OpTemp     : return true
        case ir.OpFlags    : return true
        case ir.OpFlagBit  : return true
        case ir.OpLocal    : return true
        case ir.OpMemOf    : break
        default            : return false
    }
    if !proc.IsLocalOrParamPattern(e) {
        return false
    }
    return self.RenameLocalsAndParams && !proc.IsAddressEscapedVar(e)
}

/* accessors used by later passes and by the tests */

func (self *DataFlow) NumIndexed() int { return len(self.bbs) }

func (self *DataFlow) BlockAt(i int) *cfg.BasicBlock { return self.bbs[i] }

func (self *DataFlow) IndexOf(bb *cfg.BasicBlock) (int, bool) {
    i, ok := self.indices[bb]
    return i, ok
}

func (self *DataFlow) Idom(n int) int { return self.idom[n] }

func (self *DataFlow) DF(n int) []int {
    return self.df[n].AppendTo(nil)
}

func (self *DataFlow) Defsites(e ir.Exp) []int {
    if s := self.defsites.get(e); s != nil {
        return s.AppendTo(nil)
    } else {
        return nil
    }
}

func (self *DataFlow) APhi(e ir.Exp) []int {
    if s := self.aPhi.get(e); s != nil {
        return s.AppendTo(nil)
    } else {
        return nil
    }
}

func (self *DataFlow) DefallSites() []int {
    return self.defallsites.AppendTo(nil)
}

func (self *DataFlow) AOrig(n int) *ir.LocationSet { return self.aOrig[n] }

func (self *DataFlow) DefStmtFor(e ir.Exp) ir.Instruction {
    return self.defStmts.get(e)
}

func (self *DataFlow) Stacks() *Stacks { return self.stacks }
