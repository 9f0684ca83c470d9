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
    `k8s.io/klog/v2`

    `github.com/reflowproject/reflow/internal/ir`
    `github.com/reflowproject/reflow/internal/opts`
)

var renameProgress int

func progressTick() {
    if renameProgress++; renameProgress >= opts.ProgressInterval {
        renameProgress = 0
        klog.V(2).Info("renameBlockVars progress tick")
    }
}

/* RenameBlockVars runs Cytron's renaming over block n and recurses into its
 * dominator-tree children. Invoke with n = 0 and clearStacks = true at the
 * top level. Every use of a renameable location is subscripted with its
 * reaching definition; call and return collectors are fed along the way.
 * Returns whether any use was rewritten.
 *
 * The exit leg walks the block's statements backward: a childless call
 * pushes itself onto every stack on the way in, and only a backward walk
 * pops those in the right order. */
func (self *DataFlow) RenameBlockVars(proc UserProc, n int, clearStacks bool) bool {
    progressTick()
    changed := false

    /* old renamed locations linger from earlier rounds and no longer
     * compare correctly once the IR rewrites them */
    if clearStacks {
        self.stacks.Clear()
    }

    bb := self.bbs[n]
    for _, s := range bb.Stmts {
        changed = self.renameUses(proc, s) || changed

        /* calls and returns snapshot the reaching definitions before the
         * statement's own defines are processed */
        if call, ok := s.(*ir.CallStatement); ok {
            call.GetDefCollector().UpdateDefs(self.stacks)
        } else if ret, ok := s.(*ir.ReturnStatement); ok {
            ret.GetCollector().UpdateDefs(self.stacks)
        }

        self.pushDefs(proc, s)
    }

    /* fill in the φ operands our out-edges contribute */
    for _, y := range bb.Out {
        for _, st := range y.Stmts {
            pa, ok := st.(*ir.PhiAssign)
            if !ok {
                /* an optimisation may turn a φ into an ordinary assign
                 * mid-block, so keep scanning */
                continue
            }
            a := pa.GetLeft()
            if !self.CanRename(a, proc) {
                continue
            }
            def := self.stacks.Top(a) // nil when no definition reaches
            pa.PutAt(n, def, a)
        }
    }

    /* children in the dominator tree; linear scan */
    for x := 0; x < len(self.idom); x++ {
        if self.idom[x] == n {
            changed = self.RenameBlockVars(proc, x, false) || changed
        }
    }

    /* exit leg: pop in reverse statement order */
    for i := len(bb.Stmts) - 1; i >= 0; i-- {
        self.popDefs(proc, bb.Stmts[i])
    }
    return changed
}

/* renameUses subscripts every renameable use in s with its reaching
 * definition and keeps the use collectors current. */
func (self *DataFlow) renameUses(proc UserProc, s ir.Instruction) bool {
    changed := false
    locs := ir.NewLocationSet()

    if pa, ok := s.(*ir.PhiAssign); ok {
        /* only the left side's sub-expression contributes uses */
        left := pa.GetLeft()
        if m, ok := left.(*ir.MemOf); ok {
            ir.UsedLocs(m.Addr, locs)
        }

        /* a φ may use a location defined in a childless call; that call's
         * use collector needs to hear about it */
        pa.ForEachArg(func(pred int, arg *ir.PhiArg) {
            if call, ok := arg.Def.(*ir.CallStatement); ok {
                call.UseBeforeDefine(left.Clone())
            }
        })
    } else {
        s.AddUsedLocs(locs)
    }

    locs.ForEach(func(x ir.Exp) bool {
        if !self.CanRename(x, proc) {
            return true
        }

        if ref, ok := x.(*ir.RefExp); ok {
            /* already subscripted: no renaming, but redo the usage
             * bookkeeping in case returns or call livenesses changed */
            if call, ok := ref.Def.(*ir.CallStatement); ok {
                call.UseBeforeDefine(ref.Base.Clone())
            } else if ref.Def == nil {
                proc.UseBeforeDefine(ref.Base.Clone())
            }
            return true
        }

        var def ir.Instruction
        if top := self.stacks.Top(x); top != nil {
            def = top
        } else if all := self.stacks.Top(ir.DefineAll); all != nil {
            def = all
        } else {
            /* no reaching definition yet: leave a null subscript, to become
             * an implicit definition once the memory expressions settle,
             * and log the use at the procedure entry */
            def = nil
            proc.UseBeforeDefine(x.Clone())
        }
        if call, ok := def.(*ir.CallStatement); ok {
            call.UseBeforeDefine(x.Clone())
        }

        changed = true
        s.SubscriptVar(x, def)
        return true
    })
    return changed
}

/* pushDefs pushes s onto the stack of every renameable location it defines;
 * a childless call additionally becomes the definition of everything in
 * scope, unless the driver assumes ABI compliance. */
func (self *DataFlow) pushDefs(proc UserProc, s ir.Instruction) {
    defs := ir.NewLocationSet()
    s.GetDefinitions(defs)
    defs.ForEach(func(a ir.Exp) bool {
        suitable := self.CanRename(a, proc)
        if suitable {
            self.stacks.Push(a, s)
        }

        /* a named local also shadows the location its symbol maps to */
        if lo, ok := a.(*ir.Local); ok {
            a1 := proc.ExpFromSymbol(lo.Name)
            if a1 == nil {
                klog.Fatalf("ssa: local %q has no mapped location", lo.Name)
            }
            if suitable {
                self.stacks.Push(a1, s)
            }
        }
        return true
    })

    if call, ok := s.(*ir.CallStatement); ok && call.IsChildless() && !opts.AssumeABI {
        self.stacks.ensure(ir.DefineAll)
        self.stacks.PushAll(s)
    }
}

/* popDefs reverses pushDefs for one statement on the exit leg. */
func (self *DataFlow) popDefs(proc UserProc, s ir.Instruction) {
    defs := ir.NewLocationSet()
    s.GetDefinitions(defs)
    defs.ForEach(func(a ir.Exp) bool {
        suitable := self.CanRename(a, proc)
        if suitable {
            self.stacks.Pop(a)
        }
        if lo, ok := a.(*ir.Local); ok {
            if a1 := proc.ExpFromSymbol(lo.Name); a1 != nil && suitable {
                self.stacks.Pop(a1)
            }
        }
        return true
    })

    if call, ok := s.(*ir.CallStatement); ok && call.IsChildless() {
        self.stacks.PopAllTopEquals(s)
    }
}
