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
    `k8s.io/klog/v2`

    `github.com/reflowproject/reflow/internal/ir`
)

type stackEntry struct {
    key  ir.Exp
    defs []ir.Instruction
}

func lessStack(a *stackEntry, b *stackEntry) bool {
    return ir.Compare(a.key, b.key) < 0
}

/* Stacks maps each location to the stack of statements defining it on the
 * current dominator-tree path; the top is the reaching definition. The map
 * is ordered by the location total order, and each key is a canonical clone
 * made on first insertion, so pushes and pops across the forward and
 * backward passes meet the same entry. */
type Stacks struct {
    t *btree.BTreeG[*stackEntry]
}

func newStacks() *Stacks {
    return &Stacks{t: btree.NewG[*stackEntry](_BTreeDegree, lessStack)}
}

func (self *Stacks) Clear() {
    self.t.Clear(false)
}

func (self *Stacks) entry(e ir.Exp) *stackEntry {
    if ent, ok := self.t.Get(&stackEntry{key: e}); ok {
        return ent
    } else {
        return nil
    }
}

/* ensure creates an empty stack for e if none exists. */
func (self *Stacks) ensure(e ir.Exp) *stackEntry {
    if ent := self.entry(e); ent != nil {
        return ent
    }
    ent := &stackEntry{key: e.Clone()}
    self.t.ReplaceOrInsert(ent)
    return ent
}

/* Top returns the reaching definition for e, or nil when no stack exists or
 * the stack is empty. The probe never inserts an entry. */
func (self *Stacks) Top(e ir.Exp) ir.Instruction {
    ent := self.entry(e)
    if ent == nil || len(ent.defs) == 0 {
        return nil
    }
    return ent.defs[len(ent.defs)-1]
}

func (self *Stacks) Push(e ir.Exp, s ir.Instruction) {
    ent := self.ensure(e)
    ent.defs = append(ent.defs, s)
}

/* Pop removes the top definition for e. A missing or empty stack is an
 * upstream invariant violation and aborts. */
func (self *Stacks) Pop(e ir.Exp) {
    ent := self.entry(e)
    if ent == nil {
        klog.Fatalf("ssa: tried to pop %v from Stacks; does not exist", e)
    }
    if len(ent.defs) == 0 {
        klog.Fatalf("ssa: tried to pop %v from an empty stack", e)
    }
    ent.defs = ent.defs[:len(ent.defs)-1]
}

/* PushAll pushes s onto every existing stack (childless call semantics). */
func (self *Stacks) PushAll(s ir.Instruction) {
    self.t.Ascend(func(ent *stackEntry) bool {
        ent.defs = append(ent.defs, s)
        return true
    })
}

/* PopAllTopEquals pops every stack whose top is exactly s. */
func (self *Stacks) PopAllTopEquals(s ir.Instruction) {
    self.t.Ascend(func(ent *stackEntry) bool {
        if n := len(ent.defs); n != 0 && ent.defs[n-1] == s {
            ent.defs = ent.defs[:n-1]
        }
        return true
    })
}

/* ForEachDefinition enumerates the current reaching definition of every
 * location with a non-empty stack, the define-all sentinel included.
 * Implements ir.DefSource for the def collectors. */
func (self *Stacks) ForEachDefinition(fn func(loc ir.Exp, def ir.Instruction)) {
    self.t.Ascend(func(ent *stackEntry) bool {
        if len(ent.defs) != 0 {
            fn(ent.key, ent.defs[len(ent.defs)-1])
        }
        return true
    })
}

/* AllEmpty reports whether every stack is empty (push/pop balance). */
func (self *Stacks) AllEmpty() bool {
    ok := true
    self.t.Ascend(func(ent *stackEntry) bool {
        if len(ent.defs) != 0 {
            ok = false
            return false
        }
        return true
    })
    return ok
}

func (self *Stacks) Len() int {
    return self.t.Len()
}
