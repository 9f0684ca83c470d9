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

package ir

import (
    `strings`

    `github.com/google/btree`
)

/* DefSource enumerates the current reaching definition of every location
 * that has one; the rename stacks implement it. */
type DefSource interface {
    ForEachDefinition(fn func(loc Exp, def Instruction))
}

/* UseCollector is the ordered set of locations used before any definition is
 * known. One exists per procedure (entry uses become implicit parameters)
 * and one per call (uses live through the call). */
type UseCollector struct {
    initialised bool
    locs        *LocationSet
}

func NewUseCollector() *UseCollector {
    return &UseCollector{locs: NewLocationSet()}
}

func (self *UseCollector) Initialised() bool { return self.initialised }
func (self *UseCollector) SetInitialised()   { self.initialised = true }

func (self *UseCollector) Len() int                 { return self.locs.Len() }
func (self *UseCollector) Insert(e Exp)             { self.locs.Insert(e) }
func (self *UseCollector) Remove(e Exp) bool        { return self.locs.Remove(e) }
func (self *UseCollector) Contains(e Exp) bool      { return self.locs.Contains(e) }
func (self *UseCollector) ForEach(fn func(e Exp) bool) { self.locs.ForEach(fn) }

func (self *UseCollector) Clone() *UseCollector {
    return &UseCollector{initialised: self.initialised, locs: self.locs.Clone()}
}

func (self *UseCollector) Equal(other *UseCollector) bool {
    return self.initialised == other.initialised && self.locs.Equal(other.locs)
}

/* FromSSAForm maps the collected locations out of SSA form: each member is
 * wrapped as loc{def}, run through the subscript-removal visitor, and the
 * result replaces the member when it differs. */
func (self *UseCollector) FromSSAForm(proc SymbolMap, def Instruction) {
    removes := NewLocationSet()
    inserts := NewLocationSet()
    esx := &SSARemover{Proc: proc}
    self.locs.ForEach(func(e Exp) bool {
        ret := Rewrite(&RefExp{Base: e.Clone(), Def: def}, esx)
        if !Equal(ret, e) {
            removes.Insert(e)
            inserts.Insert(ret)
        }
        return true
    })
    removes.ForEach(func(e Exp) bool { self.locs.Remove(e); return true })
    inserts.ForEach(func(e Exp) bool { self.locs.Insert(e); return true })
}

func (self *UseCollector) String() string {
    ss := make([]string, 0, self.locs.Len())
    self.locs.ForEach(func(e Exp) bool { ss = append(ss, e.String()); return true })
    return strings.Join(ss, ",  ")
}

func lessAssign(a *Assign, b *Assign) bool {
    return Compare(a.Lhs, b.Lhs) < 0
}

/* DefCollector is the ordered set of assignments loc := loc{def} capturing
 * the definitions reaching a call or return. At most one entry per left hand
 * side. */
type DefCollector struct {
    initialised bool
    defs        *btree.BTreeG[*Assign]
}

func NewDefCollector() *DefCollector {
    return &DefCollector{defs: btree.NewG[*Assign](_BTreeDegree, lessAssign)}
}

func (self *DefCollector) Initialised() bool { return self.initialised }
func (self *DefCollector) Len() int          { return self.defs.Len() }

/* Insert adds a; a later insert with an equal left hand side is a no-op. */
func (self *DefCollector) Insert(a *Assign) {
    if !self.defs.Has(a) {
        self.defs.ReplaceOrInsert(a)
    }
}

func (self *DefCollector) ForEach(fn func(a *Assign) bool) {
    self.defs.Ascend(fn)
}

/* FindDefFor returns the definition for e reaching this collector, or nil. */
func (self *DefCollector) FindDefFor(e Exp) Exp {
    if a, ok := self.defs.Get(&Assign{Lhs: e}); ok {
        return a.Rhs
    } else {
        return nil
    }
}

/* UpdateDefs materialises an assignment loc := loc{def} for every location
 * with a live definition and inserts it. */
func (self *DefCollector) UpdateDefs(src DefSource) {
    src.ForEachDefinition(func(loc Exp, def Instruction) {
        re := &RefExp{Base: loc.Clone(), Def: def}
        self.Insert(NewAssign(loc.Clone(), re))
    })
    self.initialised = true
}

/* SearchReplaceAll substitutes to for from in every collected assignment.
 * Substitution may rewrite left hand sides, so the tree is rebuilt to keep
 * the ordering invariant. */
func (self *DefCollector) SearchReplaceAll(from Exp, to Exp) bool {
    change := false
    all := make([]*Assign, 0, self.defs.Len())
    self.defs.Ascend(func(a *Assign) bool { all = append(all, a); return true })
    self.defs.Clear(false)
    for _, a := range all {
        if a.SearchAndReplace(from, to) {
            change = true
        }
        self.Insert(a)
    }
    return change
}

func (self *DefCollector) Clone() *DefCollector {
    rs := NewDefCollector()
    rs.initialised = self.initialised
    self.defs.Ascend(func(a *Assign) bool { rs.defs.ReplaceOrInsert(a.Clone()); return true })
    return rs
}

func (self *DefCollector) String() string {
    ss := make([]string, 0, self.defs.Len())
    self.defs.Ascend(func(a *Assign) bool {
        ss = append(ss, a.Lhs.String()+"="+a.Rhs.String())
        return true
    })
    return strings.Join(ss, ",   ")
}
