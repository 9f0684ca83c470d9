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

/* Modifier rewrites one node; Rewrite applies it over a tree bottom-up. */
type Modifier interface {
    Modify(e Exp) Exp
}

func Rewrite(e Exp, m Modifier) Exp {
    switch x := e.(type) {
        case *Binary : x.L, x.R = Rewrite(x.L, m), Rewrite(x.R, m)
        case *MemOf  : x.Addr = Rewrite(x.Addr, m)
        case *RefExp : x.Base = Rewrite(x.Base, m)
    }
    return m.Modify(e)
}

/* ImplicitTable resolves a location to its entry placeholder statement,
 * creating one on first request. The CFG implements it. */
type ImplicitTable interface {
    FindImplicitAssign(e Exp) Instruction
}

/* ImplicitConverter replaces implicit references x{-} with a reference to the
 * entry placeholder x{0}, so the reference keeps meaning "value on entry"
 * once placeholders exist. */
type ImplicitConverter struct {
    Table ImplicitTable
}

func (self *ImplicitConverter) Modify(e Exp) Exp {
    if r, ok := e.(*RefExp); ok && r.Def == nil {
        return &RefExp{Base: r.Base, Def: self.Table.FindImplicitAssign(r.Base)}
    } else {
        return e
    }
}

/* SymbolMap maps high level names back to the underlying location. */
type SymbolMap interface {
    ExpFromSymbol(name string) Exp
}

/* SSARemover strips subscripts, turning x{def} back into plain x. */
type SSARemover struct {
    Proc SymbolMap
}

func (self *SSARemover) Modify(e Exp) Exp {
    if r, ok := e.(*RefExp); ok {
        return r.Base
    } else {
        return e
    }
}

/* ExpSubscriptVar rewrites every use of x within e to x{def}. Occurrences
 * that already carry a subscript are left alone. */
func ExpSubscriptVar(e Exp, x Exp, def Instruction) Exp {
    if Equal(e, x) {
        return &RefExp{Base: e, Def: def}
    }
    switch v := e.(type) {
        case *Binary : v.L, v.R = ExpSubscriptVar(v.L, x, def), ExpSubscriptVar(v.R, x, def)
        case *MemOf  : v.Addr = ExpSubscriptVar(v.Addr, x, def)
        case *RefExp : if !Equal(v.Base, x) { v.Base = ExpSubscriptVar(v.Base, x, def) }
    }
    return e
}

/* UsedLocs adds to used every location read when evaluating e: bare
 * registers, temps, flags, locals, memory-of expressions (together with the
 * uses inside their address), and subscripted references as single units
 * (a subscripted memory-of also contributes the uses inside its address). */
func UsedLocs(e Exp, used *LocationSet) {
    switch x := e.(type) {
        case *Register, *Temp, *Flags, *FlagBit, *Local:
            used.Insert(e)
        case *MemOf:
            used.Insert(e)
            UsedLocs(x.Addr, used)
        case *RefExp:
            used.Insert(e)
            if m, ok := x.Base.(*MemOf); ok {
                UsedLocs(m.Addr, used)
            }
        case *Binary:
            UsedLocs(x.L, used)
            UsedLocs(x.R, used)
    }
}
