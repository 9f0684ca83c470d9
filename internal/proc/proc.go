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

package proc

import (
    `github.com/reflowproject/reflow/internal/cfg`
    `github.com/reflowproject/reflow/internal/ir`
)

/* Proc is one procedure under decompilation: its graph, its symbol map, the
 * set of stack variables whose address escapes, and the collector of
 * locations used before the entry defines them (the future parameters). */
type Proc struct {
    name    string
    sp      int
    graph   *cfg.Cfg
    symbols map[string]ir.Exp
    escaped *ir.LocationSet
    useCol  *ir.UseCollector
}

func NewProc(name string, g *cfg.Cfg, spIndex int) *Proc {
    return &Proc{
        name    : name,
        sp      : spIndex,
        graph   : g,
        symbols : make(map[string]ir.Exp),
        escaped : ir.NewLocationSet(),
        useCol  : ir.NewUseCollector(),
    }
}

func (self *Proc) Name() string      { return self.name }
func (self *Proc) GetCFG() *cfg.Cfg  { return self.graph }

func (self *Proc) UseCollector() *ir.UseCollector { return self.useCol }

/* SetSymbol maps a high level name to its underlying location. */
func (self *Proc) SetSymbol(name string, e ir.Exp) {
    self.symbols[name] = e
}

func (self *Proc) ExpFromSymbol(name string) ir.Exp {
    if e, ok := self.symbols[name]; ok {
        return e
    } else {
        return nil
    }
}

/* AddEscaped marks a location whose address leaks out of the procedure. */
func (self *Proc) AddEscaped(e ir.Exp) {
    self.escaped.Insert(e.Clone())
}

func (self *Proc) IsAddressEscapedVar(e ir.Exp) bool {
    return self.escaped.Contains(e)
}

/* IsLocalOrParamPattern reports whether e looks like a stack local or
 * parameter: m[sp], m[sp + k] or m[sp - k], where sp may already carry a
 * subscript. */
func (self *Proc) IsLocalOrParamPattern(e ir.Exp) bool {
    m, ok := e.(*ir.MemOf)
    if !ok {
        return false
    }
    switch a := m.Addr.(type) {
        case *ir.Binary:
            if a.Oper != ir.OpPlus && a.Oper != ir.OpMinus {
                return false
            }
            if _, ok := a.R.(*ir.Const); !ok {
                return false
            }
            return self.isSP(a.L)
        default:
            return self.isSP(m.Addr)
    }
}

func (self *Proc) isSP(e ir.Exp) bool {
    if r, ok := e.(*ir.RefExp); ok {
        e = r.Base
    }
    if r, ok := e.(*ir.Register); ok {
        return r.Index == self.sp
    }
    return false
}

/* UseBeforeDefine records a use with no reaching definition; these become
 * implicit parameters later. */
func (self *Proc) UseBeforeDefine(e ir.Exp) {
    self.useCol.Insert(e)
}
