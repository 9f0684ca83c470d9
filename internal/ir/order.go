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
)

/* Compare imposes a total order over expressions: first by operator, then by
 * operands. Subscripted locations order by base first, then by the number of
 * the defining statement, with the implicit {-} reference lowest. Every
 * ordered container of locations in the analysis uses this order, which makes
 * iteration deterministic. */
func Compare(a Exp, b Exp) int {
    if a.Op() != b.Op() {
        return int(a.Op()) - int(b.Op())
    }
    switch x := a.(type) {
        case *Register : return x.Index - b.(*Register).Index
        case *Temp     : return strings.Compare(x.Name, b.(*Temp).Name)
        case *Flags    : return 0
        case *FlagBit  : return strings.Compare(x.Name, b.(*FlagBit).Name)
        case *Local    : return strings.Compare(x.Name, b.(*Local).Name)
        case *Const    : return cmpi64(x.Value, b.(*Const).Value)
        case *MemOf    : return Compare(x.Addr, b.(*MemOf).Addr)
        case *Terminal : return 0
        case *Binary   : return cmpBinary(x, b.(*Binary))
        case *RefExp   : return cmpRef(x, b.(*RefExp))
        default        : panic("Compare: unknown expression kind")
    }
}

func Equal(a Exp, b Exp) bool {
    return Compare(a, b) == 0
}

func cmpi64(a int64, b int64) int {
    switch {
        case a < b : return -1
        case a > b : return 1
        default    : return 0
    }
}

func cmpBinary(a *Binary, b *Binary) int {
    if r := Compare(a.L, b.L); r != 0 {
        return r
    } else {
        return Compare(a.R, b.R)
    }
}

func cmpRef(a *RefExp, b *RefExp) int {
    if r := Compare(a.Base, b.Base); r != 0 {
        return r
    } else {
        return defnum(a.Def) - defnum(b.Def)
    }
}

/* the implicit reference sorts below any numbered definition */
func defnum(s Instruction) int {
    if s == nil {
        return -1
    } else {
        return s.Number()
    }
}
