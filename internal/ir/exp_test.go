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
    `sort`
    `testing`

    `github.com/google/go-cmp/cmp`
    `github.com/stretchr/testify/require`
)

func sampleExps() []Exp {
    sp := &Register{Index: 28}
    return []Exp{
        &Register{Index: 1},
        &Register{Index: 24},
        &Temp{Name: "tmp1"},
        &Temp{Name: "tmp2"},
        &Flags{},
        &FlagBit{Name: "CF"},
        &FlagBit{Name: "ZF"},
        &Local{Name: "x"},
        &Const{Value: -3},
        &MemOf{Addr: sp.Clone()},
        &MemOf{Addr: &Binary{Oper: OpPlus, L: sp.Clone(), R: &Const{Value: 8}}},
        &MemOf{Addr: &Binary{Oper: OpMinus, L: sp.Clone(), R: &Const{Value: 4}}},
        DefineAll,
        &Terminal{Oper: OpPC},
        &RefExp{Base: &Register{Index: 1}, Def: nil},
    }
}

func TestCompare_TotalOrder(t *testing.T) {
    exps := sampleExps()
    for _, a := range exps {
        require.Zero(t, Compare(a, a), "%s not equal to itself", a)
        require.Zero(t, Compare(a, a.Clone()), "%s not equal to its clone", a)
        for _, b := range exps {
            require.Equal(t, Compare(a, b) < 0, Compare(b, a) > 0,
                "antisymmetry violated for %s / %s", a, b)
        }
    }

    /* sorting the sample twice from different shuffles converges */
    byCompare := func(s []Exp) {
        sort.Slice(s, func(i, j int) bool { return Compare(s[i], s[j]) < 0 })
    }
    s1 := append([]Exp(nil), exps...)
    s2 := make([]Exp, len(exps))
    for i, e := range exps {
        s2[len(exps)-1-i] = e
    }
    byCompare(s1)
    byCompare(s2)
    str := func(s []Exp) (out []string) {
        for _, e := range s {
            out = append(out, e.String())
        }
        return
    }
    require.Empty(t, cmp.Diff(str(s1), str(s2)))
}

func TestCompare_RefExpByDefNumber(t *testing.T) {
    s1 := NewAssign(&Register{Index: 1}, &Const{Value: 0})
    s1.SetNumber(1)
    s2 := NewAssign(&Register{Index: 1}, &Const{Value: 0})
    s2.SetNumber(2)

    r := &Register{Index: 1}
    implicit := &RefExp{Base: r.Clone(), Def: nil}
    ref1 := &RefExp{Base: r.Clone(), Def: s1}
    ref2 := &RefExp{Base: r.Clone(), Def: s2}

    require.Negative(t, Compare(implicit, ref1))
    require.Negative(t, Compare(ref1, ref2))
    require.Zero(t, Compare(ref1, &RefExp{Base: r.Clone(), Def: s1}))
    require.NotZero(t, Compare(r, ref1), "bare and subscripted differ")
}

func TestClone_Independence(t *testing.T) {
    m := &MemOf{Addr: &Binary{Oper: OpPlus, L: &Register{Index: 28}, R: &Const{Value: 8}}}
    c := m.Clone().(*MemOf)
    require.True(t, Equal(m, c))

    c.Addr.(*Binary).R.(*Const).Value = 12
    require.False(t, Equal(m, c), "clone must not share operands")
}

func TestExpSubscriptVar(t *testing.T) {
    def := NewAssign(&Register{Index: 1}, &Const{Value: 0})
    def.SetNumber(5)
    r1 := &Register{Index: 1}

    e := ExpSubscriptVar(&Binary{Oper: OpPlus, L: r1.Clone(), R: r1.Clone()}, r1, def)
    b := e.(*Binary)
    require.Same(t, Instruction(def), b.L.(*RefExp).Def)
    require.Same(t, Instruction(def), b.R.(*RefExp).Def)

    /* already subscripted occurrences stay untouched */
    prior := &RefExp{Base: r1.Clone(), Def: nil}
    e2 := ExpSubscriptVar(prior, r1, def)
    require.Same(t, Exp(prior), e2)
    require.Nil(t, e2.(*RefExp).Def)

    /* other locations stay untouched */
    r2 := &Register{Index: 2}
    e3 := ExpSubscriptVar(r2.Clone(), r1, def)
    require.True(t, Equal(e3, r2))
}

func TestUsedLocs(t *testing.T) {
    sp := &Register{Index: 28}
    m := &MemOf{Addr: &Binary{Oper: OpMinus, L: sp.Clone(), R: &Const{Value: 4}}}

    used := NewLocationSet()
    UsedLocs(m, used)
    require.True(t, used.Contains(m), "the memof itself is a location")
    require.True(t, used.Contains(sp), "the address registers are used too")
    require.Equal(t, 2, used.Len())

    /* a subscripted memof contributes itself and its address uses */
    used2 := NewLocationSet()
    ref := &RefExp{Base: m.Clone(), Def: nil}
    UsedLocs(ref, used2)
    require.True(t, used2.Contains(ref))
    require.True(t, used2.Contains(sp))
}

func TestRewrite_SSARemover(t *testing.T) {
    def := NewAssign(&Register{Index: 1}, &Const{Value: 0})
    def.SetNumber(3)
    e := &MemOf{Addr: &Binary{
        Oper : OpPlus,
        L    : &RefExp{Base: &Register{Index: 28}, Def: def},
        R    : &Const{Value: 8},
    }}

    out := Rewrite(e.Clone(), &SSARemover{})
    want := &MemOf{Addr: &Binary{Oper: OpPlus, L: &Register{Index: 28}, R: &Const{Value: 8}}}
    require.True(t, Equal(out, want), "got %s", out)
}

func TestLocationSet_Basics(t *testing.T) {
    s := NewLocationSet()
    s.Insert(&Register{Index: 1})
    s.Insert(&Register{Index: 1}) // dup
    s.Insert(&Register{Index: 2})
    require.Equal(t, 2, s.Len())
    require.True(t, s.Contains(&Register{Index: 1}))

    c := s.Clone()
    require.True(t, s.Equal(c))
    c.Remove(&Register{Index: 2})
    require.False(t, s.Equal(c))
    require.Equal(t, "{r1, r2}", s.String())
}
