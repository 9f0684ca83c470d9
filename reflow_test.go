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

package reflow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reflowproject/reflow/internal/cfg"
	"github.com/reflowproject/reflow/internal/ir"
	"github.com/reflowproject/reflow/internal/proc"
)

func diamondProc(t *testing.T) *proc.Proc {
	g := cfg.NewCfg()
	bbs := make([]*cfg.BasicBlock, 4)
	for i := range bbs {
		bbs[i] = g.NewBlock()
	}
	for _, e := range [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}} {
		require.NoError(t, g.AddEdge(bbs[e[0]], bbs[e[1]]))
	}
	for _, n := range []int{1, 2} {
		g.AppendStmt(bbs[n], ir.NewAssign(&ir.Register{Index: 1}, &ir.Const{Value: int64(n)}))
	}
	g.AppendStmt(bbs[3], ir.NewAssign(&ir.Temp{Name: "tmp1"}, &ir.Register{Index: 1}))
	return proc.NewProc("diamond", g, 28)
}

func TestSSATransform(t *testing.T) {
	p := diamondProc(t)
	df, err := SSATransform(p)
	require.NoError(t, err)
	require.NotNil(t, df)

	/* the pipeline reached a fixed point: a φ for r1 sits at the join and
	 * every rename stack drained */
	join := p.GetCFG().Blocks()[3]
	phi, ok := join.FirstStmt().(*ir.PhiAssign)
	require.True(t, ok)
	require.True(t, ir.Equal(phi.GetLeft(), &ir.Register{Index: 1}))
	require.True(t, df.Stacks().AllEmpty())

	use := join.Stmts[1].(*ir.Assign)
	require.Same(t, ir.Instruction(phi), use.Rhs.(*ir.RefExp).Def)
}

func TestSSATransform_RoundBound(t *testing.T) {
	p := diamondProc(t)
	_, err := SSATransform(p, WithMaxPlacementRounds(1))
	require.Error(t, err)
	require.IsType(t, PipelineError{}, err)
}

func TestWithMaxPlacementRounds_Invalid(t *testing.T) {
	require.Panics(t, func() { WithMaxPlacementRounds(0) })
}
