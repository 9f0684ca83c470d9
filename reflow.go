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
	"k8s.io/klog/v2"

	"github.com/reflowproject/reflow/internal/ssa"
)

// Pass is one step of the SSA pipeline.
type Pass interface {
	Apply(df *ssa.DataFlow, proc ssa.UserProc) bool
}

type PassDescriptor struct {
	Pass Pass
	Name string
}

var Passes = [...]PassDescriptor{
	{Name: "Dominator Computation", Pass: new(DominatorPass)},
	{Name: "Phi Placement", Pass: new(PhiPlacementPass)},
	{Name: "Variable Renaming", Pass: new(RenamePass)},
}

// DominatorPass numbers the blocks and computes dominators and frontiers.
type DominatorPass struct{}

func (DominatorPass) Apply(df *ssa.DataFlow, proc ssa.UserProc) bool {
	df.Dominators(proc.GetCFG())
	return false
}

// PhiPlacementPass inserts trivial φ assignments at the iterated dominance
// frontier of every renameable location. Reports whether any φ was added.
type PhiPlacementPass struct{}

func (PhiPlacementPass) Apply(df *ssa.DataFlow, proc ssa.UserProc) bool {
	return df.PlacePhiFunctions(proc)
}

// RenamePass subscripts every use with its reaching definition.
type RenamePass struct{}

func (RenamePass) Apply(df *ssa.DataFlow, proc ssa.UserProc) bool {
	df.RenameBlockVars(proc, 0, true)
	return false
}

// SSATransform lifts proc into SSA form: dominators, φ placement and
// renaming, repeated until φ placement reaches a fixed point. Returns the
// analysis state for the later decompilation stages.
func SSATransform(proc ssa.UserProc, options ...Option) (*ssa.DataFlow, error) {
	o := defaultOptions()
	for _, fn := range options {
		fn(&o)
	}

	df := ssa.NewDataFlow()
	df.RenameLocalsAndParams = o.RenameLocalsAndParams

	for round := 0; ; round++ {
		if round >= o.MaxPlacementRounds {
			return nil, PipelineError{Rounds: round}
		}
		changed := false
		for _, p := range Passes {
			c := p.Pass.Apply(df, proc)
			klog.V(1).Infof("reflow: pass %q round %d changed=%v", p.Name, round, c)
			changed = changed || c
		}
		if !changed {
			return df, nil
		}
	}
}
