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
	"fmt"
)

// PipelineError occurs when φ placement keeps mutating the IR and never
// reaches a fixed point within the configured round bound. It usually means
// an earlier pass is rewriting expressions between rounds.
type PipelineError struct {
	Rounds int
}

func (self PipelineError) Error() string {
	return fmt.Sprintf("PipelineError: no φ-placement fixed point after %d rounds", self.Rounds)
}
