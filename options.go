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

const (
	_DefaultMaxPlacementRounds = 20
)

// Options configures one SSA transformation.
type Options struct {
	// RenameLocalsAndParams widens the rename policy to stack locals and
	// parameters. Switch it on only after escape analysis has run; the
	// driver never switches it back off.
	RenameLocalsAndParams bool

	// MaxPlacementRounds bounds the φ-placement fixed point iteration.
	MaxPlacementRounds int
}

// Option is the property setter function for Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		MaxPlacementRounds: _DefaultMaxPlacementRounds,
	}
}

// WithLocalsAndParams enables renaming of stack locals and parameters.
func WithLocalsAndParams(v bool) Option {
	return func(o *Options) { o.RenameLocalsAndParams = v }
}

// WithMaxPlacementRounds sets the bound on φ-placement iteration.
//
// The default value of this option is "20".
func WithMaxPlacementRounds(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("reflow: invalid placement round bound: %d", n))
	}
	return func(o *Options) { o.MaxPlacementRounds = n }
}
