// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embedding

import "errors"

var (
	// ErrCorruptScales indicates a scale pair that cannot decode a vector
	// (NaN, infinite, or min greater than max).
	ErrCorruptScales = errors.New("corrupt scale table")

	// ErrSizeMismatch indicates the codes and scale table disagree on the vector count,
	// or a file length is not a multiple of the record size.
	ErrSizeMismatch = errors.New("embedding size mismatch")

	// ErrVectorLengthMismatch indicates a vector does not have the store's dimension.
	ErrVectorLengthMismatch = errors.New("vector length mismatch")

	// ErrEmpty indicates an operation that needs at least one vector received none.
	ErrEmpty = errors.New("no vectors")
)
