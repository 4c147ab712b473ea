// Copyright 2026 The capnlite Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package capnlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWireErrorUnwrapsToSentinel(t *testing.T) {
	t.Parallel()
	err := wireErr(errCodeOutOfBounds, 16)
	require.True(t, errors.Is(err, ErrOutOfBounds))
	require.False(t, errors.Is(err, ErrMalformedPointer))

	var we *wireError
	require.True(t, errors.As(err, &we))
	require.Equal(t, 16, we.Offset())
}

func TestOutOfBoundsReadReturnsWireError(t *testing.T) {
	t.Parallel()
	buf := NewBuffer(make([]byte, 4))
	_, err := buf.RootStruct()
	require.ErrorIs(t, err, ErrOutOfBounds)
}
