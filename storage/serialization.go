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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/dirsearch/core"
)

// IDMUS is the MUS serializer for core.ID.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v core.ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v core.ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(u), n, err
}

func (s idMUS) Size(v core.ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// ReportMUS is the MUS serializer for core.Report. Timestamps are stored as
// UTC unix microseconds.
var ReportMUS = reportMUS{}

type reportMUS struct{}

func (s reportMUS) Marshal(v core.Report, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.ProfileURL, bs[n:])
	n += varint.Int64.Marshal(int64(v.Kind), bs[n:])
	n += ord.String.Marshal(v.Query, bs[n:])
	n += varint.Int64.Marshal(v.CreatedAt.UnixMicro(), bs[n:])
	return
}

func (s reportMUS) Unmarshal(bs []byte) (v core.Report, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ProfileURL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var kind int64
	kind, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Kind = core.ReportKind(kind)
	v.Query, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s reportMUS) Size(v core.Report) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.ProfileURL)
	size += varint.Int64.Size(int64(v.Kind))
	size += ord.String.Size(v.Query)
	return size + varint.Int64.Size(v.CreatedAt.UnixMicro())
}

func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalReport encodes a report for storage.
func MarshalReport(report *core.Report) []byte {
	buf := make([]byte, ReportMUS.Size(*report))
	ReportMUS.Marshal(*report, buf)
	return buf
}

// UnmarshalReport decodes a stored report.
func UnmarshalReport(data []byte) (*core.Report, error) {
	report, _, err := ReportMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &report, nil
}
