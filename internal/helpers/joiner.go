// Package helpers holds small generic utilities with no domain logic of
// their own — the linker's phase 5 emit (spec.md §4.6) is the only consumer
// in this module, but the type itself is domain-agnostic.
package helpers

import "strings"

// Joiner concatenates many string/byte chunks into one buffer, sized once up
// front instead of repeatedly reallocating as chunks are appended — kept
// near-verbatim from the teacher's internal/helpers/joiner.go since it is
// pure data-structure plumbing with nothing to adapt to this module's
// domain; internal/linker's emit phase is what gives it a job to do here.
type Joiner struct {
	strings  []joinerString
	bytes    []joinerBytes
	length   uint32
	lastByte byte
}

type joinerString struct {
	data   string
	offset uint32
}

type joinerBytes struct {
	data   []byte
	offset uint32
}

func (j *Joiner) AddString(data string) {
	if len(data) > 0 {
		j.lastByte = data[len(data)-1]
	}
	j.strings = append(j.strings, joinerString{data, j.length})
	j.length += uint32(len(data))
}

func (j *Joiner) AddBytes(data []byte) {
	if len(data) > 0 {
		j.lastByte = data[len(data)-1]
	}
	j.bytes = append(j.bytes, joinerBytes{data, j.length})
	j.length += uint32(len(data))
}

func (j *Joiner) LastByte() byte { return j.lastByte }
func (j *Joiner) Length() uint32 { return j.length }

func (j *Joiner) EnsureNewlineAtEnd() {
	if j.length > 0 && j.lastByte != '\n' {
		j.AddString("\n")
	}
}

func (j *Joiner) Done() string {
	if len(j.bytes) == 0 {
		var sb strings.Builder
		sb.Grow(int(j.length))
		for _, item := range j.strings {
			sb.WriteString(item.data)
		}
		return sb.String()
	}
	buffer := make([]byte, j.length)
	for _, item := range j.strings {
		copy(buffer[item.offset:], item.data)
	}
	for _, item := range j.bytes {
		copy(buffer[item.offset:], item.data)
	}
	return string(buffer)
}
