// annotations.go defines the binding annotation syntax and its parser. GLSL
// sources carry descriptor placement inside layout qualifiers using the
// ogre_setN and ogre_xN markers, where N is a numeric index and x is a
// one-letter binding type tag. The parser scans the raw source text and
// accumulates, per descriptor set and per type tag, the half-open range of
// slot indices the source declares. The resulting table is diagnostic state
// for binding validation; the authoritative descriptor layout always comes
// from reflecting the compiled SPIR-V.
//
// Example:
//
//	layout( std140, ogre_set0, ogre_B0 ) uniform GlobalUniform {} globalUniform;
//	layout( ogre_set0, ogre_T0 ) uniform samplerBuffer texelBuffer;
//	layout( ogre_set0, ogre_t0 ) uniform sampler2D myTexture0;
//	layout( ogre_set0, ogre_u0 ) uniform image2D myImage0;
//	layout( std430, ogre_set0, ogre_U0 ) buffer MySsbo {};
//
// The ogre_setN marker must always come before the ogre_xN marker on the same
// line. Slot indices never reset between sets and may leave gaps, but a slot
// may not move to a later set once used in an earlier one.
package shader

import (
	"fmt"
	"strings"
)

// setKeyword marks the descriptor set index inside a layout qualifier.
const setKeyword = "ogre_set"

// typeKeyword prefixes the binding type tag and slot index.
const typeKeyword = "ogre_"

// bindingTypeLetters maps each binding type tag letter to its BindingType
// index by position. Spaces are reserved indices with no source-level tag.
const bindingTypeLetters = "s tuT BU"

// MaxBoundDescriptorSets is the number of descriptor sets a program may
// address through annotations.
const MaxBoundDescriptorSets = 4

// maxBindingSlot is the exclusive upper bound for annotation slot indices.
const maxBindingSlot = 65535

// errorContextLength is how much source text an annotation error quotes.
const errorContextLength = 64

// BindingType indexes the binding range table's second dimension, one entry
// per binding type tag letter.
type BindingType int

const (
	// BindingTypeSampler is the 's' tag, a pure sampler.
	BindingTypeSampler BindingType = 0

	// BindingTypeTexture is the 't' tag, a sampled texture.
	BindingTypeTexture BindingType = 2

	// BindingTypeStorageTexelBuffer is the 'u' tag, a storage image or texel buffer.
	BindingTypeStorageTexelBuffer BindingType = 3

	// BindingTypeUniformTexelBuffer is the 'T' tag, a uniform texel buffer.
	BindingTypeUniformTexelBuffer BindingType = 4

	// BindingTypeUniformBuffer is the 'B' tag, a uniform block.
	BindingTypeUniformBuffer BindingType = 6

	// BindingTypeStorageBuffer is the 'U' tag, a storage block.
	BindingTypeStorageBuffer BindingType = 7

	// NumBindingTypes is the binding range table's second dimension.
	NumBindingTypes = len(bindingTypeLetters)
)

// DescBindingRange is one cell of the binding range table: the half-open
// range [Start,End) of slot indices seen for a (set, type) pair. An untouched
// cell holds Start at the maximum representable value and End at zero, which
// reports as empty.
type DescBindingRange struct {
	// Start is the lowest slot index merged into the range.
	Start uint16

	// End is one past the highest slot index merged into the range.
	End uint16
}

// NewDescBindingRange creates an empty range.
//
// Returns:
//   - DescBindingRange: a range reporting not in use
func NewDescBindingRange() DescBindingRange {
	return DescBindingRange{Start: 0xFFFF, End: 0}
}

// Merge widens the range to include one slot index.
//
// Parameters:
//   - slot: the slot index to include
func (r *DescBindingRange) Merge(slot uint16) {
	if slot < r.Start {
		r.Start = slot
	}
	if slot+1 > r.End {
		r.End = slot + 1
	}
}

// IsInUse reports whether any slot was merged into the range.
//
// Returns:
//   - bool: true when the range is non-empty
func (r DescBindingRange) IsInUse() bool {
	return r.End > r.Start
}

// Count returns the number of slots the range spans.
//
// Returns:
//   - uint16: End minus Start, or zero for an empty range
func (r DescBindingRange) Count() uint16 {
	if !r.IsInUse() {
		return 0
	}
	return r.End - r.Start
}

// BindingRangeTable is the per-set, per-type grid of slot ranges collected
// from a program's annotations.
type BindingRangeTable [MaxBoundDescriptorSets][NumBindingTypes]DescBindingRange

// newBindingRangeTable creates a table with every cell empty.
func newBindingRangeTable() BindingRangeTable {
	var table BindingRangeTable
	for set := range table {
		for i := range table[set] {
			table[set][i] = NewDescBindingRange()
		}
	}
	return table
}

// parseBindingRanges scans shader source text for binding annotations and
// builds the binding range table. The scan walks left to right; after each
// annotation it resumes searching from the end of that annotation's line, so
// one set marker pairs with at most one type marker. Any malformed annotation
// aborts the whole parse: the returned table must not be trusted when err is
// non-nil.
//
// Comments and preprocessor-disabled regions are not skipped; an annotation
// inside either still counts.
//
// Parameters:
//   - name: the program name, used in error messages
//   - source: the raw GLSL source text
//
// Returns:
//   - BindingRangeTable: the collected slot ranges per set and type
//   - error: a description of the first malformed annotation, or nil
func parseBindingRanges(name, source string) (BindingRangeTable, error) {
	table := newBindingRangeTable()

	searchPos := 0
	for {
		rel := strings.Index(source[searchPos:], setKeyword)
		if rel < 0 {
			return table, nil
		}
		startPos := searchPos + rel
		pos := startPos + len(setKeyword)

		eol := strings.IndexByte(source[pos:], '\n')
		if eol >= 0 {
			eol += pos
		} else {
			eol = len(source)
		}

		endPos := -1
		for i := pos; i < len(source); i++ {
			if source[i] == ',' || source[i] == ')' {
				endPos = i
				break
			}
		}
		if endPos < 0 || endPos >= eol {
			return table, fmt.Errorf(
				"%s: invalid %s syntax, expecting ',' or ')' near:\n%s",
				name, setKeyword, errorContext(source, startPos))
		}

		setNum := parseInt(source[pos:endPos])
		if setNum < 0 || setNum >= MaxBoundDescriptorSets {
			return table, fmt.Errorf(
				"%s: %s must be in range [0;%d) near:\n%s",
				name, setKeyword, MaxBoundDescriptorSets, errorContext(source, startPos))
		}

		line := source[pos:eol]
		typeStart := strings.Index(line, typeKeyword)
		typePos := typeStart + len(typeKeyword)
		if typeStart < 0 || typePos >= len(line)-1 {
			return table, fmt.Errorf(
				"%s: expecting %sxN (e.g. %sb0) after %s near:\n%s",
				name, typeKeyword, typeKeyword, setKeyword, errorContext(source, startPos))
		}

		typeLetter := line[typePos]
		letterIdx := strings.IndexByte(bindingTypeLetters, typeLetter)
		if letterIdx < 0 || typeLetter == ' ' {
			var allowed []string
			for i := 0; i < len(bindingTypeLetters); i++ {
				if bindingTypeLetters[i] != ' ' {
					allowed = append(allowed, typeKeyword+string(bindingTypeLetters[i])+"N")
				}
			}
			return table, fmt.Errorf(
				"%s: expecting possible values: %s where N is a number, near:\n%s",
				name, strings.Join(allowed, ", "), errorContext(source, startPos))
		}

		slot := parseInt(line[typePos+1:])
		if slot < 0 || slot >= maxBindingSlot {
			return table, fmt.Errorf(
				"%s: %s%c must be in range [0; %d) near:\n%s",
				name, typeKeyword, typeLetter, maxBindingSlot, errorContext(source, startPos))
		}

		table[setNum][letterIdx].Merge(uint16(slot))

		searchPos = eol
	}
}

// errorContext quotes the source text around a failed annotation.
func errorContext(source string, startPos int) string {
	end := startPos + errorContextLength
	if end > len(source) {
		end = len(source)
	}
	return source[startPos:end]
}

// parseInt reads a leading optionally-signed decimal integer from s, the way
// C's atoi does: surrounding garbage after the digits is ignored and no
// digits at all yields zero.
func parseInt(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	negative := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}
	value := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		value = value*10 + int(s[i]-'0')
		if value > maxBindingSlot {
			break
		}
		i++
	}
	if negative {
		return -value
	}
	return value
}
