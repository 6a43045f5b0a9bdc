package uri

import "strconv"

// RangeC is a half-open index range [Start, End) over a string.
// It never owns the text it describes.
type RangeC struct {
	Start, End uint
}

func NewRangeC(start, end uint) RangeC { return RangeC{Start: start, End: end} }

// Range converts r into a plain half-open pair, without validation.
func (r RangeC) Range() (start, end int) { return int(r.Start), int(r.End) }

func (r RangeC) Len() uint {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r RangeC) IsEmpty() bool { return r.Len() == 0 }

// Slice returns the part of s that r marks.
// An inverted or out of bounds range yields an empty string.
func (r RangeC) Slice(s string) string {
	if r.Start > r.End || r.End > uint(len(s)) {
		return ""
	}
	return s[r.Start:r.End]
}

func (r RangeC) String() string {
	return "[" + strconv.FormatUint(uint64(r.Start), 10) + ", " + strconv.FormatUint(uint64(r.End), 10) + ")"
}

func rangePtr(start, end int) *RangeC {
	return &RangeC{Start: uint(start), End: uint(end)}
}
