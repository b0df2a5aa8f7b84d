package palette

// Translation remaps palette indices before shading, used to recolour
// sprites such as player skins.
type Translation [256]uint8

// Identity returns a translation that maps every index to itself.
func Identity() *Translation {
	var tr Translation
	for i := range tr {
		tr[i] = uint8(i)
	}
	return &tr
}

// RangeTranslation maps the inclusive index range [start, end] onto
// [toStart, toEnd], spreading or squeezing the ramp linearly. Other indices
// are unchanged.
func RangeTranslation(start, end, toStart, toEnd uint8) *Translation {
	tr := Identity()
	if end < start {
		start, end = end, start
		toStart, toEnd = toEnd, toStart
	}
	span := int(end) - int(start)
	for i := int(start); i <= int(end); i++ {
		if span == 0 {
			tr[i] = toStart
			continue
		}
		t := (i - int(start)) * (int(toEnd) - int(toStart))
		tr[i] = uint8(int(toStart) + t/span)
	}
	tr[Transparent] = Transparent
	return tr
}

// Then returns the translation that applies tr and then next.
func (tr *Translation) Then(next *Translation) *Translation {
	var out Translation
	for i, v := range tr {
		out[i] = next[v]
	}
	return &out
}
