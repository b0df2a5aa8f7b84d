package palette

// ShadeAlphas is the number of alpha steps in the shade tables.
const ShadeAlphas = 16

// ShadeTables map a mask texel to a wash strength 0..64 for every alpha
// step and light level. Shaded columns use them to lay a single colour over
// the destination with the texture acting as the alpha mask.
type ShadeTables struct {
	tables [ShadeAlphas][NumLevels][256]uint8
}

// BuildShadeTables computes the wash strength tables. Alpha step 0 is the
// most opaque and light level 0 the brightest.
func BuildShadeTables() *ShadeTables {
	st := &ShadeTables{}
	for i := range ShadeAlphas {
		for j := range NumLevels {
			a := (NumLevels - j) * 256 / NumLevels * (ShadeAlphas - i)
			for k := range 256 {
				v := ((k+2)*a + 256) >> 14
				st.tables[i][j][k] = uint8(min(v, 64))
			}
		}
	}
	return st
}

// Table returns the mask table for an alpha step and light level.
func (st *ShadeTables) Table(alpha, level int) *[256]uint8 {
	alpha = min(max(alpha, 0), ShadeAlphas-1)
	level = min(max(level, 0), NumLevels-1)
	return &st.tables[alpha][level]
}
