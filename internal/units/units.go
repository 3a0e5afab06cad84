package units

// DefaultCmPerPixel maps one canvas pixel to half a centimeter.
const DefaultCmPerPixel = 0.5

// Converter turns canvas pixel lengths into physical measurements
type Converter struct {
	CmPerPixel float64
}

// NewConverter creates a converter with the given scale.
// A non-positive scale falls back to DefaultCmPerPixel.
func NewConverter(cmPerPixel float64) Converter {
	if cmPerPixel <= 0 {
		cmPerPixel = DefaultCmPerPixel
	}
	return Converter{CmPerPixel: cmPerPixel}
}

// PixelsToCm converts a pixel length to centimeters
func (c Converter) PixelsToCm(px float64) float64 {
	return px * c.CmPerPixel
}

// AreaSqMeters returns the area in m² of a widthCm x heightCm rectangle
func (c Converter) AreaSqMeters(widthCm, heightCm float64) float64 {
	return (widthCm / 100) * (heightCm / 100)
}
