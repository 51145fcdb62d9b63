package model

// PixelsPerCm is the default canvas zoom: 1 cm is drawn as 5 px.
const PixelsPerCm = 5.0

// CmToPx converts centimeters to canvas pixels at the given zoom.
func CmToPx(cm, pxPerCm float64) float64 {
	return cm * pxPerCm
}

// PxToCm converts canvas pixels back to centimeters at the given zoom.
// A non-positive zoom yields 0.
func PxToCm(px, pxPerCm float64) float64 {
	if pxPerCm <= 0 {
		return 0
	}
	return px / pxPerCm
}
