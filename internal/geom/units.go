package geom

import (
	"fmt"
	"math"
)

// Conversion factors between the imperial units used in the catalog and the
// centimetres used everywhere else.
const (
	CMPerInch = 2.54
	CMPerFoot = 30.48
)

func InchesToCM(in float64) float64 { return in * CMPerInch }

func CMToInches(cm float64) float64 { return cm / CMPerInch }

func FeetToCM(ft float64) float64 { return ft * CMPerFoot }

func CMToFeet(cm float64) float64 { return cm / CMPerFoot }

// FormatFeetInches renders a length as a measurement label, e.g. 5' 3".
// Inches are rounded to the nearest whole inch; 12" carries into feet.
func FormatFeetInches(cm float64) string {
	sign := ""
	if cm < 0 {
		sign = "-"
		cm = -cm
	}
	totalInches := int(math.Round(CMToInches(cm)))
	feet := totalInches / 12
	inches := totalInches % 12
	if feet == 0 {
		return fmt.Sprintf("%s%d\"", sign, inches)
	}
	return fmt.Sprintf("%s%d' %d\"", sign, feet, inches)
}
