package analog

import "math"

// Fixed circuit constants. These describe the sensing hardware, not the test
// profile: a 10k NTC thermistor (beta 3950) on the low side of a 10k divider,
// and a hall-effect current sensor centered at mid-rail.
const (
	adcMax = 1023

	seriesOhms    = 10000.0 // divider resistor
	nominalOhms   = 10000.0 // thermistor resistance at nominalKelvin
	betaCoeff     = 3950.0
	nominalKelvin = 298.15 // 25°C
	zeroCelsius   = 273.15

	vref               = 3.3  // ADC reference, V
	currentOffsetV     = 1.65 // sensor output at zero current, V
	currentVoltsPerAmp = 0.066
)

// Temperature converts a raw thermistor count to °C using the beta equation.
// Counts at the rails (open or shorted thermistor) are clamped to the usable
// range so the result stays finite.
func Temperature(raw int) float64 {
	if raw < 1 {
		raw = 1
	}
	if raw > adcMax-1 {
		raw = adcMax - 1
	}
	r := seriesOhms * float64(raw) / float64(adcMax-raw)
	invT := 1/nominalKelvin + math.Log(r/nominalOhms)/betaCoeff
	return 1/invT - zeroCelsius
}

// Current converts a raw current-sensor count to amps. The transform is
// linear: mid-rail is zero current, positive counts above it.
func Current(raw int) float64 {
	if raw < 0 {
		raw = 0
	}
	if raw > adcMax {
		raw = adcMax
	}
	v := float64(raw) * vref / float64(adcMax)
	return (v - currentOffsetV) / currentVoltsPerAmp
}
