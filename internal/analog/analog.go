// Package analog provides the rig's temperature and current acquisition with
// hardware abstraction. The real implementation reads an MCP3008 ADC over
// SPI; the fake implementation allows testing without hardware. Conversion
// from raw counts to engineering units lives in convert.go and is pure.
package analog

// Source reads raw 10-bit analog samples.
type Source interface {
	// ReadTemperatureRaw returns the raw thermistor channel count (0..1023).
	ReadTemperatureRaw() (int, error)

	// ReadCurrentRaw returns the raw current-sensor channel count (0..1023).
	ReadCurrentRaw() (int, error)

	// Close releases the SPI port.
	Close() error
}

// ADC channel assignments on the MCP3008.
const (
	ChannelThermistor = 0
	ChannelCurrent    = 1
)

// DefaultSPIDev is the SPI port the ADC hangs off on the Pi.
const DefaultSPIDev = "/dev/spidev0.0"
