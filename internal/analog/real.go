package analog

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// RealSource reads an MCP3008 10-bit ADC over SPI.
type RealSource struct {
	port spi.PortCloser
	conn spi.Conn
}

// NewRealSource opens the given SPI port and connects to the ADC.
func NewRealSource(dev string) (*RealSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	port, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi port %s: %w", dev, err)
	}

	conn, err := port.Connect(1350*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect adc: %w", err)
	}

	return &RealSource{port: port, conn: conn}, nil
}

// readChannel performs one single-ended MCP3008 conversion.
func (s *RealSource) readChannel(ch int) (int, error) {
	// Start bit, single-ended mode + channel, then clock out the result.
	tx := []byte{0x01, byte(0x80 | ch<<4), 0x00}
	rx := make([]byte, 3)
	if err := s.conn.Tx(tx, rx); err != nil {
		return 0, fmt.Errorf("adc channel %d: %w", ch, err)
	}
	return int(rx[1]&0x03)<<8 | int(rx[2]), nil
}

// ReadTemperatureRaw returns the raw thermistor channel count.
func (s *RealSource) ReadTemperatureRaw() (int, error) {
	return s.readChannel(ChannelThermistor)
}

// ReadCurrentRaw returns the raw current-sensor channel count.
func (s *RealSource) ReadCurrentRaw() (int, error) {
	return s.readChannel(ChannelCurrent)
}

// Close releases the SPI port.
func (s *RealSource) Close() error {
	return s.port.Close()
}
