package analog

// FakeSource is a test double returning fixed raw counts.
type FakeSource struct {
	// TemperatureRaw and CurrentRaw are the counts to return.
	TemperatureRaw int
	CurrentRaw     int

	// TemperatureError and CurrentError, if set, are returned by the
	// corresponding read.
	TemperatureError error
	CurrentError     error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSource creates a FakeSource with mid-range counts (roughly 25°C and
// zero current on the real circuit).
func NewFakeSource() *FakeSource {
	return &FakeSource{TemperatureRaw: 512, CurrentRaw: 512}
}

// ReadTemperatureRaw returns the scripted thermistor count.
func (f *FakeSource) ReadTemperatureRaw() (int, error) {
	if f.TemperatureError != nil {
		return 0, f.TemperatureError
	}
	return f.TemperatureRaw, nil
}

// ReadCurrentRaw returns the scripted current-sensor count.
func (f *FakeSource) ReadCurrentRaw() (int, error) {
	if f.CurrentError != nil {
		return 0, f.CurrentError
	}
	return f.CurrentRaw, nil
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}
