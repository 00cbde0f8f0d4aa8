package gpio

// FakePort is a test double standing in for the shutter hardware. By default
// it behaves like a perfect shutter: the sensed position follows every
// solenoid command instantly. Setting Stuck makes it ignore commands, which
// is how tests provoke a validation fault.
type FakePort struct {
	// Open is the current sensed shutter position.
	Open bool

	// Stuck, when true, makes the shutter ignore solenoid commands.
	Stuck bool

	// Commands records every SetSolenoid call in order.
	Commands []bool

	// ReadError, if set, will be returned by ShutterOpen.
	ReadError error

	// SetError, if set, will be returned by SetSolenoid.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePort creates a FakePort with the shutter sensed closed.
func NewFakePort() *FakePort {
	return &FakePort{}
}

// ShutterOpen returns the simulated sensed position.
func (f *FakePort) ShutterOpen() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	return f.Open, nil
}

// SetSolenoid records the command and, unless stuck, moves the shutter.
func (f *FakePort) SetSolenoid(open bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Commands = append(f.Commands, open)
	if !f.Stuck {
		f.Open = open
	}
	return nil
}

// Close marks the port as closed.
func (f *FakePort) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded commands and state.
func (f *FakePort) Reset() {
	f.Open = false
	f.Stuck = false
	f.Commands = nil
	f.ReadError = nil
	f.SetError = nil
	f.Closed = false
}
