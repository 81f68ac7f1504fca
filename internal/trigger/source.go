package trigger

// NullSource is the input source for running without physical controls:
// no button is ever pressed and analog inputs rest at mid-scale. Trigger
// input then comes entirely from the serial override feed, and the idle
// animation carries the display.
type NullSource struct{}

func (NullSource) DigitalRead(pin int) bool { return false }

func (NullSource) AnalogRead(pin int) int { return 512 }
