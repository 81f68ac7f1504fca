package midisink

// LogSink is a NoteSink that only logs, for running without a MIDI
// device.
type LogSink struct{}

func (LogSink) NoteOn(pitch, velocity, channel int) {
	logger.Info("note on", "pitch", pitch, "velocity", velocity, "channel", channel)
}

func (LogSink) NoteOff(pitch, velocity, channel int) {
	logger.Info("note off", "pitch", pitch, "velocity", velocity, "channel", channel)
}

func (LogSink) ControlChange(controller, value, channel int) {
	logger.Info("control change", "controller", controller, "value", value, "channel", channel)
}

func (LogSink) PitchBend(value, channel int) {
	logger.Info("pitch bend", "value", value, "channel", channel)
}
