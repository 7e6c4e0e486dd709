package options

import "fmt"

// ConfigError is an invalid player configuration. Generation of the player's
// world stops when one is returned.
type ConfigError struct {
	Slot    int
	Player  string
	Subject string
	Reason  string
	Err     error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("[%s - '%s' (slot %d)] %s: %s", GameName, e.Player, e.Slot, e.Subject, e.Reason)
	if e.Err != nil && e.Reason == "" {
		msg = fmt.Sprintf("[%s - '%s' (slot %d)] %s: %v", GameName, e.Player, e.Slot, e.Subject, e.Err)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Wrap returns a ConfigError for this player carrying err.
func (o *Options) Wrap(subject string, err error) *ConfigError {
	return &ConfigError{Slot: o.Slot, Player: o.Name, Subject: subject, Err: err}
}
