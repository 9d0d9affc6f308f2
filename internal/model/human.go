// human readable and writable stdlib types
// which can be used inside config file
package model

import (
	"errors"
	"os"
	"time"
)

// Duration is a time.Duration written as text ("5s", "1m30s") in the config file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	if d == nil {
		return errors.New("can't unmarshal to nil")
	}
	if len(text) == 0 {
		return errors.New("can't be empty")
	}
	parsed, err := time.ParseDuration(os.ExpandEnv(string(text)))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return errors.New("can't be negative")
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// MarshalYAML keeps the text form when the config is printed.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (c *Command) expand() {
	c.Path = os.ExpandEnv(c.Path)
	for i, arg := range c.Args {
		c.Args[i] = os.ExpandEnv(arg)
	}
	for i, kv := range c.Env {
		c.Env[i] = os.ExpandEnv(kv)
	}
}

func (c *Config) expandEnv() {
	for _, cmd := range []*Command{&c.Analyzer, &c.Preprocess, &c.Cleanup, &c.Wrapper} {
		cmd.expand()
	}
	c.Output.Dir = os.ExpandEnv(c.Output.Dir)
	c.Service.Log = os.ExpandEnv(c.Service.Log)
}
