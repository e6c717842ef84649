// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the interactive session settings used by the
// REPL driver.
package config

// A Config holds information about the configuration of the system.
// The zero value of a Config holds the default values for all settings.
type Config struct {
	prompt string
	format string
	debug  map[string]bool
}

// Format returns the Printf-style format string used to render
// floating-point results, or "" for the default (%v) rendering.
func (c *Config) Format() string {
	if c == nil {
		return ""
	}
	return c.format
}

// SetFormat sets the numeric format string.
func (c *Config) SetFormat(s string) {
	c.format = s
}

// Debug reports whether the named debug tag is enabled.
func (c *Config) Debug(tag string) bool {
	if c == nil {
		return false
	}
	return c.debug[tag]
}

// SetDebug enables or disables the named debug tag.
func (c *Config) SetDebug(tag string, state bool) {
	if c.debug == nil {
		c.debug = make(map[string]bool)
	}
	c.debug[tag] = state
}

// Prompt returns the interactive prompt string.
func (c *Config) Prompt() string {
	if c == nil {
		return ""
	}
	return c.prompt
}

// SetPrompt sets the interactive prompt string.
func (c *Config) SetPrompt(prompt string) {
	c.prompt = prompt
}
