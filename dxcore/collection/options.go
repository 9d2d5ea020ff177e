/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package collection

import (
	"log/slog"
)

// Option configures a view or adapter.
type Option func(*config)

type config struct {
	logger *slog.Logger
	name   string
}

// WithLogger sets the logger used for lifecycle events. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithName sets the name reported in log records.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

func newLogger(kind string, opts []Option) *slog.Logger {
	c := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&c)
	}
	l := c.logger.With(slog.String("kind", kind))
	if c.name != "" {
		l = l.With(slog.String("view", c.name))
	}
	return l
}
