/*
   DiskRun - Commodore disk image runner
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of DiskRun.

   DiskRun is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   DiskRun is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with DiskRun. If not, see <http://www.gnu.org/licenses/>.
*/

package loader

import (
	"context"
	"fmt"
	"time"
)

//
const (
	DefaultRetries      = 3
	DefaultBackoff      = 500 * time.Millisecond
	DefaultPollInterval = 50 * time.Millisecond
	DefaultPollAttempts = 100
	DefaultResetDelay   = 2 * time.Second
)

// Options tune the loader's retry and polling behavior.
type Options struct {
	// Retries is the number of write attempts for the payload
	Retries int
	// Backoff is multiplied by the attempt number to give the delay before
	// the next attempt
	Backoff time.Duration
	//
	PollInterval time.Duration
	PollAttempts int
	// NoReset skips the machine reset before loading
	NoReset bool
	// ResetDelay is the time given to the target to boot after a reset
	ResetDelay time.Duration
	// Sleep waits for d, or until ctx is done. When nil, a timer is used.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultOptions returns options with all defaults set.
func DefaultOptions() *Options {
	return &Options{
		Retries:      DefaultRetries,
		Backoff:      DefaultBackoff,
		PollInterval: DefaultPollInterval,
		PollAttempts: DefaultPollAttempts,
		ResetDelay:   DefaultResetDelay,
	}
}

//
func (o *Options) validate() error {
	if o.Retries < 1 {
		return fmt.Errorf("%w: retries must be at least 1, got %d",
			ErrInvalidSettings, o.Retries)
	}
	if o.PollAttempts < 1 {
		return fmt.Errorf("%w: poll attempts must be at least 1, got %d",
			ErrInvalidSettings, o.PollAttempts)
	}
	if o.Backoff < 0 || o.PollInterval < 0 || o.ResetDelay < 0 {
		return fmt.Errorf("%w: negative delay", ErrInvalidSettings)
	}
	return nil
}

//
func (o *Options) sleep(ctx context.Context, d time.Duration) error {
	if o.Sleep != nil {
		return o.Sleep(ctx, d)
	}
	return sleep(ctx, d)
}

//
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
