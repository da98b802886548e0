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

package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
	"github.com/xelalexv/diskrun/pkg/loader"
	"github.com/xelalexv/diskrun/pkg/remote"
)

//
const (
	StatusIdle = "idle"
	StatusBusy = "busy"
)

//
const lockTimeout = time.Second

//
var ErrBusy = errors.New("target busy")

// the daemon that serializes access to the target machine
type Daemon struct {
	target remote.Memory
	opts   *loader.Options
	lock   chan bool
	//
	mutex   sync.Mutex
	last    *loader.Result
	lastErr error
	loads   int
	started time.Time
}

// NewDaemon creates a daemon for target. If opts is nil, loader defaults are
// used.
func NewDaemon(target remote.Memory, opts *loader.Options) *Daemon {
	if opts == nil {
		opts = loader.DefaultOptions()
	}
	return &Daemon{
		target:  target,
		opts:    opts,
		lock:    make(chan bool, 1),
		started: time.Now(),
	}
}

//
func (d *Daemon) Target() string {
	if s, ok := d.target.(fmt.Stringer); ok {
		return s.String()
	}
	return "<unknown>"
}

// RunOption adjusts the loader options for a single run.
type RunOption func(o *loader.Options)

// WithoutReset skips resetting the target before loading.
func WithoutReset() RunOption {
	return func(o *loader.Options) {
		o.NoReset = true
	}
}

// Run loads and starts the first program of a disk image on the target.
func (d *Daemon) Run(ctx context.Context, image []byte, f disk.Format,
	opts ...RunOption) (*loader.Result, error) {
	return d.exclusive(ctx, opts, func(l *loader.Loader) (*loader.Result, error) {
		return l.LoadFirstProgram(ctx, image, f)
	})
}

// RunProgram loads and starts a program file on the target.
func (d *Daemon) RunProgram(ctx context.Context, name string, prg []byte,
	opts ...RunOption) (*loader.Result, error) {
	return d.exclusive(ctx, opts, func(l *loader.Loader) (*loader.Result, error) {
		return l.LoadProgram(ctx, name, prg)
	})
}

//
func (d *Daemon) exclusive(ctx context.Context, opts []RunOption,
	do func(l *loader.Loader) (*loader.Result, error)) (*loader.Result, error) {

	if !d.Lock(ctx) {
		return nil, ErrBusy
	}
	defer d.Unlock()

	o := *d.opts
	for _, opt := range opts {
		opt(&o)
	}
	res, err := do(loader.New(d.target, &o))

	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.lastErr = err
	if err == nil {
		d.last = res
		d.loads++
		log.WithField("program", res).Info("program started")
	}

	return res, err
}

// Lock acquires exclusive access to the target. It gives up after a second,
// or when ctx is done.
func (d *Daemon) Lock(ctx context.Context) bool {

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	select {
	case d.lock <- true:
		log.Debug("target locked")
		return true
	case <-ctx.Done():
		log.Debug("target lock timed out")
		return false
	}
}

//
func (d *Daemon) Unlock() {
	select {
	case <-d.lock:
		log.Debug("target unlocked")
	default:
		log.Debug("target was already unlocked")
	}
}

//
func (d *Daemon) GetStatus() *Status {

	ret := &Status{
		Target: d.Target(),
		State:  StatusIdle,
		Uptime: time.Since(d.started).Truncate(time.Second).String(),
	}

	if len(d.lock) > 0 {
		ret.State = StatusBusy
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	ret.Loads = d.loads
	ret.Last = d.last
	if d.lastErr != nil {
		ret.LastError = d.lastErr.Error()
	}

	return ret
}

// Status is a snapshot of the daemon state
type Status struct {
	Target    string         `json:"target"`
	State     string         `json:"state"`
	Uptime    string         `json:"uptime"`
	Loads     int            `json:"loads"`
	Last      *loader.Result `json:"last,omitempty"`
	LastError string         `json:"lastError,omitempty"`
}

//
func (s *Status) String() string {
	ret := fmt.Sprintf("\ntarget: %s\nstate:  %s\nuptime: %s\nloads:  %d\n",
		s.Target, s.State, s.Uptime, s.Loads)
	if s.Last != nil {
		ret += fmt.Sprintf("last:   %s\n", s.Last)
	}
	if s.LastError != "" {
		ret += fmt.Sprintf("error:  %s\n", s.LastError)
	}
	return ret
}
