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

/*
	Package loader puts a program from a disk image into the memory of a
	remote machine and starts it.
*/
package loader

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
	"github.com/xelalexv/diskrun/pkg/cbm/program"
	"github.com/xelalexv/diskrun/pkg/remote"
)

// zero page pointers patched after loading a BASIC program
const (
	addrVarTab  = 0x002d // VARTAB, ARYTAB, STREND follow
	addrLoadEnd = 0x00ae
)

// Result describes what was loaded and started.
type Result struct {
	Name        string `json:"name"`
	LoadAddress uint16 `json:"load"`
	End         int    `json:"end"`
	Interpreted bool   `json:"basic"`
	Command     string `json:"command"`
}

//
func (r *Result) String() string {
	return fmt.Sprintf("'%s' at $%04X-$%04X, started with %q", r.Name,
		r.LoadAddress, r.End, r.Command)
}

// Loader transfers programs into remote memory. It keeps no state between
// calls.
type Loader struct {
	mem  remote.Memory
	opts *Options
}

// New creates a loader writing to mem. If opts is nil, defaults are used. If
// mem also implements remote.Machine, the target is reset before each load,
// unless disabled in opts.
func New(mem remote.Memory, opts *Options) *Loader {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Loader{mem: mem, opts: opts}
}

/*
	LoadFirstProgram extracts the first program from image, which is a disk
	image of format f, then transfers and starts it. Extraction is complete
	before anything is sent to the target. image is not modified.
*/
func (l *Loader) LoadFirstProgram(ctx context.Context, image []byte,
	f disk.Format) (*Result, error) {

	if err := l.opts.validate(); err != nil {
		return nil, err
	}

	img, err := disk.NewImage(f, image)
	if err != nil {
		return nil, err
	}

	e, data, err := img.ExtractFirstProgram()
	if err != nil {
		return nil, err
	}

	return l.LoadProgram(ctx, e.Name(), data)
}

// LoadProgram transfers and starts the program file content prg, i.e. load
// address followed by body.
func (l *Loader) LoadProgram(ctx context.Context, name string,
	prg []byte) (*Result, error) {

	if err := l.opts.validate(); err != nil {
		return nil, err
	}

	payload, err := program.NewPayload(prg)
	if err != nil {
		return nil, err
	}

	plan := program.Classify(payload)
	cmd := program.CommandFor(plan)

	log.WithFields(log.Fields{
		"name":    name,
		"payload": payload,
		"kind":    plan.Kind,
	}).Info("loading program")

	if err := l.reset(ctx); err != nil {
		return nil, err
	}

	if err := l.Transfer(ctx, payload, plan); err != nil {
		return nil, err
	}

	if err := l.Autostart(ctx, cmd); err != nil {
		return nil, err
	}

	return &Result{
		Name:        name,
		LoadAddress: payload.LoadAddress,
		End:         payload.End(),
		Interpreted: plan.Interpreted(),
		Command:     string(cmd[:len(cmd)-1]),
	}, nil
}

//
func (l *Loader) reset(ctx context.Context) error {

	if l.opts.NoReset {
		return nil
	}

	m, ok := l.mem.(remote.Machine)
	if !ok {
		log.Debug("target cannot be reset")
		return nil
	}

	log.Debug("resetting target")
	if err := m.Reset(ctx); err != nil {
		return fmt.Errorf("error resetting target: %w", err)
	}
	return l.opts.sleep(ctx, l.opts.ResetDelay)
}

/*
	Transfer writes the payload body to its load address. For BASIC programs,
	it then sets the interpreter's end of program pointers to the end of the
	body, and clears the two bytes following it. Payload writes are retried.
*/
func (l *Loader) Transfer(ctx context.Context, p *program.Payload,
	plan *program.Plan) error {

	if err := l.opts.validate(); err != nil {
		return err
	}

	end := p.End()
	if end > remote.AddressSpace {
		return fmt.Errorf("%w: program ends at $%X", ErrAddressRange, end)
	}

	if plan.Interpreted() && (end < program.BasicStart || end >= 0xfffe) {
		return fmt.Errorf("%w: BASIC program ends at $%04X", ErrAddressRange,
			end)
	}

	if err := l.write(ctx, p.LoadAddress, p.Body); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"start": remote.AddressHex(p.LoadAddress),
		"bytes": len(p.Body),
	}).Debug("payload written")

	if !plan.Interpreted() {
		return nil
	}

	lo, hi := byte(end), byte(end>>8)
	patches := []struct {
		address uint16
		data    []byte
	}{
		{addrVarTab, []byte{lo, hi, lo, hi, lo, hi}},
		{addrLoadEnd, []byte{lo, hi}},
		{uint16(end), []byte{0, 0}},
	}

	for _, pt := range patches {
		if err := l.write(ctx, pt.address, pt.data); err != nil {
			return fmt.Errorf("error patching BASIC pointers: %w", err)
		}
	}

	log.WithField("end", remote.AddressHex(uint16(end))).Debug(
		"BASIC pointers patched")
	return nil
}

// write performs a block write with retries and linear backoff
func (l *Loader) write(ctx context.Context, address uint16,
	data []byte) error {

	var err error

	for attempt := 1; attempt <= l.opts.Retries; attempt++ {

		if err = l.mem.WriteBlock(ctx, address, data); err == nil {
			return nil
		}

		if attempt == l.opts.Retries {
			break
		}

		delay := l.opts.Backoff * time.Duration(attempt)
		log.WithFields(log.Fields{
			"address": remote.AddressHex(address),
			"attempt": attempt,
			"delay":   delay,
			"error":   err,
		}).Warn("write failed, retrying")

		if serr := l.opts.sleep(ctx, delay); serr != nil {
			return serr
		}
	}

	return &retryError{
		address:  address,
		attempts: l.opts.Retries,
		cause:    err,
	}
}

// retryError matches ErrRetriesExhausted and unwraps to the last cause
type retryError struct {
	address  uint16
	attempts int
	cause    error
}

//
func (r *retryError) Error() string {
	return fmt.Sprintf("%v: writing to $%04X failed %d times: %v",
		ErrRetriesExhausted, r.address, r.attempts, r.cause)
}

//
func (r *retryError) Is(target error) bool {
	return target == ErrRetriesExhausted
}

//
func (r *retryError) Unwrap() error {
	return r.cause
}
