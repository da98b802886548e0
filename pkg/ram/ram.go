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
	Package ram dumps, restores and verifies the complete memory of a remote
	machine. The machine is paused while its memory is accessed.
*/
package ram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/diskrun/pkg/remote"
)

//
const (
	Size      = remote.AddressSpace
	BlockSize = 4096
	// reads from this range return I/O register values rather than RAM
	IOStart = 0xd000
	IOEnd   = 0xe000
)

//
var (
	ErrSize      = errors.New("RAM image must be exactly 64KiB")
	ErrShortRead = errors.New("short read")
)

// Target is a remote machine whose memory can be accessed while paused.
type Target interface {
	remote.Memory
	remote.Machine
}

// Dump reads the complete memory of t in BlockSize blocks and writes it to
// out.
func Dump(ctx context.Context, t Target, out io.Writer) error {
	return paused(ctx, t, func() error {
		start := time.Now()
		data, err := readAll(ctx, t)
		if err != nil {
			return err
		}
		log.WithField("duration", time.Since(start)).Info("RAM read")
		_, err = out.Write(data)
		return err
	})
}

// Restore writes a 64KiB memory image read from in to t, starting at $0000.
func Restore(ctx context.Context, t Target, in io.Reader) error {

	data := make([]byte, Size)
	if _, err := io.ReadFull(in, data); err != nil {
		return fmt.Errorf("%w: %v", ErrSize, err)
	}
	if n, _ := in.Read(make([]byte, 1)); n > 0 {
		return fmt.Errorf("%w: input is larger", ErrSize)
	}

	return paused(ctx, t, func() error {
		start := time.Now()
		if err := t.WriteBlock(ctx, 0, data); err != nil {
			return err
		}
		log.WithField("duration", time.Since(start)).Info("RAM written")
		return nil
	})
}

// Mismatch is a difference found during verification.
type Mismatch struct {
	Address int
	Want    byte
	Got     byte
}

//
func (m Mismatch) String() string {
	return fmt.Sprintf("$%04X: want %02X, got %02X", m.Address, m.Want, m.Got)
}

// Pattern returns the verification pattern, where each byte holds the low
// byte of its address.
func Pattern() []byte {
	ret := make([]byte, Size)
	for ix := range ret {
		ret[ix] = byte(ix)
	}
	return ret
}

/*
	Verify writes Pattern to t, reads memory back, and compares. The I/O area
	is excluded from comparison. Note that this overwrites the target's
	memory.
*/
func Verify(ctx context.Context, t Target) ([]Mismatch, error) {

	var ret []Mismatch
	want := Pattern()

	err := paused(ctx, t, func() error {
		if err := t.WriteBlock(ctx, 0, want); err != nil {
			return err
		}
		got, err := readAll(ctx, t)
		if err != nil {
			return err
		}
		ret = Compare(want, got)
		return nil
	})

	return ret, err
}

// Compare lists the differences between want and got, skipping the I/O area.
func Compare(want, got []byte) []Mismatch {
	var ret []Mismatch
	for ix := 0; ix < len(want) && ix < len(got); ix++ {
		if IOStart <= ix && ix < IOEnd {
			continue
		}
		if want[ix] != got[ix] {
			ret = append(ret, Mismatch{Address: ix, Want: want[ix], Got: got[ix]})
		}
	}
	return ret
}

//
func readAll(ctx context.Context, t Target) ([]byte, error) {
	ret := make([]byte, 0, Size)
	for addr := 0; addr < Size; addr += BlockSize {
		block, err := t.ReadBlock(ctx, uint16(addr), BlockSize)
		if err != nil {
			return nil, err
		}
		if len(block) != BlockSize {
			return nil, fmt.Errorf("%w at $%04X: got %d bytes", ErrShortRead,
				addr, len(block))
		}
		ret = append(ret, block...)
	}
	return ret, nil
}

// paused runs do while t is paused, and resumes t afterwards even if do fails
func paused(ctx context.Context, t Target, do func() error) (err error) {

	log.Debug("pausing target")
	if err = t.Pause(ctx); err != nil {
		return fmt.Errorf("error pausing target: %w", err)
	}

	defer func() {
		log.Debug("resuming target")
		if rerr := t.Resume(ctx); rerr != nil && err == nil {
			err = fmt.Errorf("error resuming target: %w", rerr)
		}
	}()

	return do()
}
