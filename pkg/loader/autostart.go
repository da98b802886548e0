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

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/diskrun/pkg/remote"
)

// keyboard buffer of the C64 kernal
const (
	addrKeyCount  = 0x00c6
	addrKeyBuffer = 0x0277
	KeyBufferSize = 10
)

/*
	Autostart types seq on the target's keyboard. It waits until the keyboard
	buffer is empty, then places seq into the buffer and sets the buffer's
	length. Read and write errors are returned as they are.
*/
func (l *Loader) Autostart(ctx context.Context, seq []byte) error {

	if err := l.opts.validate(); err != nil {
		return err
	}

	if len(seq) > KeyBufferSize {
		return fmt.Errorf("%w: %d bytes, at most %d allowed",
			ErrCommandTooLong, len(seq), KeyBufferSize)
	}

	for attempt := 1; attempt <= l.opts.PollAttempts; attempt++ {

		count, err := l.mem.ReadBlock(ctx, addrKeyCount, 1)
		if err != nil {
			return fmt.Errorf("error polling keyboard buffer: %w", err)
		}
		if len(count) != 1 {
			return fmt.Errorf("error polling keyboard buffer: got %d bytes",
				len(count))
		}

		if count[0] == 0 {
			if err := l.mem.WriteBlock(ctx, addrKeyBuffer, seq); err != nil {
				return fmt.Errorf("error filling keyboard buffer: %w", err)
			}
			if err := l.mem.WriteBlock(
				ctx, addrKeyCount, []byte{byte(len(seq))}); err != nil {
				return fmt.Errorf("error setting keyboard buffer length: %w",
					err)
			}
			log.WithFields(log.Fields{
				"command": string(seq), "polls": attempt}).Debug("autostarted")
			return nil
		}

		log.WithFields(log.Fields{
			"pending": count[0],
			"address": remote.AddressHex(addrKeyCount),
		}).Trace("keyboard buffer busy")

		if attempt < l.opts.PollAttempts {
			if err := l.opts.sleep(ctx, l.opts.PollInterval); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%w after %d polls", ErrBufferBusy, l.opts.PollAttempts)
}
