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

package remote

import (
	"context"
	"errors"
	"fmt"
)

// AddressSpace is the size of the target's address space
const AddressSpace = 0x10000

//
var ErrAddressSpace = errors.New("access beyond address space")

//go:generate mockgen -source=memory.go -destination=mock/memory.go -package=mock

// Memory gives access to the address space of a remote machine. Both calls
// block until the remote side has completed the request.
type Memory interface {
	WriteBlock(ctx context.Context, address uint16, data []byte) error
	ReadBlock(ctx context.Context, address uint16, length int) ([]byte, error)
}

// Machine controls the execution state of a remote machine.
type Machine interface {
	Reset(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
}

// AddressHex renders an address the way the remote API expects it.
func AddressHex(address uint16) string {
	return fmt.Sprintf("%04X", address)
}

//
func checkRange(address uint16, length int) error {
	if length < 0 || int(address)+length > AddressSpace {
		return fmt.Errorf("%w: $%04X + %d bytes", ErrAddressSpace, address,
			length)
	}
	return nil
}
