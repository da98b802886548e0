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

package program

import (
	"errors"
	"fmt"
)

//
var ErrProgramTooSmall = errors.New("extracted program too small")

// Payload is a program file split into its load address and body.
type Payload struct {
	LoadAddress uint16
	Body        []byte
}

// NewPayload splits raw program file content. The first two bytes are the
// little-endian load address.
func NewPayload(data []byte) (*Payload, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrProgramTooSmall, len(data))
	}
	return &Payload{
		LoadAddress: uint16(data[0]) | uint16(data[1])<<8,
		Body:        data[2:],
	}, nil
}

// End returns the address right after the last body byte. This may exceed
// the 16 bit address space.
func (p *Payload) End() int {
	return int(p.LoadAddress) + len(p.Body)
}

//
func (p *Payload) String() string {
	return fmt.Sprintf("$%04X-$%04X (%d bytes)", p.LoadAddress, p.End(),
		len(p.Body))
}
