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

import "errors"

// remote I/O
var ErrRetriesExhausted = errors.New("retries exhausted")

// policy errors; retrying cannot change the outcome
var (
	ErrAddressRange    = errors.New("address out of safe range")
	ErrCommandTooLong  = errors.New("command exceeds keyboard buffer")
	ErrInvalidSettings = errors.New("invalid loader settings")
)

//
var ErrBufferBusy = errors.New("keyboard buffer remained busy")
