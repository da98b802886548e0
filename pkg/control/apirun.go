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

package control

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
	"github.com/xelalexv/diskrun/pkg/cbm/program"
	"github.com/xelalexv/diskrun/pkg/daemon"
	"github.com/xelalexv/diskrun/pkg/loader"
)

//
func (a *api) run(w http.ResponseWriter, req *http.Request) {

	in := a.getInput(w, req)
	if in == nil {
		return
	}

	var opts []daemon.RunOption
	if isFlagSet(req, "no-reset") {
		opts = append(opts, daemon.WithoutReset())
	}

	var res *loader.Result
	var err error

	if in.prg {
		res, err = a.daemon.RunProgram(req.Context(), in.name, in.data, opts...)
	} else {
		res, err = a.daemon.Run(req.Context(), in.data, in.format, opts...)
	}

	if handleError(err, statusFor(err), w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(res, http.StatusOK, w)
	} else {
		sendReply([]byte(fmt.Sprintf("started %s", res)), http.StatusOK, w)
	}
}

// statusFor maps errors of the load pipeline to reply codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, daemon.ErrBusy):
		return http.StatusLocked
	case errors.Is(err, disk.ErrNoProgram) && !errors.Is(err, disk.ErrLoopDetected):
		return http.StatusNotFound
	case errors.Is(err, disk.ErrUnsupportedFormat),
		errors.Is(err, disk.ErrUnsupportedSize),
		errors.Is(err, disk.ErrInvalidTrack),
		errors.Is(err, disk.ErrInvalidSector),
		errors.Is(err, disk.ErrShortSector),
		errors.Is(err, disk.ErrLoopDetected),
		errors.Is(err, program.ErrProgramTooSmall),
		errors.Is(err, loader.ErrAddressRange),
		errors.Is(err, loader.ErrCommandTooLong):
		return http.StatusUnprocessableEntity
	case errors.Is(err, loader.ErrInvalidSettings):
		return http.StatusInternalServerError
	case errors.Is(err, loader.ErrBufferBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
