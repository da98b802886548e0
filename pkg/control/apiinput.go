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
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"path"
	"strings"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
)

// TypePRG selects a plain program file instead of a disk image
const TypePRG = "prg"

// input is an image or program file sent with a request
type input struct {
	name   string
	data   []byte
	format disk.Format
	prg    bool
}

/*
	getInput reads the image for a request, either from the repository when
	the ref argument is given, or from the request body. The type argument
	names the format; for references it defaults to the file extension. On
	error, a reply has already been sent and nil is returned.
*/
func (a *api) getInput(w http.ResponseWriter, req *http.Request) *input {

	typ := getArg(req, "type")
	ret := &input{}
	var in io.Reader

	if ref := getArg(req, "ref"); ref != "" {
		rc, f, err := a.resolver.Resolve(ref)
		if err != nil {
			handleError(err, http.StatusNotAcceptable, w)
			return nil
		}
		defer rc.Close()
		in = rc
		ret.name = path.Base(ref)
		ret.format = f

	} else {
		in = req.Body
		ret.name = getArg(req, "name")
	}

	data, err := ioutil.ReadAll(io.LimitReader(in, maxBodySize+1))
	if handleError(err, http.StatusInternalServerError, w) {
		return nil
	}
	if len(data) > maxBodySize {
		handleError(fmt.Errorf("image larger than %d bytes", maxBodySize),
			http.StatusRequestEntityTooLarge, w)
		return nil
	}
	ret.data = data

	switch {
	case strings.ToLower(typ) == TypePRG:
		ret.prg = true
	case typ != "":
		f, err := disk.ParseFormat(typ)
		if handleError(err, http.StatusUnprocessableEntity, w) {
			return nil
		}
		ret.format = f
	case ret.format == 0:
		handleError(fmt.Errorf("image type missing"),
			http.StatusUnprocessableEntity, w)
		return nil
	}

	return ret
}
