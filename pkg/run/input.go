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

package run

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
	"github.com/xelalexv/diskrun/pkg/control"
	"github.com/xelalexv/diskrun/pkg/repo"
)

// largest image or program file accepted
const maxInputSize = 1048576

// readInput reads a local image or program file
func readInput(file string) ([]byte, error) {

	f, err := fs.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ioutil.ReadAll(io.LimitReader(f, maxInputSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxInputSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", file, maxInputSize)
	}
	return data, nil
}

// readImage reads a local disk image, format is derived from the extension
// unless typ is given
func readImage(file, typ string) (*disk.Image, error) {

	if typ == "" {
		typ = getExtension(file)
	}
	f, err := disk.ParseFormat(typ)
	if err != nil {
		return nil, err
	}

	data, err := readInput(file)
	if err != nil {
		return nil, err
	}
	return disk.NewImage(f, data)
}

//
func isProgram(file, typ string) bool {
	if typ == "" {
		typ = getExtension(file)
	}
	return strings.ToLower(typ) == control.TypePRG
}

/*
	sendToDaemon sends a local file, or a repository reference, to the daemon
	API at path and prints the reply. args are additional query argument
	name/value pairs, pairs with empty value are left out.
*/
func (r *Runner) sendToDaemon(path, input, typ string, args ...string) error {

	var q string
	var body io.Reader

	if repo.IsReference(input) {
		q = query(append([]string{"ref", input, "type", typ}, args...)...)

	} else {
		if typ == "" {
			typ = getExtension(input)
		}
		data, err := readInput(input)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		q = query(append([]string{"type", typ, "name", strings.TrimSuffix(
			filepath.Base(input), "."+getExtension(input))}, args...)...)
	}

	resp, err := r.apiCall("PUT", path+q, false, body)
	if err != nil {
		return err
	}
	defer resp.Close()

	msg, err := ioutil.ReadAll(resp)
	if err != nil {
		return err
	}

	fmt.Printf("%s", msg)
	return nil
}
