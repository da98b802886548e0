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
	"bytes"
	"fmt"
	"net/http"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
)

//
func (a *api) directory(w http.ResponseWriter, req *http.Request) {

	in := a.getInput(w, req)
	if in == nil {
		return
	}

	if in.prg {
		handleError(fmt.Errorf("program files have no directory"),
			http.StatusUnprocessableEntity, w)
		return
	}

	img, err := disk.NewImage(in.format, in.data)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	entries, err := img.Directory()
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if wantsJSON(req) {
		list := make([]*File, 0, len(entries))
		for _, e := range entries {
			list = append(list, newFile(e))
		}
		sendJSONReply(list, http.StatusOK, w)
		return
	}

	var out bytes.Buffer
	disk.List(&out, entries)
	sendReply(out.Bytes(), http.StatusOK, w)
}

// File is a directory entry as reported by the API
type File struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Blocks  int    `json:"blocks"`
	Start   string `json:"start"`
	Program bool   `json:"program"`
}

//
func newFile(e *disk.DirEntry) *File {
	return &File{
		Name:    e.Name(),
		Type:    e.TypeName(),
		Blocks:  e.Blocks,
		Start:   e.Start.String(),
		Program: e.IsProgram(),
	}
}
