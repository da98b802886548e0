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
	"fmt"
	"io/ioutil"
	"os"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
	"github.com/xelalexv/diskrun/pkg/repo"
)

//
func NewList() *List {

	l := &List{}
	l.Runner = *NewRunner(
		"ls [-i|--input {image|repo ref}] [--type {type}] [-a|--address {address}]",
		"list directory of a disk image, or images in repository",
		`
Use the ls command to list the directory of a disk image. For a local file,
this does not need the daemon. For a repository reference, the daemon reads
the image from its repository. Without input, the daemon's repository is
listed.`,
		"", runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddSetting(&l.Input, "input", "i", false, nil,
		"disk image file or repository reference", false)
	l.AddSetting(&l.Type, "type", "", false, nil,
		"image type, derived from file extension if omitted", false)

	return l
}

//
type List struct {
	//
	Runner
	//
	Input string
	Type  string
}

//
func (l *List) Run() error {

	if err := l.ParseSettings(); err != nil {
		return err
	}

	switch {

	case l.Input == "":
		resp, err := l.apiCall("GET", "/repo", false, nil)
		if err != nil {
			return err
		}
		defer resp.Close()
		list, err := ioutil.ReadAll(resp)
		if err != nil {
			return err
		}
		fmt.Printf("%s", list)
		return nil

	case repo.IsReference(l.Input):
		return l.sendToDaemon("/directory", l.Input, l.Type)

	default:
		img, err := readImage(l.Input, l.Type)
		if err != nil {
			return err
		}
		entries, err := img.Directory()
		if err != nil {
			return err
		}
		fmt.Printf("\n%s: %s\n", l.Input, img.Layout())
		disk.List(os.Stdout, entries)
		fmt.Println()
		return nil
	}
}
