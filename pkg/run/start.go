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
	"context"
	"fmt"
	"path/filepath"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
	"github.com/xelalexv/diskrun/pkg/loader"
)

//
func NewStart() *Start {

	s := &Start{}
	s.Runner = *NewRunner(
		"run -i|--input {file} -t|--target {target} [--type {type}] [-n|--no-reset]",
		"run an image or program directly on the target",
		`
Use the run command to start the first program of a disk image, or a program
file, on the target C64 Ultimate without going through the daemon.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddTargetSettings()
	s.AddLoaderSettings()
	s.AddSetting(&s.Input, "input", "i", false, nil,
		"image or program file", true)
	s.AddSetting(&s.Type, "type", "", false, nil,
		"input type, derived from file extension if omitted", false)

	return s
}

//
type Start struct {
	//
	Runner
	//
	Input string
	Type  string
}

//
func (s *Start) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	l := loader.New(s.ultimate(), s.loaderOptions())
	ctx := context.Background()

	var res *loader.Result

	if isProgram(s.Input, s.Type) {
		data, err := readInput(s.Input)
		if err != nil {
			return err
		}
		name := filepath.Base(s.Input)
		name = name[:len(name)-len(filepath.Ext(name))]
		if res, err = l.LoadProgram(ctx, name, data); err != nil {
			return err
		}

	} else {
		typ := s.Type
		if typ == "" {
			typ = getExtension(s.Input)
		}
		f, err := disk.ParseFormat(typ)
		if err != nil {
			return err
		}
		data, err := readInput(s.Input)
		if err != nil {
			return err
		}
		if res, err = l.LoadFirstProgram(ctx, data, f); err != nil {
			return err
		}
	}

	fmt.Printf("started %s\n", res)
	return nil
}
