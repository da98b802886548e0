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
	"strings"

	"github.com/spf13/afero"

	"github.com/xelalexv/diskrun/pkg/cbm/program"
)

//
func NewExtract() *Extract {

	e := &Extract{}
	e.Runner = *NewRunner(
		"extract -i|--input {image} [-o|--output {file}] [--type {type}]",
		"extract first program from a disk image",
		`
Use the extract command to write the first program found on a disk image to
a program file. This is the program that the run and load commands would
start.`,
		"", `- When no output file is given, the program is written to {name}.prg in
  the current directory, with {name} being the program's name on the disk.

`+runnerHelpEpilogue, e.Run)

	e.AddSetting(&e.Input, "input", "i", false, nil, "disk image file", true)
	e.AddSetting(&e.Output, "output", "o", false, nil, "output file", false)
	e.AddSetting(&e.Type, "type", "", false, nil,
		"image type, derived from file extension if omitted", false)

	return e
}

//
type Extract struct {
	//
	Runner
	//
	Input  string
	Output string
	Type   string
}

//
func (e *Extract) Run() error {

	if err := e.ParseSettings(); err != nil {
		return err
	}

	img, err := readImage(e.Input, e.Type)
	if err != nil {
		return err
	}

	entry, data, err := img.ExtractFirstProgram()
	if err != nil {
		return err
	}

	p, err := program.NewPayload(data)
	if err != nil {
		return err
	}

	out := e.Output
	if out == "" {
		out = fileName(entry.Name()) + ".prg"
	}

	if err := afero.WriteFile(fs, out, data, 0644); err != nil {
		return err
	}

	fmt.Printf("extracted '%s', %s, %s\n", entry.Name(),
		program.Classify(p).Kind, p)
	fmt.Printf("written to %s\n", out)
	return nil
}

// fileName turns a program name into something usable as a file name
func fileName(name string) string {
	ret := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9', r == '-', r == '.':
			return r
		case 'A' <= r && r <= 'Z':
			return r - 'A' + 'a'
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
	if ret == "" || strings.Trim(ret, ".") == "" {
		return "program"
	}
	return ret
}
