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

//
func NewLoad() *Load {

	l := &Load{}
	l.Runner = *NewRunner(
		"load -i|--input {file|repo ref} [--type {type}] [-n|--no-reset] [-a|--address {address}]",
		"have daemon run an image or program",
		`
Use the load command to send a disk image or program file to the daemon,
which then starts it on the target. Instead of a local file, you can name
an image in the daemon's repository as repo://{path}.`,
		"", `- The type is derived from the file extension if not given. Supported
  types are d64, d71, d81 and prg.

`+runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddSetting(&l.Input, "input", "i", false, nil,
		"image or program file, or repository reference", true)
	l.AddSetting(&l.Type, "type", "", false, nil, "input type", false)
	l.AddSetting(&l.NoReset, "no-reset", "n", true, false,
		"do not reset target before loading", false)

	return l
}

//
type Load struct {
	//
	Runner
	//
	Input string
	Type  string
}

//
func (l *Load) Run() error {
	if err := l.ParseSettings(); err != nil {
		return err
	}
	noReset := ""
	if l.NoReset {
		noReset = "true"
	}
	return l.sendToDaemon("/run", l.Input, l.Type, "no-reset", noReset)
}
