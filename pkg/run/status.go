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
)

//
func NewStatus() *Status {

	s := &Status{}
	s.Runner = *NewRunner(
		"status [-a|--address {address}]",
		"get daemon status",
		"\nUse the status command to get the daemon's status, and what it last ran.",
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()

	return s
}

//
type Status struct {
	Runner
}

//
func (s *Status) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	resp, err := s.apiCall("GET", "/status", false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	status, err := ioutil.ReadAll(resp)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", status)
	return nil
}
