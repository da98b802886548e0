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
	"bufio"
	"context"
	"fmt"

	"github.com/xelalexv/diskrun/pkg/ram"
)

//
const maxMismatchesShown = 16

//
func NewMem() *Mem {

	m := &Mem{}
	m.Runner = *NewRunner(
		"mem {dump|restore|verify} -t|--target {target} [-f|--file {file}] [-y|--yes]",
		"dump, restore or verify target memory",
		`
Use the mem command to work with the complete 64KiB memory of the target.
The target is paused while its memory is accessed.

  dump     read memory into a file
  restore  write a memory file back to the target
  verify   write a test pattern, read it back, and compare; the I/O area
           $D000-$DFFF is not compared`,
		"", `- restore and verify overwrite the target's memory, you will be asked to
  confirm unless --yes is given.

`+runnerHelpEpilogue, m.Run)

	m.AddTargetSettings()
	m.AddSetting(&m.File, "file", "f", false, "ram.bin",
		"memory file for dump and restore", false)
	m.AddSetting(&m.Yes, "yes", "y", false, false,
		"do not ask for confirmation", false)

	return m
}

//
type Mem struct {
	//
	Runner
	//
	File string
	Yes  bool
}

//
func (m *Mem) Run() error {

	if err := m.ParseSettings(); err != nil {
		return err
	}

	if len(m.Args) != 1 {
		return fmt.Errorf("need exactly one of dump, restore, or verify")
	}

	ctx := context.Background()
	target := m.ultimate()

	switch m.Args[0] {

	case "dump":
		f, err := fs.Create(m.File)
		if err != nil {
			return err
		}
		w := bufio.NewWriter(f)
		if err := ram.Dump(ctx, target, w); err != nil {
			f.Close()
			return err
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("memory written to %s\n", m.File)

	case "restore":
		if !m.confirm() {
			return nil
		}
		f, err := fs.Open(m.File)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := ram.Restore(ctx, target, bufio.NewReader(f)); err != nil {
			return err
		}
		fmt.Printf("memory restored from %s\n", m.File)

	case "verify":
		if !m.confirm() {
			return nil
		}
		mm, err := ram.Verify(ctx, target)
		if err != nil {
			return err
		}
		if len(mm) == 0 {
			fmt.Println("memory verified, no mismatches")
			return nil
		}
		for ix, x := range mm {
			if ix == maxMismatchesShown {
				fmt.Printf("...\n")
				break
			}
			fmt.Println(x)
		}
		return fmt.Errorf("%d mismatches", len(mm))

	default:
		return fmt.Errorf("unknown mem action: %s", m.Args[0])
	}

	return nil
}

//
func (m *Mem) confirm() bool {
	return m.Yes || GetUserConfirmation(
		"This overwrites the target's memory. Continue?")
}
