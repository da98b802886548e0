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

package raw

import (
	"bytes"
	"testing"
)

var testIndex = map[string][2]int{
	"type":   {0, 1},
	"name":   {1, 4},
	"word":   {5, 2},
	"beyond": {6, 4},
}

func TestBlock(t *testing.T) {

	b := NewBlock(testIndex, []byte{0x82, 'A', 'B', 'C', 'D', 0x34, 0x12})

	if got := b.GetByte("type"); got != 0x82 {
		t.Errorf("GetByte() = %#x, want 0x82", got)
	}
	if got := b.GetByte("name"); got != 0 {
		t.Errorf("GetByte() on multi byte field = %#x, want 0", got)
	}
	if got := b.GetSlice("name"); string(got) != "ABCD" {
		t.Errorf("GetSlice() = %q, want %q", got, "ABCD")
	}
	if got := b.GetWord("word"); got != 0x1234 {
		t.Errorf("GetWord() = %#x, want 0x1234", got)
	}
	if got := b.GetWord("name"); got != -1 {
		t.Errorf("GetWord() on 4 byte field = %d, want -1", got)
	}
	if got := b.GetSlice("beyond"); !bytes.Equal(got, []byte{}) {
		t.Errorf("GetSlice() outside data = %v, want empty", got)
	}
	if got := b.GetSlice("unknown"); len(got) != 0 {
		t.Errorf("GetSlice() unknown field = %v, want empty", got)
	}
}
