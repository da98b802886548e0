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

package disk

import (
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/diskrun/pkg/cbm/raw"
)

//
const (
	SlotsPerSector = 8
	slotSize       = 32
	slotBase       = 2
	nameLength     = 16
)

// file type codes, low 3 bits of the type byte
const (
	TypeDEL = 0x00
	TypeSEQ = 0x01
	TypePRG = 0x02
	TypeUSR = 0x03
	TypeREL = 0x04
)

//
const (
	flagClosed = 0x80
	flagLocked = 0x40
	typeMask   = 0x07
)

/*
	Slots are 32 bytes apart, starting right after the sector link. The link
	bytes of all but the first slot are unused, so the fields of a slot span
	30 bytes, and the last slot in a sector ends exactly at the sector end.
*/
var slotIndex = map[string][2]int{
	"type":   {0, 1},
	"track":  {1, 1},
	"sector": {2, 1},
	"name":   {3, nameLength},
	"blocks": {28, 2},
}

// DirEntry is the decoded view of one directory slot.
type DirEntry struct {
	Type   byte
	Start  SectorRef
	Raw    [nameLength]byte
	Blocks int
}

//
func newDirEntry(slot []byte) *DirEntry {
	b := raw.NewBlock(slotIndex, slot)
	e := &DirEntry{
		Type: b.GetByte("type"),
		Start: SectorRef{
			Track:  int(b.GetByte("track")),
			Sector: int(b.GetByte("sector")),
		},
		Blocks: b.GetWord("blocks"),
	}
	copy(e.Raw[:], b.GetSlice("name"))
	return e
}

// Name returns the file name with shifted space padding removed.
func (e *DirEntry) Name() string {
	return DecodeName(e.Raw[:])
}

// IsProgram determines whether this entry is a directly loadable program.
func (e *DirEntry) IsProgram() bool {
	return e.Type != 0 && e.Start.Track != 0 && e.Type&typeMask == TypePRG
}

//
func (e *DirEntry) TypeName() string {

	var ret string

	switch e.Type & typeMask {
	case TypeDEL:
		ret = "DEL"
	case TypeSEQ:
		ret = "SEQ"
	case TypePRG:
		ret = "PRG"
	case TypeUSR:
		ret = "USR"
	case TypeREL:
		ret = "REL"
	default:
		ret = "???"
	}

	if e.Type&flagClosed == 0 {
		ret = "*" + ret
	}
	if e.Type&flagLocked != 0 {
		ret += "<"
	}
	return ret
}

//
func (e *DirEntry) String() string {
	return fmt.Sprintf("%-5d %-18s %s", e.Blocks, `"`+e.Name()+`"`, e.TypeName())
}

/*
	DecodeName turns a raw directory name into a string. Names are padded with
	shifted spaces (0xa0). PETSCII $20-$5B and $5D match ASCII, while $5C, $5E
	and $5F become their pound and arrow glyphs. Bytes without a printable
	counterpart become '?'.
*/
func DecodeName(raw []byte) string {
	var sb strings.Builder
	for _, c := range raw {
		if c == 0xa0 {
			break
		}
		sb.WriteRune(petsciiRune(c))
	}
	return strings.TrimSpace(sb.String())
}

//
func petsciiRune(c byte) rune {
	switch {
	case c == 0x5c:
		return '£'
	case c == 0x5e:
		return '↑'
	case c == 0x5f:
		return '←'
	case 0x20 <= c && c < 0x60:
		return rune(c)
	}
	return '?'
}

/*
	walkDirectory follows the directory chain and calls visit for every slot
	with a non-zero type byte, in chain order. When visit returns true, the
	walk stops and the entry is returned. A chain that links back to a sector
	already visited ends the walk.
*/
func walkDirectory(image []byte, l *Layout,
	visit func(e *DirEntry) bool) (*DirEntry, error) {

	visited := map[SectorRef]bool{}

	for ref := l.Directory(); ref.Track != 0; {

		if visited[ref] {
			log.WithField("sector", ref).Warn("directory chain loops")
			return nil, &directoryLoop{at: ref}
		}
		visited[ref] = true

		sec, err := ReadSector(image, l, ref)
		if err != nil {
			return nil, fmt.Errorf("error reading directory sector: %w", err)
		}

		log.WithField("sector", ref).Trace("directory sector")

		for ix := 0; ix < SlotsPerSector; ix++ {
			start := slotBase + ix*slotSize
			e := newDirEntry(sec[start:])
			if e.Type == 0 {
				continue
			}
			if visit(e) {
				return e, nil
			}
		}

		ref = link(sec)
	}

	return nil, ErrNoProgram
}

/*
	FirstProgram returns the first directory entry that is a directly loadable
	program. Slots are scanned in order within a sector, and sectors in chain
	order.
*/
func FirstProgram(image []byte, l *Layout) (*DirEntry, error) {
	return walkDirectory(image, l, func(e *DirEntry) bool {
		return e.IsProgram()
	})
}

// Directory returns all used directory entries.
func Directory(image []byte, l *Layout) ([]*DirEntry, error) {

	var ret []*DirEntry

	_, err := walkDirectory(image, l, func(e *DirEntry) bool {
		ret = append(ret, e)
		return false
	})

	// the directory walk ends either at the chain end or at a loop, both
	// are fine for a listing
	if errors.Is(err, ErrNoProgram) {
		err = nil
	}
	return ret, err
}

// List writes a directory listing.
func List(w io.Writer, entries []*DirEntry) {
	io.WriteString(w, "\nBLOCKS NAME               TYPE\n")
	for _, e := range entries {
		io.WriteString(w, fmt.Sprintf(" %s\n", e.String()))
	}
}
