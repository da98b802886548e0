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

package program

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// BasicStart is where BASIC programs live on a C64
const BasicStart = 0x0801

// MaxScanLines caps the BASIC structure scan. A BASIC line takes at least
// five bytes, so no program that fits into BASIC memory comes close.
const MaxScanLines = 10000

// Kind is the outcome of classifying a program
type Kind int

const (
	Native Kind = iota
	Interpreted
	// Ambiguous programs load at BasicStart, but their body does not look
	// like tokenized BASIC. They get treated like native programs.
	Ambiguous
)

//
func (k Kind) String() string {

	switch k {

	case Native:
		return "native"

	case Interpreted:
		return "basic"

	case Ambiguous:
		return "ambiguous"

	default:
		return "<unknown>"
	}
}

// Plan says where a program goes and how it is started.
type Plan struct {
	LoadAddress uint16
	// End is the exclusive end address; it is only meaningful for BASIC
	// programs
	End  int
	Kind Kind
}

//
func (p *Plan) Interpreted() bool {
	return p.Kind == Interpreted
}

//
func (p *Plan) String() string {
	return fmt.Sprintf("%s program at $%04X-$%04X", p.Kind, p.LoadAddress, p.End)
}

// Classify determines whether a payload is a tokenized BASIC program or
// machine code.
func Classify(p *Payload) *Plan {

	ret := &Plan{LoadAddress: p.LoadAddress, End: p.End(), Kind: Native}

	if p.LoadAddress == BasicStart {
		if lines, ok := scanBasic(p.Body); ok {
			ret.Kind = Interpreted
			log.WithField("lines", lines).Debug("BASIC structure found")
		} else {
			ret.Kind = Ambiguous
			log.Debug("loads at BASIC start, but is not tokenized BASIC")
		}
	}

	return ret
}

/*
	scanBasic walks the line structure of a tokenized BASIC program. Each line
	starts with a two byte pointer to the next line and a two byte line number,
	followed by the tokenized text and a terminating 0. A next line pointer of
	0 ends the program. Returns the number of lines found and whether the body
	has a valid structure.
*/
func scanBasic(body []byte) (int, bool) {

	pos := 0

	for lines := 0; lines <= MaxScanLines; lines++ {

		if pos+2 > len(body) {
			return lines, false
		}
		if body[pos] == 0 && body[pos+1] == 0 {
			return lines, true
		}

		if pos+4 > len(body) {
			return lines, false
		}
		if body[pos+2] == 0 && body[pos+3] == 0 {
			return lines, false
		}

		end := pos + 4
		for end < len(body) && body[end] != 0 {
			end++
		}
		if end >= len(body) {
			return lines, false
		}

		pos = end + 1
	}

	log.WithField("cap", MaxScanLines).Warn("BASIC scan exceeded line cap")
	return MaxScanLines, false
}
