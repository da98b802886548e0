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
	"fmt"

	log "github.com/sirupsen/logrus"
)

//
const payloadPerSector = SectorSize - 2

/*
	ReadChain follows the data chain starting at sector start and returns the
	concatenated file content, without link bytes. In the last sector of a
	chain, the link track is 0 and the link sector gives the number of valid
	bytes. Values outside of 1 through 254 are taken as 254.
*/
func ReadChain(image []byte, l *Layout, start SectorRef) ([]byte, error) {

	var ret []byte
	visited := map[SectorRef]bool{}

	for ref := start; ref.Track != 0; {

		if visited[ref] {
			return nil, fmt.Errorf("%w: data chain links back to %s",
				ErrLoopDetected, ref)
		}
		visited[ref] = true

		sec, err := ReadSector(image, l, ref)
		if err != nil {
			return nil, fmt.Errorf("error reading data sector: %w", err)
		}

		next := link(sec)

		if next.Track == 0 {
			used := next.Sector
			if used < 1 || used > payloadPerSector {
				log.WithFields(log.Fields{
					"sector": ref, "used": used}).Debug("clamping used bytes")
				used = payloadPerSector
			}
			ret = append(ret, sec[2:2+used]...)
			break
		}

		ret = append(ret, sec[2:]...)
		ref = next
	}

	log.WithFields(log.Fields{
		"start": start, "sectors": len(visited), "bytes": len(ret),
	}).Debug("data chain read")

	return ret, nil
}
