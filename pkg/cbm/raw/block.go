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

/*
	Block gives named access to the fields of a fixed layout byte structure,
	such as a directory slot. The index maps a field name to its offset and
	length within the data.
*/
type Block struct {
	index map[string][2]int
	Data  []byte
}

//
func NewBlock(index map[string][2]int, data []byte) *Block {
	return &Block{index: index, Data: data}
}

//
func (b *Block) GetByte(key string) byte {
	if ix, ok := b.index[key]; ok {
		if 0 <= ix[0] && ix[0] < len(b.Data) && ix[1] == 1 {
			return b.Data[ix[0]]
		}
	}
	return 0
}

// GetSlice returns the bytes of field key, or an empty slice if the field is
// unknown or lies outside of the data.
func (b *Block) GetSlice(key string) []byte {
	if ix, ok := b.index[key]; ok {
		start := ix[0]
		end := start + ix[1]
		if 0 <= start && end <= len(b.Data) {
			return b.Data[start:end]
		}
	}
	return []byte{}
}

// GetWord reads a two byte little-endian field, -1 if not available.
func (b *Block) GetWord(key string) int {
	bytes := b.GetSlice(key)
	if len(bytes) != 2 {
		return -1
	}
	return int(bytes[0]) | (int(bytes[1]) << 8)
}
