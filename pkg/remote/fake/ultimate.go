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

// Package fake provides a stand-in for the REST API of a C64 Ultimate, for
// use in tests. It keeps a 64KiB memory image that the API reads and writes.
package fake

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//
type Ultimate struct {
	mu  sync.Mutex
	ram [0x10000]byte
	//
	Password string
	// FailWrites makes that many upcoming write requests fail with 503
	FailWrites int
	// IORegister, when set, makes reads from $D000-$DFFF return this value
	// instead of RAM content, like I/O registers on the real machine
	IORegister *byte
	//
	Writes  []string
	Resets  int
	Pauses  int
	Resumes int
}

//
func New() *Ultimate {
	return &Ultimate{}
}

//
func (u *Ultimate) Handler() http.Handler {

	r := mux.NewRouter()

	r.Methods("PUT").Path("/v1/machine:writemem").
		Queries("address", "{address}", "data", "{data}").
		HandlerFunc(u.writeHex)
	r.Methods("POST").Path("/v1/machine:writemem").
		Queries("address", "{address}").HandlerFunc(u.writeBinary)
	r.Methods("GET").Path("/v1/machine:readmem").
		Queries("address", "{address}", "length", "{length}").
		HandlerFunc(u.read)
	r.Methods("PUT").Path("/v1/machine:reset").HandlerFunc(
		u.count(&u.Resets))
	r.Methods("PUT").Path("/v1/machine:pause").HandlerFunc(
		u.count(&u.Pauses))
	r.Methods("PUT").Path("/v1/machine:resume").HandlerFunc(
		u.count(&u.Resumes))

	return u.auth(r)
}

// Peek returns a copy of length bytes at address.
func (u *Ultimate) Peek(address, length int) []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	ret := make([]byte, length)
	copy(ret, u.ram[address:])
	return ret
}

// Poke sets memory content at address.
func (u *Ultimate) Poke(address int, data ...byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	copy(u.ram[address:], data)
}

//
func (u *Ultimate) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u.Password != "" && r.Header.Get("X-Password") != u.Password {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

//
func (u *Ultimate) count(c *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		*c++
		u.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

//
func (u *Ultimate) writeHex(w http.ResponseWriter, r *http.Request) {
	data, err := hex.DecodeString(mux.Vars(r)["data"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	u.write(w, r, data)
}

//
func (u *Ultimate) writeBinary(w http.ResponseWriter, r *http.Request) {
	data, err := ioutil.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	u.write(w, r, data)
}

//
func (u *Ultimate) write(w http.ResponseWriter, r *http.Request, data []byte) {

	addr, err := address(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.FailWrites > 0 {
		u.FailWrites--
		http.Error(w, "busy", http.StatusServiceUnavailable)
		return
	}

	if addr+len(data) > len(u.ram) {
		http.Error(w, "out of range", http.StatusBadRequest)
		return
	}

	log.WithFields(log.Fields{
		"address": addr, "length": len(data)}).Trace("fake writemem")

	copy(u.ram[addr:], data)
	u.Writes = append(u.Writes, fmt.Sprintf("%04X:%d", addr, len(data)))
	w.WriteHeader(http.StatusOK)
}

//
func (u *Ultimate) read(w http.ResponseWriter, r *http.Request) {

	addr, err := address(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	length, err := strconv.Atoi(mux.Vars(r)["length"])
	if err != nil || length < 0 || addr+length > len(u.ram) {
		http.Error(w, "invalid length", http.StatusBadRequest)
		return
	}

	u.mu.Lock()
	data := make([]byte, length)
	copy(data, u.ram[addr:])
	if u.IORegister != nil {
		for ix := range data {
			if a := addr + ix; 0xd000 <= a && a < 0xe000 {
				data[ix] = *u.IORegister
			}
		}
	}
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

//
func address(r *http.Request) (int, error) {
	a, err := strconv.ParseUint(mux.Vars(r)["address"], 16, 16)
	if err != nil {
		return -1, fmt.Errorf("invalid address: %v", err)
	}
	return int(a), nil
}
