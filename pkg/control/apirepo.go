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

package control

import (
	"net/http"
	"strings"
)

//
func (a *api) repo(w http.ResponseWriter, req *http.Request) {

	list, err := a.resolver.List()
	if handleError(err, http.StatusNotAcceptable, w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(list, http.StatusOK, w)
	} else {
		sendReply([]byte(strings.Join(list, "\n")), http.StatusOK, w)
	}
}
