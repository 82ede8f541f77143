//go:build statsview
// +build statsview

/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package statsview

import (
	"log"
	"sync"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

var once sync.Once

// Launch starts the stats server in a new goroutine. Calling it again has
// no effect.
func Launch() {
	once.Do(func() {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(Address))
			statsview.New().Start()
		}()
		log.Printf("stats server available at %s%s", Address, Path)
	})
}

func Available() bool {
	return true
}
