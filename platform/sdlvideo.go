//go:build sdl
// +build sdl

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

package platform

import (
	"log"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	displayWidth  = 64
	displayHeight = 128
)

func (p *sdlPlatform) initializeVideo() error {
	var err error
	sdl.Do(func() {
		if err = sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
			return
		}

		sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")
		if p.window, p.renderer, err = sdl.CreateWindowAndRenderer(p.windowSizeX, p.windowSizeY, p.sdlWindowFlags); err != nil {
			return
		}
		p.window.SetTitle("VirtualVIP")
		if p.texture, err = p.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, displayWidth, displayHeight); err != nil {
			return
		}
		p.textureWidth, p.textureHeight = displayWidth, displayHeight

		// The VIP pixel is twice as wide as it is tall.
		err = p.renderer.SetLogicalSize(displayWidth*4, displayHeight*2)
	})
	if err != nil {
		return err
	}

	registerCleanup(p, shutdownVideo)
	return nil
}

func shutdownVideo(p *sdlPlatform) {
	sdl.Do(func() {
		p.texture.Destroy()
		p.renderer.Destroy()
		p.window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
	})
}

func (p *sdlPlatform) RenderGraphics(backBuffer []byte, width, height int) {
	if width != p.textureWidth || height != p.textureHeight || len(backBuffer) != width*height*4 {
		log.Panic("invalid back buffer size")
	}

	sdl.Do(func() {
		p.renderer.SetDrawColor(0, 0, 0, 0xFF)
		p.renderer.Clear()

		p.texture.Update(nil, backBuffer, width*4)
		p.renderer.Copy(p.texture, nil, nil)

		p.renderer.Present()
	})
}

func (p *sdlPlatform) SetTitle(title string) {
	sdl.Do(func() {
		p.window.SetTitle(title)
	})
}
