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

package cdp1863

import "testing"

func TestDefaultDivideRate(t *testing.T) {
	d := New(16 * 54 * 100)
	if f := d.OutputFrequency(); f != 100 {
		t.Errorf("output frequency is %v, expected 100", f)
	}
}

func TestSetDivideRate(t *testing.T) {
	d := New(1600)

	d.SetDivideRate(0)
	if f := d.OutputFrequency(); f != 100 {
		t.Errorf("output frequency is %v, expected 100", f)
	}

	d.SetDivideRate(0xFF)
	if r := d.DivideRate(); r != 256 {
		t.Errorf("divide rate is %v, expected 256", r)
	}

	d.Reset()
	if r := d.DivideRate(); r != DefaultDivideRate {
		t.Errorf("divide rate is %v after reset", r)
	}
}
