/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package color annotates response items with colors.
//
// An item may be given a fixed primary color with Primary, which accepts any
// HTML color string.  Alternatively, a color Space may be defined on an
// enclosing item, and items beneath it placed along that space with a value
// from 0.0 (its first color) to 1.0 (its last color); the item's color is
// then the linear interpolation of the space's colors at that value.  A
// sliding table might shade its cells by value with
//
//	heat := color.NewSpace("heat", "white", "tomato")
//	tab.With(heat.Define())
//	... table.Cell(col, util.Double(v), heat.PrimaryColor(fraction))
package color

import (
	"fmt"
	"hash/fnv"

	"github.com/ilhamster/tickline/util"
)

const (
	colorSpaceNamePrefix      = "color_space_"
	primaryColorSpaceKey      = "primary_color_space"
	primaryColorSpaceValueKey = "primary_color_space_value"
	primaryColorKey           = "primary_color"
)

// Space is a color continuum mapping values in [0, 1] to colors.
type Space struct {
	name   string
	colors []string
}

// NewSpace defines a new color space interpolating between the provided
// colors.
func NewSpace(name string, colors ...string) *Space {
	return &Space{
		name:   name,
		colors: colors,
	}
}

// Name returns the Space's name.
func (s *Space) Name() string {
	return s.name
}

// Define annotates with a definition of the receiving Space.
func (s *Space) Define() util.PropertyUpdate {
	return util.StringsProperty(colorSpaceNamePrefix+s.name, s.colors...)
}

// PrimaryColor annotates with a primary color at the provided position
// along the receiver.  Positions are clamped to [0, 1].
func (s *Space) PrimaryColor(position float64) util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(primaryColorSpaceKey, colorSpaceNamePrefix+s.name),
		util.DoubleProperty(primaryColorSpaceValueKey, min(max(position, 0), 1)),
	)
}

// Primary annotates with the specified primary color.
func Primary(color string) util.PropertyUpdate {
	return util.StringProperty(primaryColorKey, color)
}

// Hashed returns a translucent color derived from key.  Equal keys always
// yield the same color.
func Hashed(key string) string {
	hasher := fnv.New32()
	hasher.Write([]byte(key))
	hash := hasher.Sum32()
	return fmt.Sprintf("rgba(%d, %d, %d, .5)", hash%256, (hash/256)%256, (hash/(256*256))%256)
}
