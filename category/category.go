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

// Package category declares the categories that tickline responses refer
// to: axes, dataset rows and columns, and chart series.  A DataBuilder may
// define one Category, and other DataBuilders may be tagged as belonging to
// one or more categories defined elsewhere.
package category

import (
	"github.com/ilhamster/tickline/util"
)

const (
	categoryDefinedIDKey   = "category_defined_id"
	categoryDescriptionKey = "category_description"
	categoryDisplayNameKey = "category_display_name"
	categoryIDsKey         = "category_ids"
)

// Category is a data category.
type Category struct {
	id, displayName, description string
}

// New returns a new Category with the provided ID, display name, and
// description.
func New(id, displayName, description string) *Category {
	return &Category{
		id:          id,
		displayName: displayName,
		description: description,
	}
}

// FromKey returns a Category for a dataset row or column key, using the key
// as both ID and display name.  The ID is prefixed with prefix, so that
// identically-keyed rows and columns yield distinct categories.
func FromKey(prefix, key string) *Category {
	return New(prefix+key, key, "")
}

// Define defines the receiver on the DataBuilder it is applied to.  Only the
// last Category defined on a DataBuilder takes effect.
func (c *Category) Define() util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(categoryDefinedIDKey, c.id),
		util.StringProperty(categoryDisplayNameKey, c.displayName),
		util.StringProperty(categoryDescriptionKey, c.description),
	)
}

// ID returns the receiver's ID.
func (c *Category) ID() string {
	return c.id
}

// DisplayName returns the receiver's display name.
func (c *Category) DisplayName() string {
	return c.displayName
}

// Tag marks an item as belonging to the receiver.  Tags accumulate.
func (c *Category) Tag() util.PropertyUpdate {
	return Tag(c)
}

// Tag marks an item as belonging to each of the provided Categories.
func Tag(cats ...*Category) util.PropertyUpdate {
	ids := make([]string, len(cats))
	for idx, cat := range cats {
		ids[idx] = cat.id
	}
	return util.StringsPropertyExtended(categoryIDsKey, ids...)
}
