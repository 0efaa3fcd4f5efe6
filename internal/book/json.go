/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

import "encoding/json"

// Every block and inline node serializes with a leading "type" field holding
// its stable tag, so consumers can dispatch without knowing the Go types.
// The tree is marshal-only; tools that need to read a book back work on the
// JSON level.

func (b Verse) MarshalJSON() ([]byte, error) {
	type alias Verse
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagVerse, alias(b)})
}

func (b BulletList) MarshalJSON() ([]byte, error) {
	type alias BulletList
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagBulletList, alias(b)})
}

func (b HorizontalLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{TagHorizontalLine})
}

func (b Pre) MarshalJSON() ([]byte, error) {
	type alias Pre
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagPre, alias(b)})
}

func (b HTMLBlock) MarshalJSON() ([]byte, error) {
	type alias HTMLBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagHTMLBlock, alias(b)})
}

func (i Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagText, alias(i)})
}

func (i Chord) MarshalJSON() ([]byte, error) {
	type alias Chord
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagChord, alias(i)})
}

func (i Break) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{TagBreak})
}

func (i Emph) MarshalJSON() ([]byte, error) {
	type alias Emph
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagEmph, alias(i)})
}

func (i Strong) MarshalJSON() ([]byte, error) {
	type alias Strong
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagStrong, alias(i)})
}

func (i Link) MarshalJSON() ([]byte, error) {
	type alias Link
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagLink, alias(i)})
}

func (i Image) MarshalJSON() ([]byte, error) {
	type alias Image
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagImage, alias(i)})
}

func (i ChorusRef) MarshalJSON() ([]byte, error) {
	type alias ChorusRef
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagChorusRef, alias(i)})
}

func (i Tag) MarshalJSON() ([]byte, error) {
	type alias Tag
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TagTag, alias(i)})
}
