// Package message provides the event and input item types exchanged with codex.
package message

import (
	"encoding/json"
	"fmt"
)

// Input item type constants.
const (
	ItemTypeText       = "text"
	ItemTypeImage      = "image"
	ItemTypeLocalImage = "local_image"
)

// InputItem is one block of user input inside a user_input submission.
type InputItem interface {
	ItemType() string
}

// Compile-time verification that all item types implement InputItem.
var (
	_ InputItem = (*TextItem)(nil)
	_ InputItem = (*ImageItem)(nil)
	_ InputItem = (*LocalImageItem)(nil)
)

// TextItem is plain text input.
type TextItem struct {
	Text string
}

// ItemType implements the InputItem interface.
func (i *TextItem) ItemType() string { return ItemTypeText }

// MarshalJSON implements json.Marshaler.
func (i *TextItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{ItemTypeText, i.Text})
}

// ImageItem is an image referenced by URL, typically a data: URL.
type ImageItem struct {
	ImageURL string
}

// ItemType implements the InputItem interface.
func (i *ImageItem) ItemType() string { return ItemTypeImage }

// MarshalJSON implements json.Marshaler.
func (i *ImageItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		ImageURL string `json:"image_url"`
	}{ItemTypeImage, i.ImageURL})
}

// LocalImageItem is an image file on the machine running codex.
type LocalImageItem struct {
	Path string
}

// ItemType implements the InputItem interface.
func (i *LocalImageItem) ItemType() string { return ItemTypeLocalImage }

// MarshalJSON implements json.Marshaler.
func (i *LocalImageItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Path string `json:"path"`
	}{ItemTypeLocalImage, i.Path})
}

// UnmarshalInputItem decodes a single input item from its tagged JSON form.
func UnmarshalInputItem(data []byte) (InputItem, error) {
	var raw struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL string `json:"image_url"` //nolint:tagliatelle // codex uses snake_case
		Path     string `json:"path"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal input item: %w", err)
	}

	switch raw.Type {
	case ItemTypeText:
		return &TextItem{Text: raw.Text}, nil
	case ItemTypeImage:
		return &ImageItem{ImageURL: raw.ImageURL}, nil
	case ItemTypeLocalImage:
		return &LocalImageItem{Path: raw.Path}, nil
	default:
		return nil, fmt.Errorf("unknown input item type %q", raw.Type)
	}
}
