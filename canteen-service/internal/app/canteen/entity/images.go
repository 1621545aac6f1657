package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidImages - images не строка и не массив строк
var ErrInvalidImages = errors.New("images must be a string or an array of strings")

// EncodeImages - кодек списка картинок для хранения в текстовой колонке
func EncodeImages(images []string) string {
	if len(images) == 0 {
		return "[]"
	}
	data, err := json.Marshal(images)
	if err != nil {
		// []string всегда сериализуется
		return "[]"
	}
	return string(data)
}

// DecodeImages - обратное преобразование. Пустая колонка и битый JSON дают пустой список,
// старые строки с одиночной ссылкой без JSON обёртки становятся списком из одного элемента
func DecodeImages(stored string) []string {
	stored = strings.TrimSpace(stored)
	if stored == "" || stored == "null" {
		return []string{}
	}

	var images []string
	if err := json.Unmarshal([]byte(stored), &images); err == nil {
		if images == nil {
			return []string{}
		}
		return images
	}

	if !strings.HasPrefix(stored, "[") && !strings.HasPrefix(stored, "{") {
		return []string{stored}
	}
	return []string{}
}

// ParseImageInput нормализует images из запроса: null и "" очищают список,
// строка превращается в список из одного элемента, массив строк сохраняет порядок
func ParseImageInput(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}, nil
	}

	switch raw[0] {
	case '"':
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, ErrInvalidImages
		}
		if single = strings.TrimSpace(single); single == "" {
			return []string{}, nil
		}
		return []string{single}, nil
	case '[':
		var list []*string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, ErrInvalidImages
		}
		images := make([]string, 0, len(list))
		for _, ref := range list {
			if ref == nil {
				continue
			}
			if s := strings.TrimSpace(*ref); s != "" {
				images = append(images, s)
			}
		}
		return images, nil
	}
	return nil, ErrInvalidImages
}

// ImageInput - поле images в DTO. Set=false означает, что ключ отсутствовал
type ImageInput struct {
	Set    bool
	Images []string
}

func (in *ImageInput) UnmarshalJSON(data []byte) error {
	images, err := ParseImageInput(data)
	if err != nil {
		return err
	}
	in.Set = true
	in.Images = images
	return nil
}

func (in ImageInput) MarshalJSON() ([]byte, error) {
	if !in.Set {
		return []byte("null"), nil
	}
	return json.Marshal(in.Images)
}

// List возвращает список (пустой, если ключа не было)
func (in ImageInput) List() []string {
	if in.Images == nil {
		return []string{}
	}
	return in.Images
}
