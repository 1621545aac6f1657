package repository

import (
	"context"
	"fmt"
	"reflect"

	"canteenscore/canteen-service/internal/app/canteen/entity"

	"gorm.io/gorm/schema"
)

// imageListSerializerName - имя для тега gorm:"serializer:imagelist"
const imageListSerializerName = "imagelist"

func init() {
	schema.RegisterSerializer(imageListSerializerName, ImageListSerializer{})
}

// ImageListSerializer хранит []string в текстовой колонке через entity.EncodeImages/DecodeImages
type ImageListSerializer struct{}

func (ImageListSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	var stored string
	switch v := dbValue.(type) {
	case nil:
	case string:
		stored = v
	case []byte:
		stored = string(v)
	default:
		return fmt.Errorf("unsupported images column type %T", dbValue)
	}

	return field.Set(ctx, dst, entity.DecodeImages(stored))
}

func (ImageListSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	switch images := fieldValue.(type) {
	case nil:
		return entity.EncodeImages(nil), nil
	case []string:
		return entity.EncodeImages(images), nil
	}
	return nil, fmt.Errorf("unsupported images field type %T", fieldValue)
}
