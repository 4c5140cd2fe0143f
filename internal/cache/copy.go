package cache

import (
	"time"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/jinzhu/copier"
)

// time values carry no exported fields, so they are copied as values rather than walked.
var copyOption = copier.Option{
	DeepCopy: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: time.Time{},
			Fn: func(src interface{}) (interface{}, error) {
				return src.(time.Time), nil
			},
		},
		{
			SrcType: model.Date{},
			DstType: model.Date{},
			Fn: func(src interface{}) (interface{}, error) {
				return src.(model.Date), nil
			},
		},
	},
}

// Clone returns a copy of v sharing no slices with it.
func Clone[T any](v T) (T, error) {
	var dst T
	if err := copier.CopyWithOption(&dst, &v, copyOption); err != nil {
		return dst, err
	}
	return dst, nil
}
